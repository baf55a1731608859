// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package interproc

import (
	"go/types"

	"github.com/awslabs/ar-go-summaries/analysis/config"
	"github.com/awslabs/ar-go-summaries/analysis/lang"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// FunctionIdentifier returns the code identifier of fn, to be matched against the entry points of a configuration
func FunctionIdentifier(fn *ssa.Function) config.CodeIdentifier {
	cid := config.CodeIdentifier{Method: fn.Name()}
	if fn.Pkg != nil {
		cid.Package = fn.Pkg.Pkg.Path()
	}
	if recv := fn.Signature.Recv(); recv != nil {
		cid.Receiver = types.TypeString(recv.Type(), types.RelativeTo(fn.Pkg.Pkg))
	}
	return cid
}

// EntryPoints returns the functions of the program the analysis starts from, sorted by name:
//   - if names is not empty, the functions whose name or full name is in names;
//   - otherwise, if the configuration lists entry points, the functions matching one of them;
//   - otherwise, the main functions of main packages.
//
// Only functions with a body that are members of a package are returned.
func EntryPoints(program *ssa.Program, cfg *config.Config, names []string) []*ssa.Function {
	var res []*ssa.Function
	for fn := range ssautil.AllFunctions(program) {
		if lang.IsExternal(fn) || fn.Pkg == nil || fn.Synthetic != "" || fn.Parent() != nil {
			continue
		}
		if isEntryPoint(fn, cfg, names) {
			res = append(res, fn)
		}
	}
	slices.SortFunc(res, func(a, b *ssa.Function) bool { return a.String() < b.String() })
	return res
}

func isEntryPoint(fn *ssa.Function, cfg *config.Config, names []string) bool {
	if len(names) > 0 {
		return slices.Contains(names, fn.Name()) || slices.Contains(names, fn.String())
	}
	if cfg != nil && len(cfg.EntryPoints) > 0 {
		return cfg.IsEntryPoint(FunctionIdentifier(fn))
	}
	return fn.Name() == "main" && fn.Pkg.Pkg.Name() == "main" && fn.Signature.Recv() == nil
}
