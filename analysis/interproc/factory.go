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
	"github.com/awslabs/ar-go-summaries/analysis/lattice"
	"github.com/awslabs/ar-go-summaries/analysis/summarycache"
)

// NewFactory returns the summary factory of the analysis. The precondition of a call is the tuple of the kinds of its
// arguments, each argument being given as a one-element tuple; the state of the caller is not part of the
// precondition, so that calls with the same argument kinds share summaries. Applying a summary returns its
// postcondition, the tuple of the kinds of the callee's results.
func NewFactory() summarycache.FuncFactory[lattice.Tuple] {
	return summarycache.FuncFactory[lattice.Tuple]{
		Project: projectArguments,
		Apply:   applyPostCondition,
	}
}

func projectArguments(_ summarycache.CallSite, _ lattice.Tuple, args []lattice.Tuple) lattice.Tuple {
	pre := make(lattice.Tuple, 0, len(args))
	for _, arg := range args {
		pre = append(pre, arg...)
	}
	return pre
}

func applyPostCondition(_ summarycache.CallSite, _ any, _ lattice.Tuple, post lattice.Tuple) (lattice.Tuple, error) {
	return post.Copy(), nil
}
