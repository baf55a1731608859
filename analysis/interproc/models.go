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
	"golang.org/x/tools/go/ssa"
)

// resultModels maps standard library functions whose body is not analyzed to the kinds of their results, when those
// kinds are known for any argument.
var resultModels = map[string]lattice.Tuple{
	"errors.New":            {lattice.NonZero},
	"fmt.Errorf":            {lattice.NonZero},
	"strconv.Itoa":          {lattice.NonZero},
	"strconv.FormatInt":     {lattice.NonZero},
	"strconv.FormatUint":    {lattice.NonZero},
	"strconv.FormatBool":    {lattice.NonZero},
	"strconv.Quote":         {lattice.NonZero},
	"context.Background":    {lattice.NonZero},
	"context.TODO":          {lattice.NonZero},
	"bytes.NewBuffer":       {lattice.NonZero},
	"bytes.NewBufferString": {lattice.NonZero},
	"bytes.NewReader":       {lattice.NonZero},
	"strings.NewReader":     {lattice.NonZero},
	"strings.NewReplacer":   {lattice.NonZero},
}

// modelOf returns the kinds of the results of a call to fn if fn has a model
func modelOf(fn *ssa.Function) (lattice.Tuple, bool) {
	if fn == nil {
		return nil, false
	}
	t, ok := resultModels[fn.String()]
	if !ok || len(t) != fn.Signature.Results().Len() {
		return nil, false
	}
	return t.Copy(), true
}
