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

package analysis

import (
	"github.com/awslabs/ar-go-summaries/analysis/lang"
	"golang.org/x/tools/go/ssa"
)

// SSAStats contains the size of a set of functions in SSA form
type SSAStats struct {
	NumberOfFunctions         uint `json:"functions"`
	NumberOfNonemptyFunctions uint `json:"nonempty-functions"`
	NumberOfBlocks            uint `json:"blocks"`
	NumberOfInstructions      uint `json:"instructions"`
}

// SSAStatistics returns the size of the functions
func SSAStatistics(functions []*ssa.Function) SSAStats {
	result := SSAStats{}

	for _, f := range functions {
		result.NumberOfFunctions++

		if !lang.IsExternal(f) {
			result.NumberOfNonemptyFunctions++
			result.NumberOfBlocks += uint(len(f.Blocks))
			lang.IterateInstructions(f, func(int, ssa.Instruction) {
				result.NumberOfInstructions++
			})
		}
	}

	return result
}
