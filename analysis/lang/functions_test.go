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

package lang_test

import (
	"testing"

	"github.com/awslabs/ar-go-summaries/analysis/lang"
	"github.com/awslabs/ar-go-summaries/internal/analysistest"
	"golang.org/x/tools/go/ssa"
)

func TestIterateInstructions(t *testing.T) {
	p := analysistest.BuildProgram(t, `package main

func f(x int) int {
	if x > 0 {
		return 1
	}
	return 2
}
`)
	f := p.Func(t, "f")
	if lang.IsExternal(f) {
		t.Fatalf("f has a body")
	}
	total := 0
	for _, b := range f.Blocks {
		total += len(b.Instrs)
	}
	count := 0
	returns := 0
	lang.IterateInstructions(f, func(_ int, i ssa.Instruction) {
		count++
		if _, ok := i.(*ssa.Return); ok {
			returns++
		}
	})
	if count != total || returns != 2 {
		t.Errorf("visited %d instructions and %d returns, want %d and 2", count, returns, total)
	}

	lang.IterateInstructions(&ssa.Function{}, func(int, ssa.Instruction) {
		t.Errorf("external functions have no instructions")
	})
}
