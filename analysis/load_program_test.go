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
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

const directivesSrc = `package main

//argot:ignore
func ignored() int { return 1 }

// analyzed is not ignored
//
//argot:unknown
func analyzed() int { return ignored() }

func main() {
	//argot:ignore
	analyzed()
}
`

func TestNewDirective(t *testing.T) {
	tests := []struct {
		text string
		ok   bool
	}{
		{"//argot:ignore", true},
		{"// argot:ignore", true},
		{"//argot:unknown", false},
		{"// ignore", false},
	}
	for _, test := range tests {
		d, ok := NewDirective(&ast.Comment{Text: test.text})
		if ok != test.ok {
			t.Errorf("NewDirective(%q) = %v, want %v", test.text, ok, test.ok)
		}
		if ok && d.Kind != DirectiveIgnore {
			t.Errorf("NewDirective(%q) has kind %s", test.text, d.Kind)
		}
	}
}

func TestDirectives(t *testing.T) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "main.go", directivesSrc, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}
	directives := FindDirectives([]*ast.File{f}, fset)
	if len(directives) != 2 {
		t.Errorf("expected 2 directives, got %d", len(directives))
	}
	if _, ok := directives[DirectivePos{Filename: "main.go", Line: 3}]; !ok {
		t.Errorf("missing directive at line 3: %v", directives)
	}

	pkg, _, err := ssautil.BuildPackage(&types.Config{Importer: importer.Default()}, fset,
		types.NewPackage("main", "main"), []*ast.File{f}, ssa.SanityCheckFunctions)
	if err != nil {
		t.Fatal(err)
	}
	ignored := directives.IgnoredFunctions(pkg.Prog)
	if len(ignored) != 1 || !ignored[pkg.Func("ignored")] {
		t.Errorf("only the function ignored should be ignored, got %v", ignored)
	}
}
