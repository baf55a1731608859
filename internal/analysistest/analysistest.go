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

// Package analysistest contains helpers to build test programs and read the expectations annotated in their source.
package analysistest

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"regexp"
	"strings"
	"testing"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// ReturnsRegex matches annotations of the form "@Returns(0, !0)" in the doc comment of a function
var ReturnsRegex = regexp.MustCompile(`@Returns\(([^)]*)\)`)

// TestProgram is a single-file program built for a test
type TestProgram struct {
	Fset    *token.FileSet
	File    *ast.File
	Package *ssa.Package
}

// BuildProgram parses and type-checks src, and builds its SSA form. The source must not import other packages
// than the standard library.
func BuildProgram(t *testing.T, src string) TestProgram {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "main.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("failed to parse test program: %v", err)
	}
	pkg := types.NewPackage(f.Name.Name, f.Name.Name)
	ssaPkg, _, err := ssautil.BuildPackage(&types.Config{Importer: importer.Default()}, fset, pkg,
		[]*ast.File{f}, ssa.SanityCheckFunctions)
	if err != nil {
		t.Fatalf("failed to build SSA of test program: %v", err)
	}
	return TestProgram{Fset: fset, File: f, Package: ssaPkg}
}

// Func returns the package-level function name of the test program, failing the test if there is none
func (p TestProgram) Func(t *testing.T, name string) *ssa.Function {
	t.Helper()
	fn := p.Package.Func(name)
	if fn == nil {
		t.Fatalf("no function %s in test program", name)
	}
	return fn
}

// ExpectedReturns returns, for each function declaration annotated with "@Returns(...)", the annotation's content
// as printed by lattice.Tuple (e.g. "(0, !0)").
func (p TestProgram) ExpectedReturns() map[string]string {
	res := map[string]string{}
	for _, decl := range p.File.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Doc == nil {
			continue
		}
		for _, c := range fd.Doc.List {
			if m := ReturnsRegex.FindStringSubmatch(c.Text); len(m) > 1 {
				parts := strings.Split(m[1], ",")
				for i := range parts {
					parts[i] = strings.TrimSpace(parts[i])
				}
				res[fd.Name.Name] = "(" + strings.Join(parts, ", ") + ")"
			}
		}
	}
	return res
}
