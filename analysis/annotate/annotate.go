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

// Package annotate prints Go source files with comments describing analysis results attached to function
// declarations.
package annotate

import (
	"fmt"
	"go/ast"
	"go/token"
	"io"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// Prefix starts every comment line added to the source. It does not clash with the //argot:ignore directive.
const Prefix = "//argot:summary"

// File writes the source of file to w, with a comment line before each function declaration of notes for every
// string in its notes. Existing comments of the file are preserved. file must have been parsed with comments, using
// fset. file is not modified.
func File(w io.Writer, fset *token.FileSet, file *ast.File, notes map[*ast.FuncDecl][]string) error {
	dec := decorator.NewDecorator(fset)
	f, err := dec.DecorateFile(file)
	if err != nil {
		return fmt.Errorf("could not decorate %s: %w", file.Name.Name, err)
	}
	for decl, lines := range notes {
		node, ok := dec.Dst.Nodes[decl]
		if !ok {
			continue
		}
		fd, ok := node.(*dst.FuncDecl)
		if !ok {
			continue
		}
		for _, line := range lines {
			fd.Decs.Start.Append(Prefix + " " + strings.ReplaceAll(line, "\n", " "))
		}
	}
	return decorator.Fprint(w, f)
}
