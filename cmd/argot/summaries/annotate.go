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

package summaries

import (
	"bytes"
	"fmt"
	"go/ast"
	"os"
	"path/filepath"

	"github.com/awslabs/ar-go-summaries/analysis"
	"github.com/awslabs/ar-go-summaries/analysis/annotate"
	"github.com/awslabs/ar-go-summaries/analysis/config"
)

// writeAnnotatedSources writes a copy of each source file of the loaded packages that declares a summarized function
// in dir/<package name>/, with the summaries as comments.
func writeAnnotatedSources(dir string, loaded analysis.LoadedProgram, notes map[*ast.FuncDecl][]string,
	logger *config.LogGroup) error {
	fset := loaded.Program.Fset
	for _, pkg := range loaded.Packages {
		for _, file := range pkg.Syntax {
			fileNotes := notesOfFile(file, notes)
			if len(fileNotes) == 0 {
				continue
			}
			var buf bytes.Buffer
			if err := annotate.File(&buf, fset, file, fileNotes); err != nil {
				return err
			}
			outDir := filepath.Join(dir, pkg.Name)
			if err := os.MkdirAll(outDir, 0750); err != nil {
				return fmt.Errorf("could not create directory %s: %w", outDir, err)
			}
			out := filepath.Join(outDir, filepath.Base(fset.Position(file.Pos()).Filename))
			if err := os.WriteFile(out, buf.Bytes(), 0600); err != nil {
				return fmt.Errorf("could not write %s: %w", out, err)
			}
			logger.Debugf("Annotated source written in %s\n", out)
		}
	}
	return nil
}

func notesOfFile(file *ast.File, notes map[*ast.FuncDecl][]string) map[*ast.FuncDecl][]string {
	res := map[*ast.FuncDecl][]string{}
	for _, decl := range file.Decls {
		if fd, ok := decl.(*ast.FuncDecl); ok {
			if lines, ok := notes[fd]; ok {
				res[fd] = lines
			}
		}
	}
	return res
}
