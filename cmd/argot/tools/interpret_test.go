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

package tools

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/awslabs/ar-go-summaries/analysis/config"
)

func TestHintForErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		errorMsg string
		hint     string
	}{
		{"flag after files", "error: could not load program:\n -: named files must be .go files: -v",
			"all command line flags should be before the path"},
		{"failed load", "error: could not load program:\n errors found, exiting\n",
			"you have provided the right arguments for an analyzer to load a Go program"},
		{"no entry point", "error: no entry point to analyze", "should have a main function"},
		{"no convergence", "main.f after 10 block visits: intra-procedural analysis did not converge",
			"increase max-iterations"},
		{"recursion", "analyzing main.f at depth 1025: recursion limit reached", "max-context-depth"},
		{"unknown", "some other error", ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			hint := HintForErrorMessage(test.errorMsg)
			if test.hint == "" && hint != "" || !strings.Contains(hint, test.hint) {
				t.Errorf("hint for %q = %q", test.errorMsg, hint)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil || cfg.MaxContextDepth != config.DefaultMaxContextDepth {
		t.Errorf("empty path should give the default config, got %+v, %v", cfg, err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("options:\n  max-context-depth: 7\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig(path)
	if err != nil || cfg.MaxContextDepth != 7 {
		t.Errorf("LoadConfig(%s) = %+v, %v", path, cfg, err)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("loading a missing file should fail")
	}
}

func TestNewCommonFlags(t *testing.T) {
	flags, err := NewCommonFlags("summaries", []string{"-config", "c.yaml", "-verbose", "./..."}, "usage")
	if err != nil {
		t.Fatal(err)
	}
	if flags.ConfigPath != "c.yaml" || !flags.Verbose || flags.WithTest {
		t.Errorf("flags = %+v", flags)
	}
	if args := flags.FlagSet.Args(); len(args) != 1 || args[0] != "./..." {
		t.Errorf("remaining args = %v", args)
	}
}

func TestParseCommonFlags(t *testing.T) {
	flags := NewUnparsedCommonFlags("summaries")
	depth := flags.FlagSet.Int("max-depth", -1, "max depth")
	parsed, err := ParseCommonFlags(flags, []string{"-with-test", "-max-depth", "3", "pkg"}, "usage")
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.WithTest || parsed.Verbose || *depth != 3 {
		t.Errorf("flags = %+v, max-depth = %d", parsed, *depth)
	}
	if args := parsed.FlagSet.Args(); len(args) != 1 || args[0] != "pkg" {
		t.Errorf("remaining args = %v", args)
	}

	_, err = ParseCommonFlags(NewUnparsedCommonFlags("summaries"), []string{"-unknown"}, "usage")
	if err == nil || !strings.Contains(err.Error(), "failed to parse command summaries") {
		t.Errorf("unknown flag should be rejected, got %v", err)
	}
	_, err = ParseCommonFlags(NewUnparsedCommonFlags("summaries"), []string{"-help"}, "usage")
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("expected flag.ErrHelp, got %v", err)
	}
}
