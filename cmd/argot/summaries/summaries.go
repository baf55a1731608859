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

// Package summaries implements the summaries sub-command, which runs the interprocedural zero-ness analysis on a
// program and reports the function summaries it computed.
package summaries

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/awslabs/ar-go-summaries/analysis"
	"github.com/awslabs/ar-go-summaries/analysis/config"
	"github.com/awslabs/ar-go-summaries/analysis/interproc"
	"github.com/awslabs/ar-go-summaries/analysis/summarycache"
	"github.com/awslabs/ar-go-summaries/cmd/argot/tools"
	"github.com/awslabs/ar-go-summaries/internal/formatutil"
	"github.com/awslabs/ar-go-summaries/internal/funcutil"
	"golang.org/x/tools/go/ssa"
)

// Usage is the usage message of the summaries sub-command
const Usage = ` Compute the function summaries of your packages.
Usage:
  argot summaries [options] <package path(s)>
Examples:
  % argot summaries -config config.yaml package...
  % argot summaries -entry Handle,main.run -json ./cmd/server
  % argot summaries -annotate annotated/ ./...
`

// Flags represents the parsed flags of the summaries sub-command.
type Flags struct {
	tools.CommonFlags
	entries     []string
	json        bool
	annotateDir string
	maxDepth    int
	policy      string
}

// NewFlags returns the parsed flags of the summaries sub-command with args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("summaries")
	entries := flags.FlagSet.String("entry", "", "comma-separated names of the functions to start the analysis from")
	json := flags.FlagSet.Bool("json", false, "print the report in json")
	annotateDir := flags.FlagSet.String("annotate", "",
		"directory where copies of the source files annotated with summaries are written")
	maxDepth := flags.FlagSet.Int("max-depth", -1, "override the max context depth of the config")
	policy := flags.FlagSet.String("policy", "", "override the cache policy of the config (antichain or append)")
	common, err := tools.ParseCommonFlags(flags, args, Usage)
	if err != nil {
		return Flags{}, err
	}

	var entryNames []string
	if *entries != "" {
		entryNames = funcutil.Map(strings.Split(*entries, ","), strings.TrimSpace)
	}
	return Flags{
		CommonFlags: common,
		entries:     entryNames,
		json:        *json,
		annotateDir: *annotateDir,
		maxDepth:    *maxDepth,
		policy:      *policy,
	}, nil
}

// Run runs the summary analysis with flags.
func Run(flags Flags) error {
	cfg, err := tools.LoadConfig(flags.ConfigPath)
	if err != nil {
		return err
	}
	if err := applyOverrides(cfg, flags); err != nil {
		return err
	}
	logger := config.NewLogGroup(cfg)

	logger.Infof(formatutil.Faint("Argot summaries tool - " + analysis.Version))
	logger.Infof(formatutil.Faint("Reading sources") + "\n")

	loaded, err := analysis.LoadProgram(nil, "", ssa.InstantiateGenerics, flags.WithTest, flags.FlagSet.Args())
	if err != nil {
		return fmt.Errorf("could not load program: %v", err)
	}

	ctx := context.Background()
	if timeout := cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	state := interproc.NewAnalyzerState(loaded.Program, logger, cfg)
	state.Ignored = loaded.Directives.IgnoredFunctions(loaded.Program)
	entries := interproc.EntryPoints(loaded.Program, cfg, flags.entries)
	if len(entries) == 0 {
		return fmt.Errorf("no entry point to analyze")
	}

	start := time.Now()
	for _, fn := range entries {
		post, err := state.AnalyzeEntryPoint(ctx, fn)
		if err != nil {
			return fmt.Errorf("analysis of %s failed: %w", fn, err)
		}
		logger.Infof("%s returns %s\n", formatutil.Bold(fn.String()), post)
	}
	logger.Infof("Analysis took %3.4f s\n", time.Since(start).Seconds())
	if st := state.Stats(); st.DepthCutoffs > 0 {
		logger.Warnf("%s %d calls were not analyzed because their context is deeper than %d\n",
			formatutil.Red("Results are imprecise:"), st.DepthCutoffs, cfg.MaxContextDepth)
	}

	report := state.BuildReport()
	if flags.json {
		if err := report.WriteJSON(os.Stdout); err != nil {
			return err
		}
	} else {
		report.WriteText(os.Stdout)
	}

	if cfg.ReportSummaries {
		if err := writeReportFile(cfg, report, logger); err != nil {
			return err
		}
	}

	if flags.annotateDir != "" {
		return writeAnnotatedSources(flags.annotateDir, loaded, state.FunctionNotes(), logger)
	}
	return nil
}

func applyOverrides(cfg *config.Config, flags Flags) error {
	if flags.Verbose {
		cfg.LogLevel = int(config.DebugLevel)
	}
	if flags.maxDepth >= 0 {
		cfg.MaxContextDepth = flags.maxDepth
	}
	if flags.policy != "" {
		p, err := summarycache.ParsePolicy(flags.policy)
		if err != nil {
			return err
		}
		cfg.CachePolicy = p.String()
	}
	return nil
}

func writeReportFile(cfg *config.Config, report interproc.Report, logger *config.LogGroup) error {
	f, err := os.CreateTemp(cfg.ReportsDir, "summaries-*.json")
	if err != nil {
		return fmt.Errorf("could not create report file: %w", err)
	}
	if err := report.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("could not write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	logger.Infof("Report written in %s\n", f.Name())
	return nil
}
