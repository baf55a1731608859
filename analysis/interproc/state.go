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
	"errors"
	"fmt"

	"github.com/awslabs/ar-go-summaries/analysis/config"
	"github.com/awslabs/ar-go-summaries/analysis/lattice"
	"github.com/awslabs/ar-go-summaries/analysis/summarycache"
	"golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/callgraph/static"
	"golang.org/x/tools/go/ssa"
)

var (
	// ErrNoConvergence is returned when the analysis of a function body exceeds its iteration bound
	ErrNoConvergence = errors.New("intra-procedural analysis did not converge")

	// ErrRecursionLimit is returned when the context depth is unbounded and the analysis recurses too deeply
	ErrRecursionLimit = errors.New("recursion limit reached")

	// ErrArity is returned when the precondition of an analysis does not match the parameters of the function
	ErrArity = errors.New("precondition does not match function parameters")
)

// maxUnboundedDepth bounds the depth of calling contexts when the configuration does not bound it
const maxUnboundedDepth = 1024

// Summary is a summary of a function of the program
type Summary = summarycache.Summary[lattice.Tuple]

// ContextKey identifies a calling context of a function of the program
type ContextKey = summarycache.ContextKey[*ssa.Function]

// Stats contains the counters of an analysis
type Stats struct {
	// Cache contains the counters of the summary cache
	Cache summarycache.CacheStats `json:"cache"`

	// Analyses is the number of function bodies analyzed, including the entry points
	Analyses int `json:"analyses"`

	// DepthCutoffs is the number of calls that were not analyzed because their context is too deep
	DepthCutoffs int `json:"depth-cutoffs"`

	// UnknownCalls is the number of calls to functions without body, dynamic calls, and calls to functions outside
	// of the package filter
	UnknownCalls int `json:"unknown-calls"`

	// BlockVisits is the total number of basic block visits
	BlockVisits int `json:"block-visits"`
}

// AnalyzerState holds the state of the interprocedural analysis of a program: its configuration, the summary cache
// and the repository of per-context results.
type AnalyzerState struct {
	// The logger used during the analysis
	Logger *config.LogGroup

	// The configuration of the analysis
	Config *config.Config

	// The program to be analyzed
	Program *ssa.Program

	// CallGraph is the static callgraph of the program. It is only used for reporting.
	CallGraph *callgraph.Graph

	// Manager builds summaries and manages the summary cache
	Manager *summarycache.Manager[*ssa.Function, lattice.Tuple]

	// Repository records the results of each function in each calling context it has been analyzed in
	Repository *summarycache.Repository[*ssa.Function, lattice.Tuple]

	// Ignored contains the functions whose body is never analyzed when they are called
	Ignored map[*ssa.Function]bool

	analyses map[*ssa.Function]int
	stats    Stats
}

// NewAnalyzerState returns a new analyzer state for program. If cfg is nil, the default configuration is used. If
// logger is nil, a logger is built from the configuration.
func NewAnalyzerState(program *ssa.Program, logger *config.LogGroup, cfg *config.Config) *AnalyzerState {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	if logger == nil {
		logger = config.NewLogGroup(cfg)
	}
	cache := summarycache.NewCache[*ssa.Function, lattice.Tuple](cfg.Policy())
	return &AnalyzerState{
		Logger:     logger,
		Config:     cfg,
		Program:    program,
		CallGraph:  static.CallGraph(program),
		Manager:    summarycache.NewManager[*ssa.Function, lattice.Tuple](NewFactory(), cache),
		Repository: summarycache.NewRepository[*ssa.Function, lattice.Tuple](),
		Ignored:    map[*ssa.Function]bool{},
		analyses:   map[*ssa.Function]int{},
	}
}

// AnalysisCount returns the number of times the body of fn has been analyzed
func (s *AnalyzerState) AnalysisCount(fn *ssa.Function) int {
	return s.analyses[fn]
}

// Stats returns the counters of the analysis
func (s *AnalyzerState) Stats() Stats {
	st := s.stats
	st.Cache = s.Manager.Cache().Stats()
	return st
}

// checkRecursion returns an error if the depth is unbounded and d is too deep
func (s *AnalyzerState) checkRecursion(fn *ssa.Function, d int) error {
	if s.Config.MaxContextDepth <= 0 && d > maxUnboundedDepth {
		return fmt.Errorf("analyzing %s at depth %d: %w", fn, d, ErrRecursionLimit)
	}
	return nil
}

// record stores the result post of fn in the calling context key, and joins it into the state of fn across contexts
func (s *AnalyzerState) record(key ContextKey, summary Summary, post lattice.Tuple) {
	ms := s.Repository.GetOrCreate(key.Method)
	ms.GetOrCreate(key, summary).SetSummary(summary)
	ms.JoinWithContextState(summarycache.NewAbstractState(post))
}
