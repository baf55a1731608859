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
	"encoding/json"
	"fmt"
	"go/ast"
	"io"
	"strconv"

	"github.com/awslabs/ar-go-summaries/analysis"
	"github.com/awslabs/ar-go-summaries/analysis/lattice"
	"github.com/awslabs/ar-go-summaries/analysis/summarycache"
	"github.com/awslabs/ar-go-summaries/internal/formatutil"
	"github.com/awslabs/ar-go-summaries/internal/funcutil"
	"github.com/awslabs/ar-go-summaries/internal/graphutil"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/ssa"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Report is the result of an analysis, in a form that can be printed or marshaled to json
type Report struct {
	CachePolicy string            `json:"cache-policy"`
	MaxDepth    int               `json:"max-context-depth"`
	Stats       Stats             `json:"stats"`
	SSA         analysis.SSAStats `json:"ssa"`
	PerFunction Distribution      `json:"summaries-per-function"`
	Functions   []FunctionReport  `json:"functions"`
	Recursive   [][]string        `json:"recursive-components,omitempty"`
}

// Distribution summarizes the number of cached summaries per function
type Distribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Max    float64 `json:"max"`
}

// FunctionReport contains the results of one function
type FunctionReport struct {
	Name      string          `json:"name"`
	Analyses  int             `json:"analyses"`
	Aggregate string          `json:"aggregate,omitempty"`
	Contexts  []ContextReport `json:"contexts"`
	Summaries []SummaryReport `json:"summaries"`
}

// ContextReport contains the result of a function in one calling context
type ContextReport struct {
	Depth    int    `json:"depth"`
	CallHash string `json:"call-string-hash"`
	Pre      string `json:"pre"`
	Post     string `json:"post"`
}

// SummaryReport is a cached summary
type SummaryReport struct {
	Pre  string `json:"pre"`
	Post string `json:"post"`
}

// BuildReport returns the report of the analysis. Functions are sorted by name.
func (s *AnalyzerState) BuildReport() Report {
	r := Report{
		CachePolicy: s.Manager.Cache().Policy().String(),
		MaxDepth:    s.Config.MaxContextDepth,
		Stats:       s.Stats(),
	}

	var counts []float64
	for _, fn := range s.Repository.Methods() {
		fr := FunctionReport{Name: fn.String(), Analyses: s.AnalysisCount(fn)}
		ms := s.Repository.Get(fn)
		if agg, ok := ms.StateAcrossAllContexts(); ok {
			fr.Aggregate = agg.Value().String()
		}
		for _, c := range ms.Contexts() {
			fr.Contexts = append(fr.Contexts, ContextReport{
				Depth:    c.Key.Depth,
				CallHash: strconv.FormatUint(c.Key.CallStringHash, 16),
				Pre:      c.Summary().PreCondition().String(),
				Post:     postString(c.Summary()),
			})
		}
		for _, cached := range s.Manager.Cache().Summaries(fn) {
			fr.Summaries = append(fr.Summaries, SummaryReport{
				Pre:  cached.PreCondition().String(),
				Post: postString(cached),
			})
		}
		counts = append(counts, float64(len(fr.Summaries)))
		r.Functions = append(r.Functions, fr)
	}
	slices.SortFunc(r.Functions, func(a, b FunctionReport) bool { return a.Name < b.Name })
	r.SSA = analysis.SSAStatistics(s.Repository.Methods())
	r.PerFunction = distribution(counts)

	if s.CallGraph != nil {
		for _, component := range graphutil.RecursiveComponents(s.CallGraph) {
			nodes := funcutil.Filter(component, func(n *callgraph.Node) bool { return n.Func != nil })
			names := funcutil.Map(nodes, func(n *callgraph.Node) string { return n.Func.String() })
			slices.Sort(names)
			r.Recursive = append(r.Recursive, names)
		}
	}
	return r
}

func postString(s Summary) string {
	post, err := s.PostCondition()
	if err != nil {
		return "?"
	}
	return post.String()
}

// distribution returns the statistics of counts. All the statistics of an empty sample are zero, and the standard
// deviation of a sample with one element is zero.
func distribution(counts []float64) Distribution {
	if len(counts) == 0 {
		return Distribution{}
	}
	d := Distribution{Mean: stat.Mean(counts, nil), Max: floats.Max(counts)}
	if len(counts) > 1 {
		d.StdDev = stat.StdDev(counts, nil)
	}
	return d
}

// WriteJSON writes the report as indented json to w
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes a human-readable version of the report to w
func (r Report) WriteText(w io.Writer) {
	for _, f := range r.Functions {
		fmt.Fprintf(w, "%s (analyzed %d times)\n", formatutil.Bold(f.Name), f.Analyses)
		for _, c := range f.Contexts {
			fmt.Fprintf(w, "  context %s depth %d: %s -> %s\n",
				formatutil.Faint(c.CallHash), c.Depth, c.Pre, formatutil.Green(c.Post))
		}
		for _, s := range f.Summaries {
			fmt.Fprintf(w, "  cached: %s -> %s\n", s.Pre, formatutil.Cyan(s.Post))
		}
	}
	for _, c := range r.Recursive {
		fmt.Fprintf(w, "%s %v\n", formatutil.Yellow("recursive:"), c)
	}
	st := r.Stats
	fmt.Fprintf(w, "cache (%s): %d calls, %d hits, %d misses, %d summaries, %d discarded, %d evicted\n",
		r.CachePolicy, st.Cache.Calls, st.Cache.Hits, st.Cache.Misses(), st.Cache.Summaries, st.Cache.Discarded,
		st.Cache.Evicted)
	fmt.Fprintf(w, "%d analyses, %d depth cutoffs, %d unknown calls, %d block visits\n",
		st.Analyses, st.DepthCutoffs, st.UnknownCalls, st.BlockVisits)
	fmt.Fprintf(w, "%d functions analyzed, %d blocks, %d instructions\n",
		r.SSA.NumberOfFunctions, r.SSA.NumberOfBlocks, r.SSA.NumberOfInstructions)
	fmt.Fprintf(w, "summaries per function: mean %.2f, stddev %.2f, max %.0f\n",
		r.PerFunction.Mean, r.PerFunction.StdDev, r.PerFunction.Max)
}

// FunctionNotes returns, for each analyzed function declared in the source, a line describing its results in all
// calling contexts, e.g. "(⊤) -> (!0) [2 contexts]".
func (s *AnalyzerState) FunctionNotes() map[*ast.FuncDecl][]string {
	notes := map[*ast.FuncDecl][]string{}
	for _, fn := range s.Repository.Methods() {
		decl, ok := fn.Syntax().(*ast.FuncDecl)
		if !ok {
			continue
		}
		ms := s.Repository.Get(fn)
		pre := joinedPreconditions(ms.Contexts())
		agg, ok := ms.StateAcrossAllContexts()
		if !ok {
			continue
		}
		notes[decl] = append(notes[decl],
			fmt.Sprintf("%s -> %s [%d contexts]", pre, agg.Value(), len(ms.Contexts())))
	}
	return notes
}

func joinedPreconditions(contexts []*contextSummary) lattice.Tuple {
	var pre lattice.Tuple
	for i, c := range contexts {
		if i == 0 {
			pre = c.Summary().PreCondition().Copy()
		} else {
			pre = pre.Join(c.Summary().PreCondition())
		}
	}
	return pre
}

type contextSummary = summarycache.ContextSummary[*ssa.Function, lattice.Tuple]
