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
	"context"
	"errors"
	"fmt"

	"github.com/awslabs/ar-go-summaries/analysis/lang"
	"github.com/awslabs/ar-go-summaries/analysis/lattice"
	"github.com/awslabs/ar-go-summaries/analysis/summarycache"
	"golang.org/x/tools/go/ssa"
)

// ErrNoBody is returned when analyzing a function that has no body
var ErrNoBody = errors.New("function has no body")

// AnalyzeFunction analyzes fn, as an entry point of the program, with the kinds of its parameters given by pre.
// It returns the kinds of the results of fn. The summary of fn for pre is added to the cache and the root calling
// context of fn is recorded in the repository.
//
// The analysis stops with an error if ctx is done, or if one of the analyzed function bodies does not converge.
func (s *AnalyzerState) AnalyzeFunction(ctx context.Context, fn *ssa.Function, pre lattice.Tuple) (lattice.Tuple,
	error) {
	if lang.IsExternal(fn) {
		return nil, fmt.Errorf("analyzing %s: %w", fn, ErrNoBody)
	}
	if len(pre) != len(fn.Params) {
		return nil, fmt.Errorf("%s has %d parameters, precondition is %s: %w", fn, len(fn.Params), pre, ErrArity)
	}
	root := s.Manager.Factory().FromState(nil, summarycache.NewAbstractState(pre.Copy()))
	cs := summarycache.CallString{}
	post, err := s.analyzeBody(ctx, fn, cs, root.PreCondition())
	if err != nil {
		return nil, err
	}
	if err := root.Finalize(post); err != nil {
		return nil, err
	}
	if err := s.Manager.PutSummary(fn, root); err != nil {
		return nil, err
	}
	s.record(summarycache.NewContextKey(fn, cs), root, post)
	return post.Copy(), nil
}

// AnalyzeEntryPoint analyzes fn with all its parameters unknown
func (s *AnalyzerState) AnalyzeEntryPoint(ctx context.Context, fn *ssa.Function) (lattice.Tuple, error) {
	return s.AnalyzeFunction(ctx, fn, lattice.Fill(len(fn.Params), lattice.Top))
}

func (s *AnalyzerState) analyzeBody(ctx context.Context, fn *ssa.Function, cs summarycache.CallString,
	pre lattice.Tuple) (lattice.Tuple, error) {
	if err := s.checkRecursion(fn, cs.Depth()); err != nil {
		return nil, err
	}
	s.analyses[fn]++
	s.stats.Analyses++
	s.Logger.Debugf("Analyzing %s with %s at depth %d\n", fn, pre, cs.Depth())
	return newFrame(s, fn, cs, pre).run(ctx)
}

// resolveCall returns the kinds of the results of the call made by the frame f.
//
// The precondition of the call is looked up in the cache first. On a hit, the cached summary is applied and the
// callee is not analyzed. On a miss, the callee is analyzed in the calling context extended with the call, unless
// that context is deeper than the maximum context depth, in which case the results are unknown and nothing is cached.
func (s *AnalyzerState) resolveCall(ctx context.Context, f *frame, call ssa.CallInstruction) (lattice.Tuple, error) {
	common := call.Common()
	nres := common.Signature().Results().Len()
	callee := common.StaticCallee()
	if callee == nil || !s.shouldAnalyze(callee) {
		if model, ok := modelOf(callee); ok {
			return model, nil
		}
		s.stats.UnknownCalls++
		return lattice.Fill(nres, lattice.Top), nil
	}

	args := make([]lattice.Tuple, len(common.Args))
	for i, arg := range common.Args {
		args[i] = lattice.Tuple{f.kindOf(arg)}
	}
	pre := s.Manager.CreateSummary(call, f.pre, args)
	key := summarycache.NewContextKey(callee, f.cs.Push(call, s.Config.MaxContextDepth))

	if s.Manager.ContainsSummary(callee, pre) {
		cached := s.Manager.GetSummary(callee, pre)
		post, err := cached.PostCondition()
		if err != nil {
			return nil, err
		}
		s.Logger.Tracef("Reusing summary of %s for %s at %s\n", callee, pre.PreCondition(), call)
		if !s.Config.ExceedsMaxContextDepth(key.Depth) {
			s.record(key, s.Manager.Factory().CompleteFromState(pre, summarycache.NewAbstractState(post)), post)
		}
		return cached.Apply(call, call, f.pre)
	}

	if s.Config.ExceedsMaxContextDepth(key.Depth) {
		s.stats.DepthCutoffs++
		s.Logger.Tracef("Not analyzing %s at depth %d\n", callee, key.Depth)
		return lattice.Fill(nres, lattice.Top), nil
	}

	post, err := s.analyzeBody(ctx, callee, f.cs.Push(call, s.Config.MaxContextDepth), pre.PreCondition())
	if err != nil {
		return nil, err
	}
	if err := pre.Finalize(post); err != nil {
		return nil, err
	}
	if err := s.Manager.PutSummary(callee, pre); err != nil {
		return nil, err
	}
	s.record(key, pre, post)
	return pre.Apply(call, call, f.pre)
}

// shouldAnalyze returns true if the body of fn is analyzed when fn is called
func (s *AnalyzerState) shouldAnalyze(fn *ssa.Function) bool {
	if lang.IsExternal(fn) || s.Ignored[fn] {
		return false
	}
	pkg := ""
	if fn.Pkg != nil {
		pkg = fn.Pkg.Pkg.Path()
	}
	return s.Config.MatchPkgFilter(pkg)
}
