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
	"fmt"
	"go/types"

	"github.com/awslabs/ar-go-summaries/analysis/lang"
	"github.com/awslabs/ar-go-summaries/analysis/lattice"
	"github.com/awslabs/ar-go-summaries/analysis/summarycache"
	"golang.org/x/tools/go/ssa"
)

type blockEdge struct {
	from *ssa.BasicBlock
	to   *ssa.BasicBlock
}

// A frame is the state of the analysis of one function body in one calling context.
// The kinds of values only increase during the analysis, and a block is visited again only when one of the values it
// uses or one of its incoming edges changes, which ensures the fixpoint is reached.
type frame struct {
	state *AnalyzerState
	fn    *ssa.Function
	cs    summarycache.CallString
	pre   lattice.Tuple

	params    map[*ssa.Parameter]int
	env       map[ssa.Value]lattice.Kind
	tuples    map[ssa.Value]lattice.Tuple
	edges     map[blockEdge]bool
	reachable map[*ssa.BasicBlock]bool
	post      lattice.Tuple

	worklist []*ssa.BasicBlock
	queued   map[*ssa.BasicBlock]bool
	current  *ssa.BasicBlock
}

func newFrame(s *AnalyzerState, fn *ssa.Function, cs summarycache.CallString, pre lattice.Tuple) *frame {
	params := make(map[*ssa.Parameter]int, len(fn.Params))
	for i, p := range fn.Params {
		params[p] = i
	}
	return &frame{
		state:     s,
		fn:        fn,
		cs:        cs,
		pre:       pre,
		params:    params,
		env:       map[ssa.Value]lattice.Kind{},
		tuples:    map[ssa.Value]lattice.Tuple{},
		edges:     map[blockEdge]bool{},
		reachable: map[*ssa.BasicBlock]bool{},
		post:      lattice.Fill(lang.ResultsLen(fn), lattice.Bottom),
		queued:    map[*ssa.BasicBlock]bool{},
	}
}

// kindOf returns the kind of v in the current state. Values that have not been computed yet are bottom.
func (f *frame) kindOf(v ssa.Value) lattice.Kind {
	switch v := v.(type) {
	case *ssa.Const:
		return lattice.OfConstant(v.Value)
	case *ssa.Parameter:
		if i, ok := f.params[v]; ok && i < len(f.pre) {
			return f.pre[i]
		}
		return lattice.Top
	case *ssa.Function, *ssa.Global:
		return lattice.NonZero
	case *ssa.FreeVar, *ssa.Builtin:
		return lattice.Top
	}
	return f.env[v]
}

// run computes the fixpoint of the function body and returns the kinds of its results.
func (f *frame) run(ctx context.Context) (lattice.Tuple, error) {
	if len(f.fn.Blocks) == 0 {
		return lattice.Fill(len(f.post), lattice.Top), nil
	}
	f.markReachable(f.fn.Blocks[0])
	if f.fn.Recover != nil {
		f.markReachable(f.fn.Recover)
	}
	maxVisits := f.state.Config.MaxIterations * len(f.fn.Blocks)
	visits := 0
	for len(f.worklist) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		visits++
		if visits > maxVisits {
			return nil, fmt.Errorf("%s after %d block visits: %w", f.fn, maxVisits, ErrNoConvergence)
		}
		b := f.worklist[0]
		f.worklist = f.worklist[1:]
		f.queued[b] = false
		f.state.stats.BlockVisits++
		if err := f.visit(ctx, b); err != nil {
			return nil, err
		}
	}
	return f.post, nil
}

func (f *frame) visit(ctx context.Context, b *ssa.BasicBlock) error {
	f.current = b
	defer func() { f.current = nil }()
	for _, instr := range b.Instrs {
		switch instr := instr.(type) {
		case *ssa.If:
			switch f.kindOf(instr.Cond) {
			case lattice.Bottom:
			case lattice.Zero:
				f.addEdge(b, b.Succs[1])
			case lattice.NonZero:
				f.addEdge(b, b.Succs[0])
			default:
				f.addEdge(b, b.Succs[0])
				f.addEdge(b, b.Succs[1])
			}
		case *ssa.Jump:
			f.addEdge(b, b.Succs[0])
		case *ssa.Return:
			for i, r := range instr.Results {
				if i < len(f.post) {
					f.post[i] = f.post[i].Join(f.kindOf(r))
				}
			}
		case *ssa.Call:
			res, err := f.state.resolveCall(ctx, f, instr)
			if err != nil {
				return err
			}
			if _, isTuple := instr.Type().(*types.Tuple); isTuple {
				f.setTuple(instr, res)
			} else if len(res) == 1 {
				f.set(instr, res[0])
			}
		case *ssa.Go, *ssa.Defer:
			// the results of deferred and asynchronous calls are discarded
		case ssa.Value:
			f.set(instr, f.transfer(instr))
		}
	}
	return nil
}

func (f *frame) markReachable(b *ssa.BasicBlock) {
	f.reachable[b] = true
	f.enqueue(b)
}

func (f *frame) addEdge(from, to *ssa.BasicBlock) {
	e := blockEdge{from: from, to: to}
	if f.edges[e] {
		return
	}
	f.edges[e] = true
	f.markReachable(to)
}

func (f *frame) enqueue(b *ssa.BasicBlock) {
	if f.queued[b] {
		return
	}
	f.queued[b] = true
	f.worklist = append(f.worklist, b)
}

func (f *frame) set(v ssa.Value, k lattice.Kind) {
	old, ok := f.env[v]
	k = old.Join(k)
	if ok && k == old {
		return
	}
	f.env[v] = k
	f.notifyReferrers(v)
}

func (f *frame) setTuple(v ssa.Value, t lattice.Tuple) {
	old, ok := f.tuples[v]
	if ok {
		t = old.Join(t)
		if t.Equal(old) {
			return
		}
	}
	f.tuples[v] = t
	f.notifyReferrers(v)
}

func (f *frame) notifyReferrers(v ssa.Value) {
	refs := v.Referrers()
	if refs == nil {
		return
	}
	for _, r := range *refs {
		if _, isPhi := r.(*ssa.Phi); !isPhi && r.Block() == f.current {
			// later in the block being visited
			continue
		}
		if b := r.Block(); b != nil && f.reachable[b] {
			f.enqueue(b)
		}
	}
}
