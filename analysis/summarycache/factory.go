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

package summarycache

// A Factory builds summaries for call sites. It unifies the two construction paths of the analysis: from the raw
// argument values at a call site, and from an abstract state of the engine.
//
// Implementations may drop the parts of the caller state that are irrelevant to the callee to keep preconditions
// small, which maximizes future cache hits. They must accept bottom and top caller states.
type Factory[D Lattice[D]] interface {
	// FromArguments returns a summary with only a precondition, built from the caller state and the abstract
	// values of the arguments at site.
	FromArguments(site CallSite, callerPre D, args []D) Summary[D]

	// FromState returns a summary with only a precondition, built from an abstract state of the engine.
	FromState(site CallSite, state AbstractState[D]) Summary[D]

	// CompleteFromState returns a new complete summary with the call site and precondition of pre, and a
	// postcondition derived from state. pre is not modified.
	CompleteFromState(pre Summary[D], state AbstractState[D]) Summary[D]
}

// FuncFactory is a Factory defined by a projection function from the caller state and arguments to a precondition,
// and an ApplyFunc. The abstract states given to FromState and CompleteFromState are used as is.
type FuncFactory[D Lattice[D]] struct {
	// Project computes the precondition of a call. If nil, the caller state is used as precondition.
	Project func(site CallSite, callerPre D, args []D) D

	// Apply is used by all the summaries built by the factory
	Apply ApplyFunc[D]
}

// FromArguments implements Factory
func (f FuncFactory[D]) FromArguments(site CallSite, callerPre D, args []D) Summary[D] {
	pre := callerPre
	if f.Project != nil {
		pre = f.Project(site, callerPre, args)
	}
	return NewBasicSummary(site, pre, f.Apply)
}

// FromState implements Factory
func (f FuncFactory[D]) FromState(site CallSite, state AbstractState[D]) Summary[D] {
	return NewBasicSummary(site, state.Value(), f.Apply)
}

// CompleteFromState implements Factory
func (f FuncFactory[D]) CompleteFromState(pre Summary[D], state AbstractState[D]) Summary[D] {
	return NewCompleteSummary(pre.Invoke(), pre.PreCondition(), state.Value(), f.Apply)
}
