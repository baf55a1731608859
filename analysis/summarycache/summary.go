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

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFinalized is returned when the postcondition of a summary is requested before the summary is finalized
	ErrNotFinalized = errors.New("summary has not been finalized")

	// ErrAlreadyFinalized is returned when a summary is finalized twice
	ErrAlreadyFinalized = errors.New("summary has already been finalized")

	// ErrIncompleteSummary is returned when a summary that only has a precondition is stored in a cache
	ErrIncompleteSummary = errors.New("only complete summaries can be cached")
)

// A Summary is a (precondition, postcondition) pair describing the abstract effect of a callee for the call site
// it has been built for. A summary starts with a precondition only and becomes complete once Finalize records the
// postcondition of the callee. Only complete summaries can be reused by the cache.
type Summary[D Lattice[D]] interface {
	// Invoke returns the call site the summary has been built for
	Invoke() CallSite

	// PreCondition returns the abstract context assumed to hold before the callee executes
	PreCondition() D

	// PostCondition returns the abstract state after the callee executes, or ErrNotFinalized if the summary is not
	// complete
	PostCondition() (D, error)

	// IsComplete returns true once the summary has been finalized
	IsComplete() bool

	// Subsumes returns true if the summary is at least as general as other, i.e. reusing the postcondition of the
	// receiver is sound at any call site whose precondition is other's.
	Subsumes(other Summary[D]) bool

	// Finalize records calleePost as the postcondition of the summary. It returns ErrAlreadyFinalized if the
	// summary is already complete.
	Finalize(calleePost D) error

	// Apply projects the postcondition back into the caller's state at site. Apply does not modify the summary.
	Apply(site CallSite, node any, callerPre D) (D, error)
}

// An ApplyFunc computes the caller state after a call at site, given the caller state before the call and the
// postcondition of the callee.
type ApplyFunc[D Lattice[D]] func(site CallSite, node any, callerPre D, post D) (D, error)

// BasicSummary is the default implementation of Summary. A BasicSummary subsumes another summary when the
// precondition of the other summary is smaller than its own precondition.
type BasicSummary[D Lattice[D]] struct {
	invoke   CallSite
	pre      D
	post     D
	complete bool
	apply    ApplyFunc[D]
}

// NewBasicSummary returns a summary with only a precondition. If apply is nil, applying the summary returns the
// postcondition unchanged.
func NewBasicSummary[D Lattice[D]](invoke CallSite, pre D, apply ApplyFunc[D]) *BasicSummary[D] {
	return &BasicSummary[D]{
		invoke: invoke,
		pre:    pre,
		apply:  apply,
	}
}

// NewCompleteSummary returns a summary with both a precondition and a postcondition.
func NewCompleteSummary[D Lattice[D]](invoke CallSite, pre D, post D, apply ApplyFunc[D]) *BasicSummary[D] {
	s := NewBasicSummary(invoke, pre, apply)
	s.post = post
	s.complete = true
	return s
}

// Invoke returns the call site of the summary
func (s *BasicSummary[D]) Invoke() CallSite {
	return s.invoke
}

// PreCondition returns the precondition of the summary
func (s *BasicSummary[D]) PreCondition() D {
	return s.pre
}

// PostCondition returns the postcondition, or ErrNotFinalized
func (s *BasicSummary[D]) PostCondition() (D, error) {
	if !s.complete {
		var zero D
		return zero, ErrNotFinalized
	}
	return s.post, nil
}

// IsComplete returns true if the summary has a postcondition
func (s *BasicSummary[D]) IsComplete() bool {
	return s.complete
}

// Subsumes returns true when the precondition of other is smaller than or equal to the precondition of s
func (s *BasicSummary[D]) Subsumes(other Summary[D]) bool {
	if other == nil {
		return false
	}
	return other.PreCondition().Leq(s.pre)
}

// Finalize sets the postcondition of the summary. It must be called at most once.
func (s *BasicSummary[D]) Finalize(calleePost D) error {
	if s.complete {
		return fmt.Errorf("finalizing summary at %s: %w", siteString(s.invoke), ErrAlreadyFinalized)
	}
	s.post = calleePost
	s.complete = true
	return nil
}

// Apply returns the caller's state after the call at site
func (s *BasicSummary[D]) Apply(site CallSite, node any, callerPre D) (D, error) {
	if !s.complete {
		var zero D
		return zero, fmt.Errorf("applying summary at %s: %w", siteString(site), ErrNotFinalized)
	}
	if s.apply == nil {
		return s.post, nil
	}
	return s.apply(site, node, callerPre, s.post)
}

func (s *BasicSummary[D]) String() string {
	if !s.complete {
		return fmt.Sprintf("{pre: %s, post: ?}", s.pre)
	}
	return fmt.Sprintf("{pre: %s, post: %s}", s.pre, s.post)
}

func siteString(site CallSite) string {
	if site == nil {
		return "<root>"
	}
	return site.String()
}
