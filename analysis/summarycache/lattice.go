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

// A Lattice is an element of an abstract domain D. Implementations must be values (or treat their receiver as
// immutable): Join returns a new element and never modifies its receiver or its argument.
type Lattice[D any] interface {
	// Join returns the least upper bound of the receiver and other
	Join(other D) D

	// Leq returns true if the receiver is smaller than or equal to other in the lattice order
	Leq(other D) bool

	// Equal returns true if the receiver and other represent the same abstract element
	Equal(other D) bool

	String() string
}

// AbstractState is a point in the abstract domain D representing the knowledge about the program at some location.
// An AbstractState is immutable; Join returns a fresh state.
type AbstractState[D Lattice[D]] struct {
	value D
}

// NewAbstractState returns the abstract state holding value
func NewAbstractState[D Lattice[D]](value D) AbstractState[D] {
	return AbstractState[D]{value: value}
}

// Value returns the domain element of the state
func (s AbstractState[D]) Value() D {
	return s.value
}

// Join returns the state holding the join of s and other. Neither s nor other is modified.
func (s AbstractState[D]) Join(other AbstractState[D]) AbstractState[D] {
	return AbstractState[D]{value: s.value.Join(other.value)}
}

// Equal returns true when both states hold equal domain elements
func (s AbstractState[D]) Equal(other AbstractState[D]) bool {
	return s.value.Equal(other.value)
}

func (s AbstractState[D]) String() string {
	return s.value.String()
}
