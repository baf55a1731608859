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

// Package lattice implements the zero-ness abstract domain used by the inter-procedural analysis.
//
// A Kind abstracts a single value: Bottom (no value, unreachable), Zero, NonZero, or Top (any value, including values
// that are not numbers). A Tuple is the pointwise product of kinds, used to abstract the arguments and the results
// of a function.
package lattice

import (
	"go/constant"
	"strings"
)

// Kind is an element of the zero-ness lattice Bottom < Zero, NonZero < Top
type Kind int

const (
	// Bottom is the kind of unreachable values
	Bottom Kind = iota
	// Zero is the kind of values that are always zero (0, false, "", nil)
	Zero
	// NonZero is the kind of values that are never zero
	NonZero
	// Top is the kind of values that may be anything
	Top
)

func (k Kind) String() string {
	switch k {
	case Bottom:
		return "⊥"
	case Zero:
		return "0"
	case NonZero:
		return "!0"
	case Top:
		return "⊤"
	default:
		return "?"
	}
}

// Join returns the least upper bound of k and other
func (k Kind) Join(other Kind) Kind {
	switch {
	case k == Bottom:
		return other
	case other == Bottom:
		return k
	case k == other:
		return k
	default:
		return Top
	}
}

// Meet returns the greatest lower bound of k and other
func (k Kind) Meet(other Kind) Kind {
	switch {
	case k == Top:
		return other
	case other == Top:
		return k
	case k == other:
		return k
	default:
		return Bottom
	}
}

// Leq returns true if k is smaller than or equal to other
func (k Kind) Leq(other Kind) bool {
	return k.Join(other) == other
}

// Equal returns true if k and other are the same kind
func (k Kind) Equal(other Kind) bool {
	return k == other
}

// OfConstant returns the kind of a constant value. A nil constant is the zero value of its type.
func OfConstant(v constant.Value) Kind {
	if v == nil {
		return Zero
	}
	switch v.Kind() {
	case constant.Bool:
		if constant.BoolVal(v) {
			return NonZero
		}
		return Zero
	case constant.String:
		if constant.StringVal(v) == "" {
			return Zero
		}
		return NonZero
	case constant.Int, constant.Float:
		if constant.Sign(v) == 0 {
			return Zero
		}
		return NonZero
	case constant.Complex:
		if constant.Sign(constant.Real(v)) == 0 && constant.Sign(constant.Imag(v)) == 0 {
			return Zero
		}
		return NonZero
	default:
		return Top
	}
}

// Tuple is a fixed-length product of kinds, compared pointwise. Tuples of different lengths are incomparable.
// The methods of Tuple never modify their receiver or arguments.
type Tuple []Kind

// Fill returns a tuple of length n with all elements set to k
func Fill(n int, k Kind) Tuple {
	t := make(Tuple, n)
	for i := range t {
		t[i] = k
	}
	return t
}

// Join returns the pointwise join of t and other. If the lengths differ, the result has the length of the longest
// tuple and elements missing in the other are Top.
func (t Tuple) Join(other Tuple) Tuple {
	n := len(t)
	if len(other) > n {
		n = len(other)
	}
	res := make(Tuple, n)
	for i := range res {
		switch {
		case i < len(t) && i < len(other):
			res[i] = t[i].Join(other[i])
		default:
			res[i] = Top
		}
	}
	return res
}

// Leq returns true if t and other have the same length and every element of t is smaller than the element of other
func (t Tuple) Leq(other Tuple) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if !t[i].Leq(other[i]) {
			return false
		}
	}
	return true
}

// Equal returns true if t and other have the same elements
func (t Tuple) Equal(other Tuple) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}
	return true
}

// IsBottom returns true if some element of the tuple is Bottom, meaning that the tuple describes no execution
func (t Tuple) IsBottom() bool {
	for _, k := range t {
		if k == Bottom {
			return true
		}
	}
	return false
}

// Copy returns a copy of t that can be modified safely
func (t Tuple) Copy() Tuple {
	res := make(Tuple, len(t))
	copy(res, t)
	return res
}

func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, k := range t {
		parts[i] = k.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
