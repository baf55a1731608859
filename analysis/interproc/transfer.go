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
	"go/token"
	"go/types"

	"github.com/awslabs/ar-go-summaries/analysis/lattice"
	"golang.org/x/tools/go/ssa"
)

// transfer returns the kind of the value v in the current state of the frame. Call values are handled by the
// frame, since they require resolving the call.
func (f *frame) transfer(v ssa.Value) lattice.Kind {
	switch v := v.(type) {
	case *ssa.BinOp:
		return binOp(v.Op, isInteger(v.X.Type()), f.kindOf(v.X), f.kindOf(v.Y))
	case *ssa.UnOp:
		x := f.kindOf(v.X)
		switch v.Op {
		case token.NOT:
			return not(x)
		case token.SUB:
			return x
		default:
			// dereferences and channel receives
			return lattice.Top
		}
	case *ssa.Phi:
		k := lattice.Bottom
		for i, edge := range v.Edges {
			if f.edges[blockEdge{from: v.Block().Preds[i], to: v.Block()}] {
				k = k.Join(f.kindOf(edge))
			}
		}
		return k
	case *ssa.Convert:
		if isString(v.Type()) && isInteger(v.X.Type()) {
			// string(rune(0)) is not empty
			return lattice.Top
		}
		// []byte("") is not nil
		if isNumeric(v.X.Type()) && isNumeric(v.Type()) && f.kindOf(v.X) == lattice.Zero {
			return lattice.Zero
		}
		return lattice.Top
	case *ssa.ChangeType:
		return f.kindOf(v.X)
	case *ssa.ChangeInterface:
		return f.kindOf(v.X)
	case *ssa.MakeInterface:
		// an interface holding a value is never nil
		return lattice.NonZero
	case *ssa.Alloc, *ssa.MakeClosure, *ssa.MakeChan, *ssa.MakeMap, *ssa.MakeSlice:
		return lattice.NonZero
	case *ssa.Extract:
		t, ok := f.tuples[v.Tuple]
		if !ok || v.Index >= len(t) {
			return lattice.Top
		}
		return t[v.Index]
	default:
		return lattice.Top
	}
}

// binOp returns the kind of x op y. integer is true when the operands are integers: for floats, 0*Inf and 0/0 are
// NaN.
func binOp(op token.Token, integer bool, x, y lattice.Kind) lattice.Kind {
	if x == lattice.Bottom || y == lattice.Bottom {
		return lattice.Bottom
	}
	switch op {
	case token.ADD, token.XOR:
		if x == lattice.Zero {
			return y
		}
		if y == lattice.Zero {
			return x
		}
		return lattice.Top
	case token.SUB:
		if y == lattice.Zero {
			return x
		}
		if x == lattice.Zero {
			// negation preserves the kind
			return y
		}
		return lattice.Top
	case token.MUL, token.AND:
		// products of non-zero values may overflow to zero
		if integer && (x == lattice.Zero || y == lattice.Zero) {
			return lattice.Zero
		}
		return lattice.Top
	case token.QUO, token.REM, token.SHL, token.SHR, token.AND_NOT:
		if integer && x == lattice.Zero {
			return lattice.Zero
		}
		return lattice.Top
	case token.OR:
		if x == lattice.NonZero || y == lattice.NonZero {
			return lattice.NonZero
		}
		if x == lattice.Zero && y == lattice.Zero {
			return lattice.Zero
		}
		return lattice.Top
	case token.EQL:
		return compare(x, y, true)
	case token.NEQ:
		return compare(x, y, false)
	default:
		// orderings
		return lattice.Top
	}
}

// compare returns the kind of the boolean x == y (or x != y if eq is false). Booleans are zero when false.
func compare(x, y lattice.Kind, eq bool) lattice.Kind {
	var equal bool
	switch {
	case x == lattice.Zero && y == lattice.Zero:
		equal = true
	case x == lattice.Zero && y == lattice.NonZero, x == lattice.NonZero && y == lattice.Zero:
		equal = false
	default:
		return lattice.Top
	}
	if equal == eq {
		return lattice.NonZero
	}
	return lattice.Zero
}

func not(k lattice.Kind) lattice.Kind {
	switch k {
	case lattice.Zero:
		return lattice.NonZero
	case lattice.NonZero:
		return lattice.Zero
	default:
		return k
	}
}

func isString(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Info()&types.IsString != 0
}

func isInteger(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Info()&types.IsInteger != 0
}

func isNumeric(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Info()&types.IsNumeric != 0
}
