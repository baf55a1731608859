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

package lattice

import (
	"go/constant"
	"go/token"
	"testing"
)

var allKinds = []Kind{Bottom, Zero, NonZero, Top}

func TestKind_laws(t *testing.T) {
	for _, a := range allKinds {
		if a.Join(a) != a || a.Meet(a) != a {
			t.Errorf("%v: join and meet should be idempotent", a)
		}
		if !Bottom.Leq(a) || !a.Leq(Top) {
			t.Errorf("%v should be between bottom and top", a)
		}
		for _, b := range allKinds {
			if a.Join(b) != b.Join(a) {
				t.Errorf("join of %v and %v should commute", a, b)
			}
			if !a.Leq(a.Join(b)) || !b.Leq(a.Join(b)) {
				t.Errorf("join of %v and %v should be an upper bound", a, b)
			}
			if !a.Meet(b).Leq(a) || !a.Meet(b).Leq(b) {
				t.Errorf("meet of %v and %v should be a lower bound", a, b)
			}
		}
	}
	if Zero.Leq(NonZero) || NonZero.Leq(Zero) {
		t.Errorf("Zero and NonZero should be incomparable")
	}
	if Zero.Join(NonZero) != Top || Zero.Meet(NonZero) != Bottom {
		t.Errorf("Zero and NonZero should join to Top and meet to Bottom")
	}
}

func TestOfConstant(t *testing.T) {
	tests := []struct {
		name string
		v    constant.Value
		want Kind
	}{
		{"nil", nil, Zero},
		{"zero int", constant.MakeInt64(0), Zero},
		{"negative int", constant.MakeInt64(-3), NonZero},
		{"false", constant.MakeBool(false), Zero},
		{"true", constant.MakeBool(true), NonZero},
		{"empty string", constant.MakeString(""), Zero},
		{"string", constant.MakeString("a"), NonZero},
		{"float", constant.MakeFloat64(0.5), NonZero},
		{"complex", constant.BinaryOp(constant.MakeInt64(0), token.ADD, constant.MakeImag(constant.MakeInt64(1))), NonZero},
		{"unknown", constant.MakeUnknown(), Top},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OfConstant(tt.v); got != tt.want {
				t.Errorf("OfConstant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTuple(t *testing.T) {
	a := Tuple{Zero, NonZero}
	b := Tuple{Zero, Zero}
	j := a.Join(b)
	if !j.Equal(Tuple{Zero, Top}) {
		t.Errorf("Join() = %v", j)
	}
	if a[1] != NonZero || b[1] != Zero {
		t.Errorf("Join() should not modify its operands")
	}
	if !a.Leq(j) || !b.Leq(j) || j.Leq(a) {
		t.Errorf("pointwise order is wrong")
	}
	if a.Leq(Tuple{Top}) || a.Equal(Tuple{Zero}) {
		t.Errorf("tuples of different lengths should be incomparable")
	}
	if got := a.Join(Tuple{Zero}); !got.Equal(Tuple{Zero, Top}) {
		t.Errorf("Join() of different lengths = %v", got)
	}
	if !(Tuple{Zero, Bottom}).IsBottom() || a.IsBottom() {
		t.Errorf("IsBottom() is wrong")
	}
	if !Fill(3, Top).Equal(Tuple{Top, Top, Top}) {
		t.Errorf("Fill() = %v", Fill(3, Top))
	}
	c := a.Copy()
	c[0] = Top
	if a[0] != Zero {
		t.Errorf("Copy() should not share storage")
	}
	if a.String() != "(0, !0)" {
		t.Errorf("String() = %q", a.String())
	}
}
