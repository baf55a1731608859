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
	"fmt"
	"go/token"
)

// bits is a powerset lattice over small integers, ordered by inclusion
type bits uint

func (b bits) Join(other bits) bits  { return b | other }
func (b bits) Leq(other bits) bool   { return b&^other == 0 }
func (b bits) Equal(other bits) bool { return b == other }
func (b bits) String() string        { return fmt.Sprintf("{%b}", uint(b)) }

type testSite struct {
	pos  token.Pos
	name string
}

func (s testSite) Pos() token.Pos { return s.pos }
func (s testSite) String() string { return s.name }

func site(i int) testSite {
	return testSite{pos: token.Pos(i), name: fmt.Sprintf("call%d", i)}
}

func complete(pre bits, post bits) Summary[bits] {
	return NewCompleteSummary[bits](site(0), pre, post, nil)
}

func precondition(pre bits) Summary[bits] {
	return NewBasicSummary[bits](site(0), pre, nil)
}
