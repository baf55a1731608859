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

import "testing"

func TestContextKey_valueEquality(t *testing.T) {
	cs := CallString{}.Push(site(1), 3).Push(site(2), 3)
	k1 := NewContextKey("foo", cs)
	k2 := ContextKey[string]{Method: "foo", CallStringHash: cs.Hash(), Depth: 2}
	if k1 != k2 {
		t.Errorf("keys %v and %v should be equal", k1, k2)
	}
	m := map[ContextKey[string]]int{k1: 1}
	if m[k2] != 1 {
		t.Errorf("equal keys should index the same map entry")
	}
	if NewContextKey("bar", cs) == k1 {
		t.Errorf("keys of different methods should differ")
	}
}

func TestCallString_hash(t *testing.T) {
	a := CallString{}.Push(site(1), 0).Push(site(2), 0)
	b := CallString{}.Push(site(1), 0).Push(site(2), 0)
	c := CallString{}.Push(site(2), 0).Push(site(1), 0)
	if a.Hash() != b.Hash() {
		t.Errorf("equal call strings should have equal hashes")
	}
	if a.Hash() == c.Hash() {
		t.Errorf("call strings in different orders should not collide: %s %s", a, c)
	}
	if (CallString{}).Hash() != 0 {
		t.Errorf("empty call string should hash to 0")
	}
}

func TestCallString_Push(t *testing.T) {
	tests := []struct {
		name      string
		k         int
		pushes    int
		wantSites int
		wantDepth int
	}{
		{name: "no limit", k: 0, pushes: 5, wantSites: 5, wantDepth: 5},
		{name: "under limit", k: 3, pushes: 2, wantSites: 2, wantDepth: 2},
		{name: "truncated", k: 2, pushes: 5, wantSites: 2, wantDepth: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := CallString{}
			for i := 0; i < tt.pushes; i++ {
				cs = cs.Push(site(i), tt.k)
			}
			if len(cs.Sites()) != tt.wantSites {
				t.Errorf("Sites() has length %d, want %d", len(cs.Sites()), tt.wantSites)
			}
			if cs.Depth() != tt.wantDepth {
				t.Errorf("Depth() = %d, want %d", cs.Depth(), tt.wantDepth)
			}
			if tt.wantSites > 0 && cs.Sites()[tt.wantSites-1].Pos() != site(tt.pushes-1).Pos() {
				t.Errorf("last site should be the most recent call")
			}
		})
	}
}

func TestCallString_truncatedContextsMerge(t *testing.T) {
	// with k = 1, two call strings ending with the same call site share a hash but not a depth
	a := CallString{}.Push(site(1), 1).Push(site(3), 1)
	b := CallString{}.Push(site(2), 1).Push(site(3), 1)
	if a.Hash() != b.Hash() {
		t.Errorf("1-limited call strings ending at the same site should have the same hash")
	}
	c := b.Push(site(3), 1)
	if NewContextKey(0, a) == NewContextKey(0, c) {
		t.Errorf("keys at different depths should differ")
	}
}

func TestPush_doesNotAlias(t *testing.T) {
	base := CallString{}.Push(site(1), 0)
	x := base.Push(site(2), 0)
	y := base.Push(site(3), 0)
	if x.Sites()[1].Pos() != 2 || y.Sites()[1].Pos() != 3 {
		t.Errorf("pushes on the same call string should not share storage: %s %s", x, y)
	}
}
