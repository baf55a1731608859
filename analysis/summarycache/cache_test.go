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
	"testing"
)

func TestCache_containsAfterPut(t *testing.T) {
	for _, policy := range []Policy{PolicyAntichain, PolicyAppend} {
		t.Run(policy.String(), func(t *testing.T) {
			c := NewCache[string, bits](policy)
			s := complete(0b11, 0b1)
			if err := c.Put("foo", s); err != nil {
				t.Fatalf("Put() failed: %v", err)
			}
			if !c.Contains("foo", s) {
				t.Errorf("cache should contain a summary that has been put")
			}
			if c.Contains("bar", s) {
				t.Errorf("summaries are per method")
			}
			if c.Len("foo") != 1 || c.Len("bar") != 0 {
				t.Errorf("Len() = %d, %d; want 1, 0", c.Len("foo"), c.Len("bar"))
			}
		})
	}
}

func TestCache_counters(t *testing.T) {
	c := NewCache[string, bits](PolicyAppend)
	if err := c.Put("foo", complete(0b011, 0)); err != nil {
		t.Fatal(err)
	}
	queries := []struct {
		method string
		pre    bits
		hit    bool
	}{
		{"foo", 0b001, true},
		{"foo", 0b100, false},
		{"bar", 0b001, false},
		{"foo", 0b011, true},
		{"foo", 0b111, false},
	}
	for i, q := range queries {
		calls, hits := c.Calls(), c.Hits()
		got := c.Contains(q.method, precondition(q.pre))
		if got != q.hit {
			t.Errorf("query %d: Contains() = %v, want %v", i, got, q.hit)
		}
		if c.Calls() != calls+1 {
			t.Errorf("query %d: Calls() should increase by exactly one", i)
		}
		wantHits := hits
		if q.hit {
			wantHits++
		}
		if c.Hits() != wantHits {
			t.Errorf("query %d: Hits() = %d, want %d", i, c.Hits(), wantHits)
		}
		if c.Hits() > c.Calls() {
			t.Errorf("query %d: more hits than calls", i)
		}
	}
	stats := c.Stats()
	if stats.Calls != 5 || stats.Hits != 2 || stats.Misses() != 3 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestCache_getReturnsNilWithoutMatch(t *testing.T) {
	c := NewCache[string, bits](PolicyAppend)
	if c.Get("foo", precondition(0b1)) != nil {
		t.Errorf("a method without summaries should have no match")
	}
	if err := c.Put("foo", complete(0b10, 0)); err != nil {
		t.Fatal(err)
	}
	if c.Get("foo", precondition(0b1)) != nil {
		t.Errorf("Get() should return nil when no summary subsumes the query")
	}
	if c.Get("foo", precondition(0b10)) == nil {
		t.Errorf("Get() should return the subsuming summary")
	}
	if c.Calls() != 0 {
		t.Errorf("Get() should not count as a cache call")
	}
}

func TestCache_rejectsIncomplete(t *testing.T) {
	c := NewCache[string, bits](PolicyAntichain)
	if err := c.Put("foo", precondition(0b1)); !errors.Is(err, ErrIncompleteSummary) {
		t.Errorf("Put() of an incomplete summary should fail with ErrIncompleteSummary, got %v", err)
	}
	if err := c.Put("foo", nil); !errors.Is(err, ErrIncompleteSummary) {
		t.Errorf("Put(nil) should fail with ErrIncompleteSummary, got %v", err)
	}
	if c.Len("foo") != 0 || len(c.Methods()) != 0 {
		t.Errorf("rejected summaries should not be stored")
	}
}

func TestCache_getMostGeneral(t *testing.T) {
	tests := []struct {
		name     string
		stored   []bits
		query    bits
		wantPost int // index of the expected summary in stored
	}{
		{name: "single match", stored: []bits{0b01, 0b10}, query: 0b10, wantPost: 1},
		{name: "chain picks largest", stored: []bits{0b001, 0b011, 0b111}, query: 0b001, wantPost: 2},
		{name: "chain in reverse order", stored: []bits{0b111, 0b011, 0b001}, query: 0b001, wantPost: 0},
		{name: "incomparable keeps first", stored: []bits{0b011, 0b101}, query: 0b001, wantPost: 0},
		{name: "incomparable then dominating", stored: []bits{0b011, 0b101, 0b111}, query: 0b001, wantPost: 2},
		{name: "equivalent keeps last", stored: []bits{0b011, 0b011}, query: 0b001, wantPost: 1},
		{name: "equivalent after incomparable", stored: []bits{0b011, 0b101, 0b011}, query: 0b001, wantPost: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache[string, bits](PolicyAppend)
			for i, pre := range tt.stored {
				// the postcondition identifies the summary
				if err := c.Put("foo", complete(pre, bits(i))); err != nil {
					t.Fatal(err)
				}
			}
			got := c.Get("foo", precondition(tt.query))
			if got == nil {
				t.Fatalf("Get() returned nil")
			}
			if post, _ := got.PostCondition(); int(post) != tt.wantPost {
				t.Errorf("Get() returned summary %d (%v), want %d", int(post), got, tt.wantPost)
			}
			// determinism
			again := c.Get("foo", precondition(tt.query))
			if again != got {
				t.Errorf("Get() should be deterministic")
			}
		})
	}
}

func TestCache_antichain(t *testing.T) {
	c := NewCache[string, bits](PolicyAntichain)
	mustPut := func(s Summary[bits]) {
		if err := c.Put("foo", s); err != nil {
			t.Fatal(err)
		}
	}
	mustPut(complete(0b001, 0))
	mustPut(complete(0b010, 0))
	if c.Len("foo") != 2 {
		t.Fatalf("incomparable summaries should both be stored, Len() = %d", c.Len("foo"))
	}
	mustPut(complete(0b001, 0))
	if c.Len("foo") != 2 || c.Stats().Discarded != 1 {
		t.Errorf("subsumed summary should be discarded, stats %+v", c.Stats())
	}
	general := complete(0b011, 0)
	mustPut(general)
	if c.Len("foo") != 1 || c.Summaries("foo")[0] != general || c.Stats().Evicted != 2 {
		t.Errorf("summaries subsumed by a new summary should be evicted, stats %+v", c.Stats())
	}
	for _, a := range c.Summaries("foo") {
		for _, b := range c.Summaries("foo") {
			if a != b && a.Subsumes(b) {
				t.Errorf("stored summaries should be pairwise incomparable")
			}
		}
	}
}

func TestCache_appendGrows(t *testing.T) {
	c := NewCache[string, bits](PolicyAppend)
	for i := 0; i < 4; i++ {
		if err := c.Put("foo", complete(0b1, 0)); err != nil {
			t.Fatal(err)
		}
	}
	if c.Len("foo") != 4 {
		t.Errorf("append policy should keep every summary, Len() = %d", c.Len("foo"))
	}
	if len(c.Methods()) != 1 {
		t.Errorf("Methods() = %v", c.Methods())
	}
}

func TestCache_finalizedPreconditionSummary(t *testing.T) {
	c := NewCache[string, bits](PolicyAppend)
	s := NewBasicSummary[bits](site(1), 0b11, nil)
	if err := s.Finalize(0); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("foo", s); err != nil {
		t.Fatal(err)
	}
	if !c.Contains("foo", precondition(0b1)) {
		t.Errorf("finalized summaries should be found")
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": PolicyAntichain, "antichain": PolicyAntichain, "APPEND": PolicyAppend} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParsePolicy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParsePolicy("lru"); err == nil {
		t.Errorf("ParsePolicy() should reject unknown policies")
	}
}
