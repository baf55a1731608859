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

func TestMethodSummary_getOrCreate(t *testing.T) {
	ms := NewMethodSummary[string, bits]("foo")
	k1 := NewContextKey("foo", CallString{}.Push(site(1), 2))
	k2 := NewContextKey("foo", CallString{}.Push(site(2), 2))
	p1 := precondition(0b1)
	cs := ms.GetOrCreate(k1, p1)
	if cs.Summary() != p1 || cs.Key != k1 {
		t.Errorf("new context summary should be bound to the precondition summary")
	}
	if again := ms.GetOrCreate(k1, precondition(0b10)); again != cs {
		t.Errorf("GetOrCreate() should return the existing context summary")
	}
	ms.GetOrCreate(k2, precondition(0b10))
	if ms.Get(k2) == nil || len(ms.Contexts()) != 2 || ms.Contexts()[0] != cs {
		t.Errorf("contexts should be returned in order of creation")
	}
	done := complete(0b1, 0b100)
	cs.SetSummary(done)
	if ms.Get(k1).Summary() != done {
		t.Errorf("SetSummary() should replace the summary of the context")
	}
}

func TestMethodSummary_joinWithContextState(t *testing.T) {
	ms := NewMethodSummary[string, bits]("foo")
	if _, ok := ms.StateAcrossAllContexts(); ok {
		t.Fatalf("a new method summary has no aggregate state")
	}
	x := NewAbstractState[bits](0b0011)
	y := NewAbstractState[bits](0b0110)
	ms.JoinWithContextState(x)
	if got, _ := ms.StateAcrossAllContexts(); !got.Equal(x) {
		t.Errorf("first state should be adopted, got %v", got)
	}
	ms.JoinWithContextState(y)
	want := x.Join(y)
	got, ok := ms.StateAcrossAllContexts()
	if !ok || !got.Equal(want) {
		t.Errorf("aggregate = %v, want %v", got, want)
	}
	ms.JoinWithContextState(x)
	if again, _ := ms.StateAcrossAllContexts(); !again.Equal(want) {
		t.Errorf("joining an already joined state should leave the aggregate unchanged, got %v", again)
	}
	if x.Value() != 0b0011 || y.Value() != 0b0110 {
		t.Errorf("joined states should not be modified")
	}
}

func TestRepository(t *testing.T) {
	r := NewRepository[string, bits]()
	if r.Get("foo") != nil {
		t.Errorf("Get() should return nil before creation")
	}
	ms := r.GetOrCreate("foo")
	if ms == nil || ms.Method != "foo" {
		t.Fatalf("GetOrCreate() should create the method summary")
	}
	if r.GetOrCreate("foo") != ms || r.Get("foo") != ms {
		t.Errorf("method summaries should be created once")
	}
	r.GetOrCreate("bar")
	if r.Len() != 2 || r.Methods()[0] != "foo" || r.Methods()[1] != "bar" {
		t.Errorf("Methods() = %v", r.Methods())
	}
}
