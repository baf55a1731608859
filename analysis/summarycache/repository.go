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

// A ContextSummary binds a calling context to the summary of the method in that context. The summary can be
// replaced, e.g. when the precondition summary of the context is completed.
type ContextSummary[M comparable, D Lattice[D]] struct {
	Key     ContextKey[M]
	summary Summary[D]
}

// Summary returns the summary currently bound to the context
func (c *ContextSummary[M, D]) Summary() Summary[D] {
	return c.summary
}

// SetSummary replaces the summary bound to the context
func (c *ContextSummary[M, D]) SetSummary(s Summary[D]) {
	c.summary = s
}

// A MethodSummary holds the context summaries of one method, and the join of the states observed across all the
// contexts of that method.
type MethodSummary[M comparable, D Lattice[D]] struct {
	Method   M
	contexts map[ContextKey[M]]*ContextSummary[M, D]
	// order records the keys in order of creation, for deterministic reports
	order     []ContextKey[M]
	aggregate *AbstractState[D]
}

// NewMethodSummary returns an empty method summary for method
func NewMethodSummary[M comparable, D Lattice[D]](method M) *MethodSummary[M, D] {
	return &MethodSummary[M, D]{
		Method:   method,
		contexts: map[ContextKey[M]]*ContextSummary[M, D]{},
	}
}

// GetOrCreate returns the context summary for key. If there is none, a new context summary bound to pre is created.
func (m *MethodSummary[M, D]) GetOrCreate(key ContextKey[M], pre Summary[D]) *ContextSummary[M, D] {
	if cs, ok := m.contexts[key]; ok {
		return cs
	}
	cs := &ContextSummary[M, D]{Key: key, summary: pre}
	m.contexts[key] = cs
	m.order = append(m.order, key)
	return cs
}

// Get returns the context summary for key, or nil
func (m *MethodSummary[M, D]) Get(key ContextKey[M]) *ContextSummary[M, D] {
	return m.contexts[key]
}

// Contexts returns all the context summaries of the method in order of creation
func (m *MethodSummary[M, D]) Contexts() []*ContextSummary[M, D] {
	res := make([]*ContextSummary[M, D], 0, len(m.order))
	for _, key := range m.order {
		res = append(res, m.contexts[key])
	}
	return res
}

// JoinWithContextState joins state into the state across all contexts. The first state joined becomes the
// aggregate; later joins replace the aggregate with a fresh joined state, so states passed by callers are never
// aliased and modified.
func (m *MethodSummary[M, D]) JoinWithContextState(state AbstractState[D]) {
	if m.aggregate == nil {
		m.aggregate = &state
		return
	}
	joined := m.aggregate.Join(state)
	m.aggregate = &joined
}

// StateAcrossAllContexts returns the join of all the states joined so far, and false if no state has been joined
func (m *MethodSummary[M, D]) StateAcrossAllContexts() (AbstractState[D], bool) {
	if m.aggregate == nil {
		return AbstractState[D]{}, false
	}
	return *m.aggregate, true
}

// A Repository maps methods to their method summary. Method summaries are created on first access.
type Repository[M comparable, D Lattice[D]] struct {
	methods map[M]*MethodSummary[M, D]
	order   []M
}

// NewRepository returns an empty repository
func NewRepository[M comparable, D Lattice[D]]() *Repository[M, D] {
	return &Repository[M, D]{methods: map[M]*MethodSummary[M, D]{}}
}

// GetOrCreate returns the method summary of method, creating an empty one if necessary
func (r *Repository[M, D]) GetOrCreate(method M) *MethodSummary[M, D] {
	if ms, ok := r.methods[method]; ok {
		return ms
	}
	ms := NewMethodSummary[M, D](method)
	r.methods[method] = ms
	r.order = append(r.order, method)
	return ms
}

// Get returns the method summary of method, or nil if none has been created
func (r *Repository[M, D]) Get(method M) *MethodSummary[M, D] {
	return r.methods[method]
}

// Methods returns the methods of the repository in order of creation
func (r *Repository[M, D]) Methods() []M {
	return r.order
}

// Len returns the number of methods in the repository
func (r *Repository[M, D]) Len() int {
	return len(r.order)
}
