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

// A Manager combines a summary factory and a summary cache. It is the entry point of the summary cache for the
// fixpoint driver.
type Manager[M comparable, D Lattice[D]] struct {
	factory Factory[D]
	cache   *Cache[M, D]
}

// NewManager returns a manager using factory to build summaries and cache to store them. If cache is nil, an empty
// cache with the antichain policy is used.
func NewManager[M comparable, D Lattice[D]](factory Factory[D], cache *Cache[M, D]) *Manager[M, D] {
	if cache == nil {
		cache = NewCache[M, D](PolicyAntichain)
	}
	return &Manager[M, D]{factory: factory, cache: cache}
}

// Factory returns the summary factory of the manager
func (m *Manager[M, D]) Factory() Factory[D] {
	return m.factory
}

// Cache returns the summary cache of the manager
func (m *Manager[M, D]) Cache() *Cache[M, D] {
	return m.cache
}

// CreateSummary returns a precondition summary for the call at site
func (m *Manager[M, D]) CreateSummary(site CallSite, callerPre D, args []D) Summary[D] {
	return m.factory.FromArguments(site, callerPre, args)
}

// GetSummary returns the most general cached summary of method subsuming pre, or nil
func (m *Manager[M, D]) GetSummary(method M, pre Summary[D]) Summary[D] {
	return m.cache.Get(method, pre)
}

// ContainsSummary returns true if a cached summary of method subsumes pre
func (m *Manager[M, D]) ContainsSummary(method M, pre Summary[D]) bool {
	return m.cache.Contains(method, pre)
}

// PutSummary caches the complete summary s of method
func (m *Manager[M, D]) PutSummary(method M, s Summary[D]) error {
	return m.cache.Put(method, s)
}

// MethodSummariesAmount returns the number of summaries cached for method
func (m *Manager[M, D]) MethodSummariesAmount(method M) int {
	return m.cache.Len(method)
}

// CacheCalls returns the number of cache lookups
func (m *Manager[M, D]) CacheCalls() int {
	return m.cache.Calls()
}

// CacheHits returns the number of cache lookups that found a subsuming summary
func (m *Manager[M, D]) CacheHits() int {
	return m.cache.Hits()
}
