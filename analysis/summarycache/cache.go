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
	"strings"
)

// Policy decides how the summaries of a method are stored when new summaries are put in the cache.
type Policy int

const (
	// PolicyAntichain keeps only summaries that are not subsumed by another stored summary of the same method: a new
	// summary subsumed by a stored one is discarded, and stored summaries subsumed by a new one are evicted.
	PolicyAntichain Policy = iota

	// PolicyAppend stores every summary, in insertion order. The cache only grows.
	PolicyAppend
)

// ParsePolicy returns the policy named s ("antichain" or "append"). The empty string is the antichain policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "antichain":
		return PolicyAntichain, nil
	case "append":
		return PolicyAppend, nil
	default:
		return PolicyAntichain, fmt.Errorf("unknown cache policy %q", s)
	}
}

func (p Policy) String() string {
	switch p {
	case PolicyAntichain:
		return "antichain"
	case PolicyAppend:
		return "append"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// CacheStats is a snapshot of the counters of a cache
type CacheStats struct {
	Calls     int `json:"calls"`
	Hits      int `json:"hits"`
	Methods   int `json:"methods"`
	Summaries int `json:"summaries"`
	Discarded int `json:"discarded"`
	Evicted   int `json:"evicted"`
}

// Misses returns the number of lookups that did not find a subsuming summary
func (s CacheStats) Misses() int {
	return s.Calls - s.Hits
}

// A Cache stores, for each method, the complete summaries computed so far. Lookups are subsumption based: a stored
// summary matches a query when it subsumes the query's precondition summary.
//
// A Cache is not safe for concurrent use.
type Cache[M comparable, D Lattice[D]] struct {
	policy    Policy
	entries   map[M][]Summary[D]
	methods   []M
	calls     int
	hits      int
	discarded int
	evicted   int
}

// NewCache returns an empty cache storing summaries according to policy
func NewCache[M comparable, D Lattice[D]](policy Policy) *Cache[M, D] {
	return &Cache[M, D]{
		policy:  policy,
		entries: map[M][]Summary[D]{},
	}
}

// Policy returns the insertion policy of the cache
func (c *Cache[M, D]) Policy() Policy {
	return c.policy
}

// Contains returns true if some complete summary stored for method subsumes pre. Every call counts as a cache call,
// and calls that return true count as cache hits. A method without summaries contains nothing.
func (c *Cache[M, D]) Contains(method M, pre Summary[D]) bool {
	c.calls++
	for _, s := range c.entries[method] {
		if s.IsComplete() && s.Subsumes(pre) {
			c.hits++
			return true
		}
	}
	return false
}

// Get returns the most general complete summary stored for method that subsumes pre, or nil if there is none.
//
// Summaries are scanned in insertion order, and a candidate replaces the current best when it subsumes the best.
// Among equivalent summaries the last stored one is returned; among summaries that are pairwise incomparable, the
// earliest stored one is returned unless a later one subsumes it.
func (c *Cache[M, D]) Get(method M, pre Summary[D]) Summary[D] {
	var best Summary[D]
	for _, s := range c.entries[method] {
		if !s.IsComplete() || !s.Subsumes(pre) {
			continue
		}
		if best == nil || s.Subsumes(best) {
			best = s
		}
	}
	return best
}

// Put stores the complete summary s for method. It returns ErrIncompleteSummary if s has not been finalized.
// With PolicyAntichain, s is discarded if a stored summary already subsumes it, and stored summaries subsumed by s
// are removed.
func (c *Cache[M, D]) Put(method M, s Summary[D]) error {
	if s == nil || !s.IsComplete() {
		return fmt.Errorf("caching summary for %v: %w", method, ErrIncompleteSummary)
	}
	existing, ok := c.entries[method]
	if !ok {
		c.methods = append(c.methods, method)
	}
	if c.policy == PolicyAppend {
		c.entries[method] = append(existing, s)
		return nil
	}
	for _, e := range existing {
		if e.Subsumes(s) {
			c.discarded++
			return nil
		}
	}
	kept := make([]Summary[D], 0, len(existing)+1)
	for _, e := range existing {
		if s.Subsumes(e) {
			c.evicted++
			continue
		}
		kept = append(kept, e)
	}
	c.entries[method] = append(kept, s)
	return nil
}

// Summaries returns the summaries stored for method, in insertion order. The returned slice must not be modified.
func (c *Cache[M, D]) Summaries(method M) []Summary[D] {
	return c.entries[method]
}

// Len returns the number of summaries stored for method
func (c *Cache[M, D]) Len(method M) int {
	return len(c.entries[method])
}

// Methods returns the methods that have been put in the cache, in order of first insertion
func (c *Cache[M, D]) Methods() []M {
	return c.methods
}

// Calls returns the number of calls to Contains
func (c *Cache[M, D]) Calls() int {
	return c.calls
}

// Hits returns the number of calls to Contains that returned true
func (c *Cache[M, D]) Hits() int {
	return c.hits
}

// Stats returns a snapshot of the cache counters
func (c *Cache[M, D]) Stats() CacheStats {
	total := 0
	for _, summaries := range c.entries {
		total += len(summaries)
	}
	return CacheStats{
		Calls:     c.calls,
		Hits:      c.hits,
		Methods:   len(c.methods),
		Summaries: total,
		Discarded: c.discarded,
		Evicted:   c.evicted,
	}
}
