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
	"encoding/binary"
	"fmt"
	"go/token"
	"strings"

	"github.com/spaolacci/murmur3"
)

// A CallSite identifies the call instruction a summary has been built for. The summary cache never inspects call
// sites beyond their position and printed form; ssa.CallInstruction satisfies this interface.
type CallSite interface {
	Pos() token.Pos
	String() string
}

// A ContextKey identifies one calling context of one method. Two keys are equal if and only if their method, call
// string hash and depth are equal; ContextKey is comparable and can be used directly as a map key.
//
// Depth is the number of call edges between the analysis root and the context. Drivers bound Depth to guarantee that
// the analysis of recursive call chains terminates.
type ContextKey[M comparable] struct {
	Method         M
	CallStringHash uint64
	Depth          int
}

// NewContextKey returns the key of method in the calling context cs
func NewContextKey[M comparable](method M, cs CallString) ContextKey[M] {
	return ContextKey[M]{
		Method:         method,
		CallStringHash: cs.Hash(),
		Depth:          cs.Depth(),
	}
}

func (k ContextKey[M]) String() string {
	return fmt.Sprintf("%v@%x[%d]", k.Method, k.CallStringHash, k.Depth)
}

// A CallString is the sequence of call sites leading to a context, most recent last. Only the last k call sites are
// retained (k-limiting), but the depth keeps counting every call edge. CallString is immutable: Push returns a new
// value and the zero value is the empty call string of the analysis root.
type CallString struct {
	sites []CallSite
	depth int
}

// Push returns the call string extended with site, keeping at most the k most recent call sites. If k <= 0, the
// call string is not truncated.
func (cs CallString) Push(site CallSite, k int) CallString {
	sites := make([]CallSite, 0, len(cs.sites)+1)
	sites = append(sites, cs.sites...)
	sites = append(sites, site)
	if k > 0 && len(sites) > k {
		sites = sites[len(sites)-k:]
	}
	return CallString{sites: sites, depth: cs.depth + 1}
}

// Depth returns the number of call edges pushed since the root, including the ones that have been truncated
func (cs CallString) Depth() int {
	return cs.depth
}

// Sites returns the call sites retained in the call string, oldest first
func (cs CallString) Sites() []CallSite {
	return cs.sites
}

// Hash returns a hash of the retained call sites. Equal call strings have equal hashes; the empty call string hashes
// to 0.
func (cs CallString) Hash() uint64 {
	if len(cs.sites) == 0 {
		return 0
	}
	h := murmur3.New64()
	var buf [8]byte
	for _, site := range cs.sites {
		binary.LittleEndian.PutUint64(buf[:], uint64(site.Pos()))
		h.Write(buf[:])
		h.Write([]byte(site.String()))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

func (cs CallString) String() string {
	labels := make([]string, len(cs.sites))
	for i, site := range cs.sites {
		labels[i] = site.String()
	}
	return "[" + strings.Join(labels, " -> ") + "]"
}
