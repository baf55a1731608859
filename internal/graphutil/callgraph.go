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

// Package graphutil provides graph algorithms over call graphs.
package graphutil

import (
	"sort"

	"github.com/yourbasic/graph"
	"golang.org/x/tools/go/callgraph"
)

// CGraph is an index-based view of a callgraph that implements graph.Iterator of github.com/yourbasic/graph.
// Vertex i is the i-th callgraph node in increasing order of node IDs, so that algorithms over the CGraph are
// deterministic.
type CGraph struct {
	// Graph is the original callgraph the CGraph was constructed from
	Graph *callgraph.Graph

	nodes []*callgraph.Node
	edges [][]int
}

// NewCGraph returns the index-based view of cg. Edges to nil callees are ignored, and parallel edges are merged.
func NewCGraph(cg *callgraph.Graph) CGraph {
	nodes := make([]*callgraph.Node, 0, len(cg.Nodes))
	for _, node := range cg.Nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	index := make(map[*callgraph.Node]int, len(nodes))
	for i, node := range nodes {
		index[node] = i
	}

	edges := make([][]int, len(nodes))
	for i, node := range nodes {
		seen := map[int]bool{}
		for _, e := range node.Out {
			if e.Callee == nil {
				continue
			}
			if j, ok := index[e.Callee]; ok && !seen[j] {
				seen[j] = true
				edges[i] = append(edges[i], j)
			}
		}
		sort.Ints(edges[i])
	}
	return CGraph{Graph: cg, nodes: nodes, edges: edges}
}

// Order implements the order of the graph.Iterator interface for the CGraph
func (c CGraph) Order() int {
	return len(c.nodes)
}

// Visit implements the graph.Iterator interface for the CGraph
func (c CGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if v < 0 || v >= len(c.edges) {
		return false
	}
	for _, w := range c.edges[v] {
		if do(w, 1) {
			return true
		}
	}
	return false
}

// Node returns the callgraph node of vertex v
func (c CGraph) Node(v int) *callgraph.Node {
	return c.nodes[v]
}

// HasEdge returns true if there is a call edge from vertex v to vertex w
func (c CGraph) HasEdge(v, w int) bool {
	i := sort.SearchInts(c.edges[v], w)
	return i < len(c.edges[v]) && c.edges[v][i] == w
}

// RecursiveComponents returns the strongly connected components of the callgraph that contain a cycle, i.e.
// components with more than one function, or a single function that calls itself. Each component is sorted by node ID
// and components are sorted by their first node ID.
func RecursiveComponents(cg *callgraph.Graph) [][]*callgraph.Node {
	c := NewCGraph(cg)
	var res [][]*callgraph.Node
	for _, component := range graph.StrongComponents(c) {
		if len(component) == 1 && !c.HasEdge(component[0], component[0]) {
			continue
		}
		sort.Ints(component)
		nodes := make([]*callgraph.Node, len(component))
		for i, v := range component {
			nodes[i] = c.Node(v)
		}
		res = append(res, nodes)
	}
	sort.Slice(res, func(i, j int) bool { return res[i][0].ID < res[j][0].ID })
	return res
}
