// Package graph holds the directed, weighted pitch transition graph.
//
// A Graph is built once and read afterwards. Nodes are kept sorted by label and each
// node owns an out-list ordered by destination, so iteration is deterministic.
// Transformations such as weight shuffles produce new graphs through WithOutWeights.
package graph

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInvalidSequence is returned by Build for malformed chord sequences.
	ErrInvalidSequence = errors.New("invalid chord sequence")
	// ErrInvalidEdge is returned by FromEdges for self-loops, non-positive weights or repeats.
	ErrInvalidEdge = errors.New("invalid edge")
)

// Edge is a directed transition From -> To seen Weight times.
type Edge struct {
	From   int
	To     int
	Weight int
}

// Graph is a directed simple graph with positive integer edge weights and no self-loops.
type Graph struct {
	nodes []int
	index map[int]int
	out   [][]Edge
	edges int
}

// newGraph allocates an edgeless graph over the given labels.
func newGraph(labels []int) *Graph {
	nodes := make([]int, len(labels))
	copy(nodes, labels)
	sort.Ints(nodes)

	uniq := nodes[:0]
	for i, n := range nodes {
		if i > 0 && n == nodes[i-1] {
			continue
		}
		uniq = append(uniq, n)
	}

	g := &Graph{
		nodes: uniq,
		index: make(map[int]int, len(uniq)),
		out:   make([][]Edge, len(uniq)),
	}
	for i, n := range uniq {
		g.index[n] = i
	}
	return g
}

// FromEdges builds a graph from explicit nodes and edges. Edge endpoints are added as
// nodes automatically; extra isolated nodes may be passed in nodes.
func FromEdges(nodes []int, edges []Edge) (*Graph, error) {
	labels := append([]int(nil), nodes...)
	for _, e := range edges {
		labels = append(labels, e.From, e.To)
	}
	g := newGraph(labels)

	seen := make(map[[2]int]bool, len(edges))
	for _, e := range edges {
		if e.From == e.To {
			return nil, fmt.Errorf("%w: self-loop on %d", ErrInvalidEdge, e.From)
		}
		if e.Weight < 1 {
			return nil, fmt.Errorf("%w: %d->%d has weight %d", ErrInvalidEdge, e.From, e.To, e.Weight)
		}
		key := [2]int{e.From, e.To}
		if seen[key] {
			return nil, fmt.Errorf("%w: %d->%d listed twice", ErrInvalidEdge, e.From, e.To)
		}
		seen[key] = true
		u := g.index[e.From]
		g.out[u] = append(g.out[u], e)
	}
	g.sortOut()
	g.edges = len(edges)
	return g, nil
}

func (g *Graph) sortOut() {
	for _, list := range g.out {
		sort.Slice(list, func(i, j int) bool { return list[i].To < list[j].To })
	}
}

// Nodes returns the node labels in ascending order.
func (g *Graph) Nodes() []int {
	out := make([]int, len(g.nodes))
	copy(out, g.nodes)
	return out
}

func (g *Graph) NodeCount() int { return len(g.nodes) }

func (g *Graph) EdgeCount() int { return g.edges }

// HasNode reports whether label is a node.
func (g *Graph) HasNode(label int) bool {
	_, ok := g.index[label]
	return ok
}

// OutEdges returns a copy of u's outgoing edges ordered by destination.
func (g *Graph) OutEdges(u int) []Edge {
	i, ok := g.index[u]
	if !ok {
		return nil
	}
	out := make([]Edge, len(g.out[i]))
	copy(out, g.out[i])
	return out
}

// OutDegree returns the number of distinct destinations of u.
func (g *Graph) OutDegree(u int) int {
	i, ok := g.index[u]
	if !ok {
		return 0
	}
	return len(g.out[i])
}

// Edges returns every edge, ordered by source then destination.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for _, list := range g.out {
		out = append(out, list...)
	}
	return out
}

// Weight returns the weight of u->v and whether the edge exists.
func (g *Graph) Weight(u, v int) (int, bool) {
	i, ok := g.index[u]
	if !ok {
		return 0, false
	}
	list := g.out[i]
	j := sort.Search(len(list), func(k int) bool { return list[k].To >= v })
	if j < len(list) && list[j].To == v {
		return list[j].Weight, true
	}
	return 0, false
}

func (g *Graph) HasEdge(u, v int) bool {
	_, ok := g.Weight(u, v)
	return ok
}

// OutStrength is the sum of u's outgoing weights.
func (g *Graph) OutStrength(u int) int {
	i, ok := g.index[u]
	if !ok {
		return 0
	}
	total := 0
	for _, e := range g.out[i] {
		total += e.Weight
	}
	return total
}

// TotalWeight is the sum of all edge weights.
func (g *Graph) TotalWeight() int {
	total := 0
	for _, list := range g.out {
		for _, e := range list {
			total += e.Weight
		}
	}
	return total
}

// Density is edges / (n * (n - 1)), or 0 for fewer than two nodes.
func (g *Graph) Density() float64 {
	n := len(g.nodes)
	if n <= 1 {
		return 0
	}
	return float64(g.edges) / float64(n*(n-1))
}

// Clone returns a deep copy.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes: append([]int(nil), g.nodes...),
		index: make(map[int]int, len(g.index)),
		out:   make([][]Edge, len(g.out)),
		edges: g.edges,
	}
	for k, v := range g.index {
		c.index[k] = v
	}
	for i, list := range g.out {
		c.out[i] = append([]Edge(nil), list...)
	}
	return c
}

// WithOutWeights returns a copy of g in which u's outgoing weights are replaced, in
// destination order, by weights. Destinations never change.
func (g *Graph) WithOutWeights(u int, weights []int) (*Graph, error) {
	i, ok := g.index[u]
	if !ok {
		return nil, fmt.Errorf("%w: unknown node %d", ErrInvalidEdge, u)
	}
	if len(weights) != len(g.out[i]) {
		return nil, fmt.Errorf("%w: node %d has %d out-edges, got %d weights", ErrInvalidEdge, u, len(g.out[i]), len(weights))
	}
	for _, w := range weights {
		if w < 1 {
			return nil, fmt.Errorf("%w: weight %d on node %d", ErrInvalidEdge, w, u)
		}
	}
	c := g.Clone()
	for k := range c.out[i] {
		c.out[i][k].Weight = weights[k]
	}
	return c, nil
}

// SetOutWeights replaces u's outgoing weights in place. It is meant for a graph the
// caller owns exclusively, such as a fresh Clone.
func (g *Graph) SetOutWeights(u int, weights []int) {
	i, ok := g.index[u]
	if !ok || len(weights) != len(g.out[i]) {
		return
	}
	for k := range g.out[i] {
		g.out[i][k].Weight = weights[k]
	}
}
