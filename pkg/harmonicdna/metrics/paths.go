package metrics

import (
	"container/heap"
	"math"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/graph"
)

// GlobalEfficiency averages 1/d over ordered pairs of distinct nodes joined by a
// directed path, d being the hop count. Unreachable pairs are left out of the average.
// Graphs with at most one node, or with no reachable pair, give 0.
func GlobalEfficiency(g *graph.Graph) float64 {
	return efficiency(g, hopDistances)
}

// WeightedGlobalEfficiency is GlobalEfficiency with an edge cost of 1/weight, so heavily
// used transitions are short.
func WeightedGlobalEfficiency(g *graph.Graph) float64 {
	return efficiency(g, costDistances)
}

type distanceFunc func(g *graph.Graph, source int) map[int]float64

func efficiency(g *graph.Graph, dist distanceFunc) float64 {
	if g.NodeCount() <= 1 {
		return 0
	}
	sum, count := 0.0, 0
	for _, s := range g.Nodes() {
		for t, d := range dist(g, s) {
			if t == s || d <= 0 || math.IsInf(d, 1) {
				continue
			}
			sum += 1 / d
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// hopDistances runs a BFS from source.
func hopDistances(g *graph.Graph, source int) map[int]float64 {
	dist := map[int]float64{source: 0}
	queue := []int{source}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, e := range g.OutEdges(u) {
			if _, seen := dist[e.To]; seen {
				continue
			}
			dist[e.To] = dist[u] + 1
			queue = append(queue, e.To)
		}
	}
	return dist
}

// costDistances runs Dijkstra from source with lazy decrease-key: stale heap entries
// are skipped when popped.
func costDistances(g *graph.Graph, source int) map[int]float64 {
	dist := map[int]float64{source: 0}
	done := make(map[int]bool, g.NodeCount())

	pq := &nodePQ{}
	heap.Init(pq)
	heap.Push(pq, &nodeItem{node: source, dist: 0})

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*nodeItem)
		u := item.node
		if done[u] {
			continue
		}
		done[u] = true

		for _, e := range g.OutEdges(u) {
			if done[e.To] {
				continue
			}
			nd := dist[u] + 1/float64(e.Weight)
			if old, ok := dist[e.To]; ok && nd >= old {
				continue
			}
			dist[e.To] = nd
			heap.Push(pq, &nodeItem{node: e.To, dist: nd})
		}
	}
	return dist
}

type nodeItem struct {
	node int
	dist float64
}

// nodePQ is a min-heap of *nodeItem ordered by dist.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist == pq[j].dist {
		return pq[i].node < pq[j].node
	}
	return pq[i].dist < pq[j].dist
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x any) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
