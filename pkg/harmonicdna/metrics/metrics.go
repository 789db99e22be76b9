// Package metrics computes structural descriptors of a transition graph.
//
// Every function accepts empty and single-node graphs and falls back to 0 (or a zero
// vector) instead of dividing by zero.
package metrics

import (
	"math"
	"math/rand/v2"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/graph"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/reciprocity"
)

// Epsilon keeps logarithms and ratios finite.
const Epsilon = 1e-10

// IntervalClasses is the length of an interval embedding.
const IntervalClasses = 12

// Record bundles the descriptors of one graph.
type Record struct {
	Nodes         int                      `json:"n_nodes"`
	Edges         int                      `json:"n_edges"`
	Density       float64                  `json:"density"`
	Reciprocity   reciprocity.Result       `json:"reciprocity"`
	MeanEntropy   float64                  `json:"mean_entropy"`
	EffUnweighted float64                  `json:"eff_unweighted"`
	EffWeighted   float64                  `json:"eff_weighted"`
	IntervalVec   [IntervalClasses]float64 `json:"interval_vec"`
	Graph         *graph.Graph             `json:"-"`
}

// Values flattens the record into name/value pairs.
func (r *Record) Values() map[string]any {
	return map[string]any{
		"n_nodes":        r.Nodes,
		"n_edges":        r.Edges,
		"density":        r.Density,
		"r_real":         r.Reciprocity.Real,
		"r_null":         r.Reciprocity.Null,
		"rho_norm":       r.Reciprocity.Rho,
		"mean_entropy":   r.MeanEntropy,
		"eff_unweighted": r.EffUnweighted,
		"eff_weighted":   r.EffWeighted,
		"interval_vec":   r.IntervalVec,
	}
}

// Compute builds the full Record for g. rng drives the reciprocity null model and opts
// are handed to reciprocity.Normalized.
func Compute(g *graph.Graph, rng *rand.Rand, opts ...reciprocity.Option) (*Record, error) {
	rec, err := reciprocity.Normalized(g, rng, opts...)
	if err != nil {
		return nil, err
	}
	return &Record{
		Nodes:         g.NodeCount(),
		Edges:         g.EdgeCount(),
		Density:       g.Density(),
		Reciprocity:   rec,
		MeanEntropy:   MeanNodeEntropy(g),
		EffUnweighted: GlobalEfficiency(g),
		EffWeighted:   WeightedGlobalEfficiency(g),
		IntervalVec:   IntervalEmbedding(g),
		Graph:         g,
	}, nil
}

// NodeEntropy is the Shannon entropy of u's outgoing weight distribution normalized by
// log(out-degree). Nodes with out-degree at most one have entropy 0.
func NodeEntropy(g *graph.Graph, u int) float64 {
	out := g.OutEdges(u)
	k := len(out)
	if k <= 1 {
		return 0
	}
	total := float64(g.OutStrength(u))
	h := 0.0
	for _, e := range out {
		p := float64(e.Weight) / (total + Epsilon)
		h -= p * math.Log(p+Epsilon)
	}
	return h / (math.Log(float64(k)+Epsilon) + Epsilon)
}

// MeanNodeEntropy averages NodeEntropy over every node.
func MeanNodeEntropy(g *graph.Graph) float64 {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 0
	}
	sum := 0.0
	for _, u := range nodes {
		sum += NodeEntropy(g, u)
	}
	return sum / float64(len(nodes))
}

// IntervalEmbedding adds each edge weight to bucket (to - from) mod 12 and L2-normalizes
// the result. A graph without edges gives the zero vector.
func IntervalEmbedding(g *graph.Graph) [IntervalClasses]float64 {
	var vec [IntervalClasses]float64
	for _, e := range g.Edges() {
		bucket := ((e.To-e.From)%IntervalClasses + IntervalClasses) % IntervalClasses
		vec[bucket] += float64(e.Weight)
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// Cosine returns a·b / (|a||b| + Epsilon).
func Cosine(a, b [IntervalClasses]float64) float64 {
	dot, na, nb := 0.0, 0.0, 0.0
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + Epsilon)
}
