// Package reciprocity measures weighted reciprocity against a strength-preserving null model.
package reciprocity

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"

	"github.com/remeh/sizedwaitgroup"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/graph"
)

// DefaultTrials is the number of null-model samples drawn by Normalized.
const DefaultTrials = 20

var (
	ErrNilRand       = errors.New("reciprocity: nil random generator")
	ErrInvalidTrials = errors.New("reciprocity: trials must be at least 1")
)

// Result holds observed reciprocity, the null-model mean and the normalized score.
type Result struct {
	Real float64 `json:"r_real"`
	Null float64 `json:"r_null"`
	Rho  float64 `json:"rho_norm"`
}

type options struct {
	trials  int
	workers int
}

// Option configures Normalized.
type Option func(*options)

// WithTrials sets how many null graphs are sampled.
func WithTrials(n int) Option {
	return func(o *options) {
		o.trials = n
	}
}

// WithWorkers bounds how many trials run at once. Values below 1 mean one worker.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// Weighted returns W_bidir / W, where W sums every edge weight and W_bidir adds
// min(w_uv, w_vu) for each directed edge whose reverse exists. A reciprocated pair
// therefore contributes once per direction. Graphs without edges give 0.
func Weighted(g *graph.Graph) float64 {
	total, bidir := 0, 0
	for _, e := range g.Edges() {
		total += e.Weight
		if back, ok := g.Weight(e.To, e.From); ok {
			bidir += min(e.Weight, back)
		}
	}
	if total == 0 {
		return 0
	}
	return float64(bidir) / float64(total)
}

// Shuffle returns a null-model copy of g. Each node with out-degree above one has its
// outgoing weights permuted over the same destinations; g is not modified.
func Shuffle(g *graph.Graph, rng *rand.Rand) *graph.Graph {
	null := g.Clone()
	for _, u := range g.Nodes() {
		out := g.OutEdges(u)
		if len(out) <= 1 {
			continue
		}
		weights := make([]int, len(out))
		for i, e := range out {
			weights[i] = e.Weight
		}
		rng.Shuffle(len(weights), func(i, j int) {
			weights[i], weights[j] = weights[j], weights[i]
		})
		null.SetOutWeights(u, weights)
	}
	return null
}

// Normalized compares observed reciprocity with the mean over shuffled null graphs.
// Rho is (Real - Null) / (1 - Null), or 0 when Null reaches 1. A graph without edges
// yields the zero Result.
//
// Every trial draws from its own generator, seeded from rng in trial order before any
// work starts, so a fixed seed gives the same Result for any worker count.
func Normalized(g *graph.Graph, rng *rand.Rand, opts ...Option) (Result, error) {
	o := options{trials: DefaultTrials, workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&o)
	}
	if rng == nil {
		return Result{}, ErrNilRand
	}
	if o.trials < 1 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidTrials, o.trials)
	}
	if o.workers < 1 {
		o.workers = 1
	}

	if g.EdgeCount() == 0 {
		return Result{}, nil
	}
	observed := Weighted(g)

	seeds := make([][2]uint64, o.trials)
	for i := range seeds {
		seeds[i] = [2]uint64{rng.Uint64(), rng.Uint64()}
	}

	samples := make([]float64, o.trials)
	swg := sizedwaitgroup.New(o.workers)
	for i := range samples {
		swg.Add()
		go func(i int) {
			defer swg.Done()
			trialRng := rand.New(rand.NewPCG(seeds[i][0], seeds[i][1]))
			samples[i] = Weighted(Shuffle(g, trialRng))
		}(i)
	}
	swg.Wait()

	sum := 0.0
	for _, s := range samples {
		sum += s
	}
	null := sum / float64(o.trials)

	res := Result{Real: observed, Null: null}
	if null < 1 {
		res.Rho = (observed - null) / (1 - null)
	}
	return res, nil
}
