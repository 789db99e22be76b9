package graph

import (
	"fmt"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/chord"
)

// Build counts chord-to-chord transitions. For every adjacent pair of chords and every
// label i of the first and j of the second with i != j, the weight of i->j grows by one.
// Every label of every chord becomes a node, so a single chord yields nodes and no edges.
func Build(seq chord.Sequence) (*Graph, error) {
	if err := validateSequence(seq); err != nil {
		return nil, err
	}

	var labels []int
	for _, c := range seq {
		labels = append(labels, c...)
	}
	g := newGraph(labels)

	counts := make([]map[int]int, len(g.nodes))
	for t := 0; t+1 < len(seq); t++ {
		for _, i := range seq[t] {
			u := g.index[i]
			if counts[u] == nil {
				counts[u] = make(map[int]int)
			}
			for _, j := range seq[t+1] {
				if i == j {
					continue
				}
				counts[u][j]++
			}
		}
	}

	for u, dst := range counts {
		for v, w := range dst {
			g.out[u] = append(g.out[u], Edge{From: g.nodes[u], To: v, Weight: w})
			g.edges++
		}
	}
	g.sortOut()
	return g, nil
}

// validateSequence checks the label invariants Build relies on. Adjacent equal chords
// are accepted: concatenated parts may repeat a chord at the seam.
func validateSequence(seq chord.Sequence) error {
	for t, c := range seq {
		if len(c) == 0 {
			return fmt.Errorf("%w: empty chord at position %d", ErrInvalidSequence, t)
		}
		for k, l := range c {
			if l < 0 {
				return fmt.Errorf("%w: negative label %d at position %d", ErrInvalidSequence, l, t)
			}
			if k > 0 && l <= c[k-1] {
				return fmt.Errorf("%w: chord %v at position %d is not strictly ascending", ErrInvalidSequence, c, t)
			}
		}
	}
	return nil
}
