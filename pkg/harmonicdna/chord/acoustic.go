package chord

import (
	"fmt"
	"math"
)

const (
	// DefaultThreshold is the activation level, relative to the frame maximum.
	DefaultThreshold = 0.30
	// SilenceFloor is the frame maximum under which a frame counts as silent.
	SilenceFloor = 1e-6
	// PitchClassCount is the number of chroma rows.
	PitchClassCount = 12
)

// FromChroma builds the acoustic chord sequence from a 12 x T chroma matrix
// (chroma[pc][t]). A pitch class is active in frame t when its value reaches
// threshold times the frame maximum.
func FromChroma(chroma [][]float64, threshold float64) (Sequence, error) {
	frames, err := validateChroma(chroma, threshold)
	if err != nil {
		return nil, err
	}

	seq := make(Sequence, 0)
	var prev Chord
	for t := 0; t < frames; t++ {
		active := activeSet(chroma, t, threshold)
		if len(active) == 0 || active.Equal(prev) {
			continue
		}
		seq = append(seq, active)
		prev = active
	}
	return seq, nil
}

func activeSet(chroma [][]float64, t int, threshold float64) Chord {
	m := 0.0
	for pc := 0; pc < PitchClassCount; pc++ {
		if chroma[pc][t] > m {
			m = chroma[pc][t]
		}
	}
	if m < SilenceFloor {
		return nil
	}

	var active Chord
	for pc := 0; pc < PitchClassCount; pc++ {
		if chroma[pc][t] >= threshold*m {
			active = append(active, pc)
		}
	}
	return active
}

func validateChroma(chroma [][]float64, threshold float64) (int, error) {
	if math.IsNaN(threshold) || threshold <= 0 || threshold > 1 {
		return 0, fmt.Errorf("%w: threshold %v outside (0, 1]", ErrInvalidInput, threshold)
	}
	if len(chroma) != PitchClassCount {
		return 0, fmt.Errorf("%w: chroma has %d rows, want %d", ErrInvalidInput, len(chroma), PitchClassCount)
	}

	frames := len(chroma[0])
	for pc, row := range chroma {
		if len(row) != frames {
			return 0, fmt.Errorf("%w: chroma row %d has %d frames, row 0 has %d", ErrInvalidInput, pc, len(row), frames)
		}
		for t, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return 0, fmt.Errorf("%w: chroma[%d][%d] = %v", ErrInvalidInput, pc, t, v)
			}
		}
	}
	return frames, nil
}
