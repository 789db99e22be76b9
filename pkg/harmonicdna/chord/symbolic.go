package chord

import (
	"fmt"
	"math"
	"sort"
)

// DefaultTolerance is the onset window, in seconds, for merging notes into one chord.
const DefaultTolerance = 0.001

// Note is a single symbolic note event.
type Note struct {
	Onset float64 // seconds
	Pitch int     // MIDI pitch 0-127
	Part  string  // source part or instrument
	Drum  bool
}

// FromNotes builds the symbolic chord sequence.
//
// Notes are grouped by Part, keeping the order in which parts first appear. Inside a
// part notes are ordered by onset and a chord collects every note whose onset lies
// within tolerance of the onset that opened it. Consecutive duplicates are removed per
// part and the parts are concatenated, not interleaved in time.
func FromNotes(notes []Note, tolerance float64) (Sequence, error) {
	if tolerance < 0 || math.IsNaN(tolerance) || math.IsInf(tolerance, 0) {
		return nil, fmt.Errorf("%w: tolerance %v", ErrInvalidInput, tolerance)
	}

	var order []string
	parts := make(map[string][]Note)
	for i, n := range notes {
		if n.Pitch < 0 || n.Pitch > 127 {
			return nil, fmt.Errorf("%w: note %d has pitch %d outside 0-127", ErrInvalidInput, i, n.Pitch)
		}
		if math.IsNaN(n.Onset) || math.IsInf(n.Onset, 0) {
			return nil, fmt.Errorf("%w: note %d has onset %v", ErrInvalidInput, i, n.Onset)
		}
		if n.Drum {
			continue
		}
		if _, ok := parts[n.Part]; !ok {
			order = append(order, n.Part)
		}
		parts[n.Part] = append(parts[n.Part], n)
	}

	seq := make(Sequence, 0)
	for _, part := range order {
		seq = append(seq, partChords(parts[part], tolerance)...)
	}
	return seq, nil
}

// partChords slices one part's notes into compressed chords.
func partChords(notes []Note, tolerance float64) Sequence {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Onset < notes[j].Onset
	})

	var slices []Chord
	var pitches []int
	anchor := 0.0
	for i, n := range notes {
		if i > 0 && math.Abs(n.Onset-anchor) > tolerance {
			slices = append(slices, New(pitches...))
			pitches = pitches[:0]
		}
		if len(pitches) == 0 {
			anchor = n.Onset
		}
		pitches = append(pitches, n.Pitch)
	}
	if len(pitches) > 0 {
		slices = append(slices, New(pitches...))
	}
	return Compress(slices)
}
