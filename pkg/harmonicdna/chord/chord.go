// Package chord turns symbolic notes or chroma frames into compressed chord sequences.
package chord

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidInput is wrapped by every validation failure in this package.
var ErrInvalidInput = errors.New("invalid chord input")

// Chord is a non-empty, strictly ascending set of pitch (0-127) or pitch-class (0-11) labels.
type Chord []int

// Sequence is a time-ordered list of chords with no two consecutive chords equal.
type Sequence []Chord

// New canonicalizes labels into a Chord: duplicates removed, sorted ascending.
// The result is nil when no labels are given.
func New(labels ...int) Chord {
	if len(labels) == 0 {
		return nil
	}
	sorted := make([]int, len(labels))
	copy(sorted, labels)
	sort.Ints(sorted)

	c := make(Chord, 0, len(sorted))
	for i, l := range sorted {
		if i > 0 && l == sorted[i-1] {
			continue
		}
		c = append(c, l)
	}
	return c
}

// Equal reports whether both chords hold the same labels.
func (c Chord) Equal(other Chord) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// Contains reports whether label is part of the chord.
func (c Chord) Contains(label int) bool {
	i := sort.SearchInts(c, label)
	return i < len(c) && c[i] == label
}

// Key renders the chord as "60-64-67".
func (c Chord) Key() string {
	parts := make([]string, len(c))
	for i, l := range c {
		parts[i] = strconv.Itoa(l)
	}
	return strings.Join(parts, "-")
}

func (c Chord) String() string {
	return "(" + strings.ReplaceAll(c.Key(), "-", ",") + ")"
}

// Len returns the number of chords.
func (s Sequence) Len() int {
	return len(s)
}

// Validate checks the chord and compression invariants.
func (s Sequence) Validate() error {
	for t, c := range s {
		if len(c) == 0 {
			return fmt.Errorf("%w: empty chord at position %d", ErrInvalidInput, t)
		}
		for i := 1; i < len(c); i++ {
			if c[i] <= c[i-1] {
				return fmt.Errorf("%w: chord %v at position %d is not strictly ascending", ErrInvalidInput, c, t)
			}
		}
		if t > 0 && c.Equal(s[t-1]) {
			return fmt.Errorf("%w: chord %v repeats at position %d", ErrInvalidInput, c, t)
		}
	}
	return nil
}

// Compress drops empty chords and chords equal to the one kept just before them.
func Compress(chords []Chord) Sequence {
	out := make(Sequence, 0, len(chords))
	for _, c := range chords {
		if len(c) == 0 {
			continue
		}
		if len(out) > 0 && out[len(out)-1].Equal(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// PitchClasses folds every label onto 0-11 and re-compresses the result.
func PitchClasses(s Sequence) Sequence {
	folded := make([]Chord, len(s))
	for t, c := range s {
		labels := make([]int, len(c))
		for i, l := range c {
			labels[i] = ((l % 12) + 12) % 12
		}
		folded[t] = New(labels...)
	}
	return Compress(folded)
}
