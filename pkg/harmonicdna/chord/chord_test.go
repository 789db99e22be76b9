package chord

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCanonicalizes(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(Chord{60, 64, 67}, New(67, 60, 64, 60))
	assert.Nil(New())
	assert.Equal("60-64-67", New(64, 67, 60).Key())
	assert.Equal("(60,64)", New(64, 60).String())
}

func TestChordContains(t *testing.T) {
	c := New(2, 7, 11)
	assert.True(t, c.Contains(7))
	assert.False(t, c.Contains(8))
	assert.False(t, Chord(nil).Contains(0))
}

func TestCompressDropsConsecutiveDuplicates(t *testing.T) {
	seq := Compress([]Chord{New(0, 4), New(4, 0), nil, New(0, 4), New(7), New(0, 4)})
	assert.Equal(t, Sequence{{0, 4}, {7}, {0, 4}}, seq)
	require.NoError(t, seq.Validate())
}

func TestCompressPropertyNoAdjacentDuplicates(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 200; trial++ {
		n := rng.IntN(40)
		chords := make([]Chord, n)
		for i := range chords {
			size := rng.IntN(3)
			labels := make([]int, size)
			for j := range labels {
				// a small alphabet makes repeats likely
				labels[j] = rng.IntN(3)
			}
			chords[i] = New(labels...)
		}

		seq := Compress(chords)
		require.NoError(t, seq.Validate())
		for i := 1; i < len(seq); i++ {
			require.False(t, seq[i].Equal(seq[i-1]), "trial %d position %d", trial, i)
		}
	}
}

func TestValidateRejectsBrokenSequences(t *testing.T) {
	cases := map[string]Sequence{
		"empty chord":  {{60}, {}},
		"unsorted":     {{64, 60}},
		"duplicate":    {{60, 60}},
		"adjacent dup": {{60}, {60}},
	}
	for name, seq := range cases {
		t.Run(name, func(t *testing.T) {
			err := seq.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestPitchClassesFoldsAndCompresses(t *testing.T) {
	seq := Sequence{{48, 60}, {60, 72}, {55, 64}}
	assert.Equal(t, Sequence{{0}, {4, 7}}, PitchClasses(seq))
}

func TestFromNotesTwoPartScenario(t *testing.T) {
	notes := []Note{
		{Onset: 0.0, Pitch: 60, Part: "A"},
		{Onset: 0.0, Pitch: 64, Part: "A"},
		{Onset: 1.0, Pitch: 67, Part: "A"},
	}
	seq, err := FromNotes(notes, DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, Sequence{{60, 64}, {67}}, seq)
}

func TestFromNotesEmpty(t *testing.T) {
	seq, err := FromNotes(nil, DefaultTolerance)
	require.NoError(t, err)
	assert.Empty(t, seq)
}

func TestFromNotesTolerance(t *testing.T) {
	notes := []Note{
		{Onset: 0.0000, Pitch: 60},
		{Onset: 0.0008, Pitch: 64},
		// within tolerance of 0.0008 but not of the anchor at 0.0
		{Onset: 0.0015, Pitch: 67},
	}
	seq, err := FromNotes(notes, DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, Sequence{{60, 64}, {67}}, seq)
}

func TestFromNotesSortsByOnsetWithinPart(t *testing.T) {
	notes := []Note{
		{Onset: 2.0, Pitch: 62, Part: "p"},
		{Onset: 0.0, Pitch: 60, Part: "p"},
		{Onset: 1.0, Pitch: 61, Part: "p"},
	}
	seq, err := FromNotes(notes, DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, Sequence{{60}, {61}, {62}}, seq)
}

func TestFromNotesConcatenatesPartsAndSkipsDrums(t *testing.T) {
	notes := []Note{
		{Onset: 0.0, Pitch: 50, Part: "bass"},
		{Onset: 0.0, Pitch: 72, Part: "lead"},
		{Onset: 0.5, Pitch: 36, Part: "kit", Drum: true},
		{Onset: 1.0, Pitch: 50, Part: "bass"},
		{Onset: 2.0, Pitch: 55, Part: "bass"},
		{Onset: 1.0, Pitch: 74, Part: "lead"},
	}
	seq, err := FromNotes(notes, DefaultTolerance)
	require.NoError(t, err)
	// bass repeats 50 and is compressed, parts are not merged in time
	assert.Equal(t, Sequence{{50}, {55}, {72}, {74}}, seq)
}

func TestFromNotesDuplicateAcrossPartBoundaryIsKept(t *testing.T) {
	notes := []Note{
		{Onset: 0.0, Pitch: 60, Part: "a"},
		{Onset: 0.0, Pitch: 60, Part: "b"},
	}
	seq, err := FromNotes(notes, DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, Sequence{{60}, {60}}, seq)
}

func TestFromNotesValidation(t *testing.T) {
	_, err := FromNotes([]Note{{Pitch: 128}}, DefaultTolerance)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = FromNotes([]Note{{Pitch: 60, Onset: math.NaN()}}, DefaultTolerance)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = FromNotes(nil, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func frames(t int) [][]float64 {
	chroma := make([][]float64, PitchClassCount)
	for pc := range chroma {
		chroma[pc] = make([]float64, t)
	}
	return chroma
}

func TestFromChromaDuplicateAndSilentFrames(t *testing.T) {
	chroma := frames(3)
	for _, f := range []int{0, 1} {
		chroma[0][f] = 1.0
		chroma[4][f] = 0.8
		chroma[7][f] = 0.5
		chroma[9][f] = 0.1
	}

	seq, err := FromChroma(chroma, DefaultThreshold)
	require.NoError(t, err)
	require.Len(t, seq, 1)
	assert.Equal(t, Chord{0, 4, 7}, seq[0])
}

func TestFromChromaCompressesAcrossSilence(t *testing.T) {
	chroma := frames(4)
	chroma[2][0] = 1
	// frame 1 silent
	chroma[2][2] = 1
	chroma[5][3] = 1

	seq, err := FromChroma(chroma, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, Sequence{{2}, {5}}, seq)
}

func TestFromChromaBelowFloorIsSilent(t *testing.T) {
	chroma := frames(2)
	chroma[3][0] = 1e-7
	chroma[3][1] = 1e-7

	seq, err := FromChroma(chroma, DefaultThreshold)
	require.NoError(t, err)
	assert.Empty(t, seq)
}

func TestFromChromaThresholdIsRelative(t *testing.T) {
	chroma := frames(1)
	chroma[0][0] = 0.02
	chroma[1][0] = 0.007
	chroma[2][0] = 0.005

	seq, err := FromChroma(chroma, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, Sequence{{0, 1}}, seq)
}

func TestFromChromaValidation(t *testing.T) {
	_, err := FromChroma(make([][]float64, 11), DefaultThreshold)
	assert.ErrorIs(t, err, ErrInvalidInput)

	ragged := frames(2)
	ragged[5] = []float64{1}
	_, err = FromChroma(ragged, DefaultThreshold)
	assert.ErrorIs(t, err, ErrInvalidInput)

	negative := frames(1)
	negative[0][0] = -1
	_, err = FromChroma(negative, DefaultThreshold)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = FromChroma(frames(1), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = FromChroma(frames(1), 1.5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFromChromaZeroFrames(t *testing.T) {
	seq, err := FromChroma(frames(0), DefaultThreshold)
	require.NoError(t, err)
	assert.Empty(t, seq)
}
