package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/chord"
)

// 96 ticks per quarter at the default 120 bpm: one quarter is 0.5s.
const ticks = 96

func writeSMF(t *testing.T, tracks ...smf.Track) []byte {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticks)
	for _, tr := range tracks {
		require.NoError(t, s.Add(tr))
	}
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func melodyTrack() smf.Track {
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(0, gomidi.NoteOn(0, 64, 100))
	tr.Add(ticks, gomidi.NoteOff(0, 60))
	tr.Add(0, gomidi.NoteOff(0, 64))
	tr.Add(0, gomidi.NoteOn(0, 67, 90))
	tr.Add(ticks, gomidi.NoteOff(0, 67))
	tr.Close(0)
	return tr
}

func drumTrack() smf.Track {
	var tr smf.Track
	tr.Add(0, gomidi.NoteOn(DrumChannel, 36, 120))
	tr.Add(ticks/2, gomidi.NoteOff(DrumChannel, 36))
	tr.Close(0)
	return tr
}

func TestReadNotesFrom(t *testing.T) {
	data := writeSMF(t, melodyTrack(), drumTrack())

	notes, err := ReadNotesFrom(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, notes, 4)

	assert.Equal(t, 60, notes[0].Pitch)
	assert.Equal(t, "track0/ch0", notes[0].Part)
	assert.InDelta(t, 0.0, notes[0].Onset, 1e-9)
	assert.Equal(t, 67, notes[2].Pitch)
	assert.InDelta(t, 0.5, notes[2].Onset, 1e-9)

	assert.True(t, notes[3].Drum)
	assert.Equal(t, "track1/ch9", notes[3].Part)

	seq, err := chord.FromNotes(notes, chord.DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, chord.Sequence{{60, 64}, {67}}, seq)
}

func TestReadNotesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piece.mid")
	require.NoError(t, os.WriteFile(path, writeSMF(t, melodyTrack()), 0o644))

	notes, err := ReadNotes(path)
	require.NoError(t, err)
	assert.Len(t, notes, 3)

	_, err = ReadNotes(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)
}

func TestReadNotesFromGarbage(t *testing.T) {
	_, err := ReadNotesFrom(bytes.NewReader([]byte("not a midi file")))
	assert.ErrorIs(t, err, ErrParse)
}
