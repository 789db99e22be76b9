package harmonicdna

import (
	"bytes"
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/chord"
	"github.com/himanishpuri/HarmonicDNA/pkg/logger"
)

func quietLogger() *logger.Logger {
	cfg := logger.DefaultConfig()
	cfg.Output = io.Discard
	return logger.New(cfg)
}

func newTestService(t *testing.T, opts ...Option) Service {
	t.Helper()
	base := []Option{
		WithLogger(quietLogger()),
		WithDBPath(filepath.Join(t.TempDir(), "runs.sqlite3")),
		WithTempDir(t.TempDir()),
		WithSeed(2024),
		WithNullTrials(8),
	}
	svc, err := NewService(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func twoPartNotes() []chord.Note {
	return []chord.Note{
		{Onset: 0.0, Pitch: 60, Part: "A"},
		{Onset: 0.0, Pitch: 64, Part: "A"},
		{Onset: 1.0, Pitch: 67, Part: "A"},
	}
}

func majorTriadChroma() [][]float64 {
	chroma := make([][]float64, 12)
	for pc := range chroma {
		chroma[pc] = make([]float64, 3)
	}
	for _, f := range []int{0, 1} {
		chroma[0][f] = 1.0
		chroma[4][f] = 0.8
		chroma[7][f] = 0.5
	}
	return chroma
}

func TestCompareScenario(t *testing.T) {
	svc := newTestService(t, WithoutStorage())

	res, err := svc.Compare("triad", twoPartNotes(), majorTriadChroma())
	require.NoError(t, err)

	assert.Equal(t, chord.Sequence{{60, 64}, {67}}, res.SymbolicChords)
	assert.Equal(t, chord.Sequence{{0, 4, 7}}, res.AcousticChords)
	assert.Equal(t, 3, res.Symbolic.Nodes)
	assert.Equal(t, 2, res.Symbolic.Edges)
	assert.Equal(t, 3, res.Acoustic.Nodes)
	assert.Zero(t, res.Acoustic.Edges)
	// the acoustic graph has no edges, so its interval vector is zero
	assert.Zero(t, res.Cosine)
	assert.Equal(t, uint64(2024), res.Seed)
	assert.Empty(t, res.RunID)
}

func TestCompareIsDeterministicForSeed(t *testing.T) {
	notes := []chord.Note{
		{Onset: 0, Pitch: 60}, {Onset: 0, Pitch: 64},
		{Onset: 1, Pitch: 62}, {Onset: 1, Pitch: 67},
		{Onset: 2, Pitch: 60}, {Onset: 3, Pitch: 64}, {Onset: 3, Pitch: 65},
		{Onset: 4, Pitch: 62}, {Onset: 5, Pitch: 67}, {Onset: 6, Pitch: 60},
	}
	chroma := majorTriadChroma()

	a, err := newTestService(t, WithoutStorage(), WithWorkers(1)).Compare("x", notes, chroma)
	require.NoError(t, err)
	b, err := newTestService(t, WithoutStorage(), WithWorkers(4)).Compare("x", notes, chroma)
	require.NoError(t, err)

	assert.Equal(t, a.Symbolic.Reciprocity, b.Symbolic.Reciprocity)
	assert.Equal(t, a.Acoustic.Reciprocity, b.Acoustic.Reciprocity)
	assert.Equal(t, a.Cosine, b.Cosine)
}

func TestPitchClassOption(t *testing.T) {
	svc := newTestService(t, WithoutStorage(), WithPitchClasses(true))
	rec, err := svc.AnalyzeNotes(twoPartNotes())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 7}, rec.Graph.Nodes())
}

func TestAnalyzeRejectsMalformedInput(t *testing.T) {
	svc := newTestService(t, WithoutStorage())

	_, err := svc.AnalyzeNotes([]chord.Note{{Pitch: 200}})
	assert.ErrorIs(t, err, chord.ErrInvalidInput)

	_, err = svc.AnalyzeChroma(make([][]float64, 5))
	assert.ErrorIs(t, err, chord.ErrInvalidInput)
}

func TestStorageDisabled(t *testing.T) {
	svc := newTestService(t, WithoutStorage())
	_, err := svc.ListRuns()
	assert.ErrorIs(t, err, ErrStorageDisabled)
	_, err = svc.GetRun("x")
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, svc.DeleteRun("x"), ErrStorageDisabled)
	assert.NoError(t, svc.Close())
}

func TestNewServiceValidatesTrials(t *testing.T) {
	_, err := NewService(WithoutStorage(), WithLogger(quietLogger()), WithNullTrials(0))
	assert.Error(t, err)
}

func writeMIDI(t *testing.T, path string) {
	t.Helper()
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(0, gomidi.NoteOn(0, 64, 100))
	tr.Add(96, gomidi.NoteOff(0, 60))
	tr.Add(0, gomidi.NoteOff(0, 64))
	tr.Add(0, gomidi.NoteOn(0, 67, 100))
	tr.Add(96, gomidi.NoteOff(0, 67))
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(96)
	require.NoError(t, s.Add(tr))
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// writeTones writes A4 then C5 with a continuous phase so the switch adds no click.
func writeTones(t *testing.T, path string) {
	t.Helper()
	const rate = 22050
	data := make([]int, 0, rate)
	phase := 0.0
	for i := 0; i < rate; i++ {
		freq := 440.0
		if i >= rate/2 {
			freq = 523.25
		}
		phase += 2 * math.Pi * freq / rate
		data = append(data, int(0.5*32767*math.Sin(phase)))
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
}

func TestCompareFilesStoresRun(t *testing.T) {
	dir := t.TempDir()
	midiPath := filepath.Join(dir, "piece.mid")
	audioPath := filepath.Join(dir, "piece.wav")
	writeMIDI(t, midiPath)
	writeTones(t, audioPath)

	svc := newTestService(t)
	res, err := svc.CompareFiles(context.Background(), "piece", midiPath, audioPath)
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)

	require.NotEmpty(t, res.AcousticChords)
	assert.Equal(t, chord.Chord{9}, res.AcousticChords[0])
	assert.Equal(t, chord.Chord{0}, res.AcousticChords[len(res.AcousticChords)-1])
	assert.Greater(t, res.Acoustic.Edges, 0)
	assert.False(t, math.IsNaN(res.Cosine))
	assert.GreaterOrEqual(t, res.Cosine, 0.0)
	assert.LessOrEqual(t, res.Cosine, 1.0+1e-9)

	runs, err := svc.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].ID)

	run, err := svc.GetRun(res.RunID)
	require.NoError(t, err)
	assert.Equal(t, "piece.mid", run.MIDIFile)
	assert.Equal(t, "piece.wav", run.AudioFile)
	assert.Equal(t, res.Symbolic.Edges, run.Symbolic.Edges)
	assert.Equal(t, len(res.SymbolicChords), run.Symbolic.Chords)
	assert.InDelta(t, res.Cosine, run.Cosine, 1e-12)

	require.NoError(t, svc.DeleteRun(res.RunID))
	_, err = svc.GetRun(res.RunID)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestAnalyzeMIDIMissingFile(t *testing.T) {
	svc := newTestService(t, WithoutStorage())
	_, err := svc.AnalyzeMIDI(context.Background(), filepath.Join(t.TempDir(), "nope.mid"))
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.AnalyzeMIDI(ctx, "whatever.mid")
	assert.ErrorIs(t, err, context.Canceled)
}
