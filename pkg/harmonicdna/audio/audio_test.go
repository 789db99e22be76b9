package audio

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/chord"
)

const testRate = 22050

func sine(freq, seconds, amp float64) []float64 {
	n := int(seconds * testRate)
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/testRate)
	}
	return out
}

func writeWav(t *testing.T, path string, samples []float64, channels int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	data := make([]int, 0, len(samples)*channels)
	for _, s := range samples {
		for c := 0; c < channels; c++ {
			data = append(data, int(s*32767))
		}
	}

	enc := wav.NewEncoder(f, testRate, 16, channels, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: testRate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
}

func TestReadWavAsFloat64(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	src := sine(440, 0.25, 0.5)
	writeWav(t, path, src, 2)

	samples, sr, err := ReadWavAsFloat64(path)
	require.NoError(t, err)
	assert.Equal(t, testRate, sr)
	require.Len(t, samples, len(src))
	for i := 0; i < len(src); i += 97 {
		assert.InDelta(t, src[i], samples[i], 1e-3)
	}
}

func TestReadWavRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not RIFF data"), 0o644))
	_, _, err := ReadWavAsFloat64(path)
	assert.Error(t, err)
}

func TestNormalizePeak(t *testing.T) {
	out := NormalizePeak([]float64{0.1, -0.4, 0.2})
	assert.InDeltaSlice(t, []float64{0.25, -1, 0.5}, out, 1e-12)

	silent := []float64{0, 0, 0}
	assert.Equal(t, silent, NormalizePeak(silent))
	assert.Empty(t, NormalizePeak(nil))
}

func TestChromagramSineLandsOnPitchClass(t *testing.T) {
	// A4
	chroma, err := Chromagram(sine(440, 1, 0.8), testRate, ChromaConfig{})
	require.NoError(t, err)
	require.Len(t, chroma, 12)

	frames := len(chroma[0])
	require.Greater(t, frames, 1)
	for f := 0; f < frames; f++ {
		assert.InDelta(t, 1.0, chroma[9][f], 1e-12, "frame %d", f)
	}

	seq, err := chord.FromChroma(chroma, chord.DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, chord.Sequence{{9}}, seq)
}

func TestChromagramSilenceStaysZero(t *testing.T) {
	chroma, err := Chromagram(make([]float64, WindowSize*2), testRate, ChromaConfig{})
	require.NoError(t, err)
	for pc := range chroma {
		for _, v := range chroma[pc] {
			assert.Zero(t, v)
		}
	}

	seq, err := chord.FromChroma(chroma, chord.DefaultThreshold)
	require.NoError(t, err)
	assert.Empty(t, seq)
}

func TestChromagramShortAndEmptyInput(t *testing.T) {
	chroma, err := Chromagram(sine(440, 0.01, 1), testRate, ChromaConfig{})
	require.NoError(t, err)
	assert.Len(t, chroma[0], 1)

	chroma, err = Chromagram(nil, testRate, ChromaConfig{})
	require.NoError(t, err)
	require.Len(t, chroma, 12)
	assert.Empty(t, chroma[0])
}

func TestChromagramValidation(t *testing.T) {
	_, err := Chromagram([]float64{1}, 0, ChromaConfig{})
	assert.Error(t, err)
	_, err = Chromagram([]float64{1}, testRate, ChromaConfig{MinFreq: 3000, MaxFreq: 100})
	assert.Error(t, err)
}

func TestLoadWavSkipsConversion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.WAV")
	writeWav(t, path, sine(220, 0.1, 0.25), 1)

	samples, sr, err := Load(context.Background(), path, LoadConfig{TempDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, testRate, sr)

	peak := 0.0
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(s))
	}
	assert.InDelta(t, 1.0, peak, 1e-12)
}
