package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
)

var (
	ErrInvalidWav  = errors.New("invalid wav file")
	ErrUnsupported = errors.New("unsupported wav encoding")
)

// ReadWavAsFloat64 decodes a PCM WAV file into mono samples in [-1, 1] and returns
// them with the sample rate.
func ReadWavAsFloat64(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	return DecodeWav(f)
}

// DecodeWav is ReadWavAsFloat64 for an already opened stream.
func DecodeWav(r io.ReadSeeker) ([]float64, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, ErrInvalidWav
	}
	if dec.WavAudioFormat != 1 {
		return nil, 0, fmt.Errorf("%w: audio format %d, only PCM (1) supported", ErrUnsupported, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read PCM data: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, 0, fmt.Errorf("%w: %d channels", ErrInvalidWav, channels)
	}
	bitDepth := buf.SourceBitDepth
	if bitDepth < 8 || bitDepth > 32 {
		return nil, 0, fmt.Errorf("%w: %d bits per sample", ErrUnsupported, bitDepth)
	}

	scale := float64(int64(1) << (bitDepth - 1))
	// 8-bit PCM is unsigned
	offset := 0.0
	if bitDepth == 8 {
		offset = 128
	}

	frames := len(buf.Data) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += (float64(buf.Data[i*channels+c]) - offset) / scale
		}
		mono[i] = sum / float64(channels)
	}
	return mono, buf.Format.SampleRate, nil
}

// NormalizePeak scales samples so the largest magnitude is 1. Silent input is copied
// unchanged.
func NormalizePeak(samples []float64) []float64 {
	out := make([]float64, len(samples))
	peak := 0.0
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	if peak == 0 {
		copy(out, samples)
		return out
	}
	for i, s := range samples {
		out[i] = s / peak
	}
	return out
}
