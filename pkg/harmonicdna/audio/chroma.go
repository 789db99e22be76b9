// Package audio loads recordings and turns them into chroma frames.
package audio

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	WindowSize = 4096
	HopSize    = 1024

	// MinFreq and MaxFreq bound the spectrum folded into chroma.
	MinFreq = 65.0
	MaxFreq = 2100.0
)

// ChromaConfig controls Chromagram. Zero fields take the package defaults.
type ChromaConfig struct {
	WindowSize int
	HopSize    int
	MinFreq    float64
	MaxFreq    float64
}

func (c ChromaConfig) withDefaults() ChromaConfig {
	if c.WindowSize == 0 {
		c.WindowSize = WindowSize
	}
	if c.HopSize == 0 {
		c.HopSize = HopSize
	}
	if c.MinFreq == 0 {
		c.MinFreq = MinFreq
	}
	if c.MaxFreq == 0 {
		c.MaxFreq = MaxFreq
	}
	return c
}

func freqToMIDI(freq float64) float64 {
	return 12*math.Log2(freq/440.0) + 69
}

// Chromagram computes a 12 x T chroma matrix (chroma[pc][t], pc 0 = C). Each frame is a
// Hann-windowed FFT whose bin magnitudes between MinFreq and MaxFreq are summed into
// the nearest pitch class, then scaled so the frame maximum is 1. Silent frames stay
// zero. Input shorter than one window is zero-padded to a single frame.
func Chromagram(samples []float64, sampleRate int, cfg ChromaConfig) ([][]float64, error) {
	cfg = cfg.withDefaults()
	if sampleRate <= 0 {
		return nil, errors.New("sample rate must be positive")
	}
	if cfg.WindowSize < 2 || cfg.HopSize < 1 {
		return nil, errors.New("window size must be at least 2 and hop size at least 1")
	}
	if cfg.MinFreq >= cfg.MaxFreq {
		return nil, errors.New("min frequency must be below max frequency")
	}

	chroma := make([][]float64, 12)
	if len(samples) == 0 {
		for pc := range chroma {
			chroma[pc] = []float64{}
		}
		return chroma, nil
	}

	if len(samples) < cfg.WindowSize {
		padded := make([]float64, cfg.WindowSize)
		copy(padded, samples)
		samples = padded
	}

	bins := binClasses(sampleRate, cfg)
	frames := 1 + (len(samples)-cfg.WindowSize)/cfg.HopSize
	for pc := range chroma {
		chroma[pc] = make([]float64, frames)
	}

	frame := make([]float64, cfg.WindowSize)
	for t := 0; t < frames; t++ {
		start := t * cfg.HopSize
		copy(frame, samples[start:start+cfg.WindowSize])
		window.Apply(frame, window.Hann)
		spec := fft.FFTReal(frame)

		peak := 0.0
		for bin, pc := range bins {
			if pc < 0 {
				continue
			}
			chroma[pc][t] += cmplx.Abs(spec[bin])
		}
		for pc := range chroma {
			peak = math.Max(peak, chroma[pc][t])
		}
		if peak > 0 {
			for pc := range chroma {
				chroma[pc][t] /= peak
			}
		}
	}
	return chroma, nil
}

// binClasses maps each FFT bin up to Nyquist to its pitch class, or -1 outside the band.
func binClasses(sampleRate int, cfg ChromaConfig) []int {
	bins := make([]int, cfg.WindowSize/2+1)
	for bin := range bins {
		freq := float64(bin) * float64(sampleRate) / float64(cfg.WindowSize)
		if freq < cfg.MinFreq || freq > cfg.MaxFreq {
			bins[bin] = -1
			continue
		}
		note := int(math.Round(freqToMIDI(freq))) % 12
		if note < 0 {
			note += 12
		}
		bins[bin] = note
	}
	return bins
}
