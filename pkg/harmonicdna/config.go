package harmonicdna

import (
	"os"
	"runtime"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/chord"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/reciprocity"
)

type Config struct {
	DBPath     string
	TempDir    string
	SampleRate int

	Tolerance    float64
	Threshold    float64
	NullTrials   int
	Workers      int
	PitchClasses bool

	Seed   uint64
	seeded bool

	Logger         Logger
	Storage        Storage
	DisableStorage bool
}

type Option func(*Config)

func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

func WithTempDir(dir string) Option {
	return func(c *Config) {
		c.TempDir = dir
	}
}

func WithSampleRate(rate int) Option {
	return func(c *Config) {
		c.SampleRate = rate
	}
}

// WithTolerance sets the onset window, in seconds, for symbolic chords.
func WithTolerance(seconds float64) Option {
	return func(c *Config) {
		c.Tolerance = seconds
	}
}

// WithThreshold sets the relative chroma activation level.
func WithThreshold(threshold float64) Option {
	return func(c *Config) {
		c.Threshold = threshold
	}
}

func WithNullTrials(n int) Option {
	return func(c *Config) {
		c.NullTrials = n
	}
}

func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithPitchClasses folds symbolic chords onto pitch classes before the graph is built,
// so both modalities share the 0-11 label space.
func WithPitchClasses(enabled bool) Option {
	return func(c *Config) {
		c.PitchClasses = enabled
	}
}

// WithSeed fixes the null-model seed. Without it every analysis draws a fresh seed.
func WithSeed(seed uint64) Option {
	return func(c *Config) {
		c.Seed = seed
		c.seeded = true
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithStorage(storage Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

// WithoutStorage runs the service without a database; run lookups fail with
// ErrStorageDisabled.
func WithoutStorage() Option {
	return func(c *Config) {
		c.DisableStorage = true
	}
}

func defaultConfig() *Config {
	return &Config{
		DBPath:     "harmonicdna.sqlite3",
		TempDir:    os.TempDir(),
		SampleRate: 22050,
		Tolerance:  chord.DefaultTolerance,
		Threshold:  chord.DefaultThreshold,
		NullTrials: reciprocity.DefaultTrials,
		Workers:    runtime.NumCPU(),
		Logger:     nil,
	}
}
