package harmonicdna

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/audio"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/chord"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/graph"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/metrics"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/midi"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/reciprocity"
	"github.com/himanishpuri/HarmonicDNA/pkg/logger"
	"github.com/himanishpuri/HarmonicDNA/pkg/models"
)

// ErrStorageDisabled is returned by run lookups on a service built WithoutStorage.
var ErrStorageDisabled = errors.New("storage is disabled")

// harmonicService is the default implementation of the Service interface.
type harmonicService struct {
	storage Storage
	log     Logger
	config  *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	// Set default logger if none provided
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	if cfg.NullTrials < 1 {
		return nil, fmt.Errorf("null trials must be at least 1, got %d", cfg.NullTrials)
	}

	var stor Storage
	var err error
	switch {
	case cfg.DisableStorage:
	case cfg.Storage != nil:
		stor = cfg.Storage
	default:
		stor, err = NewSQLiteStorage(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
	}

	return &harmonicService{
		storage: stor,
		log:     cfg.Logger,
		config:  cfg,
	}, nil
}

// newRand returns the null-model generator for one analysis and the seed it came from.
func (s *harmonicService) newRand() (*rand.Rand, uint64) {
	seed := s.config.Seed
	if !s.config.seeded {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), seed
}

// analyze runs graph construction and metrics for one chord sequence.
func (s *harmonicService) analyze(modality models.Modality, seq chord.Sequence, rng *rand.Rand) (*metrics.Record, error) {
	g, err := graph.Build(seq)
	if err != nil {
		return nil, fmt.Errorf("%s graph: %w", modality, err)
	}
	s.log.Debugf("%s graph: %d chords, %d nodes, %d edges", modality, len(seq), g.NodeCount(), g.EdgeCount())

	rec, err := metrics.Compute(g, rng,
		reciprocity.WithTrials(s.config.NullTrials),
		reciprocity.WithWorkers(s.config.Workers),
	)
	if err != nil {
		return nil, fmt.Errorf("%s metrics: %w", modality, err)
	}
	return rec, nil
}

func (s *harmonicService) symbolicChords(notes []chord.Note) (chord.Sequence, error) {
	seq, err := chord.FromNotes(notes, s.config.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("symbolic chords: %w", err)
	}
	if s.config.PitchClasses {
		seq = chord.PitchClasses(seq)
	}
	return seq, nil
}

func (s *harmonicService) acousticChords(chroma [][]float64) (chord.Sequence, error) {
	seq, err := chord.FromChroma(chroma, s.config.Threshold)
	if err != nil {
		return nil, fmt.Errorf("acoustic chords: %w", err)
	}
	return seq, nil
}

// AnalyzeNotes computes the symbolic metrics record.
func (s *harmonicService) AnalyzeNotes(notes []chord.Note) (*metrics.Record, error) {
	seq, err := s.symbolicChords(notes)
	if err != nil {
		return nil, err
	}
	rng, _ := s.newRand()
	return s.analyze(models.Symbolic, seq, rng)
}

// AnalyzeChroma computes the acoustic metrics record.
func (s *harmonicService) AnalyzeChroma(chroma [][]float64) (*metrics.Record, error) {
	seq, err := s.acousticChords(chroma)
	if err != nil {
		return nil, err
	}
	rng, _ := s.newRand()
	return s.analyze(models.Acoustic, seq, rng)
}

// Compare analyzes both renderings of a piece with one generator, symbolic first, and
// scores the cosine similarity of their interval vectors.
func (s *harmonicService) Compare(label string, notes []chord.Note, chroma [][]float64) (*ComparisonResult, error) {
	s.log.Infof("Comparing %q: %d notes, %d chroma rows", label, len(notes), len(chroma))

	symSeq, err := s.symbolicChords(notes)
	if err != nil {
		return nil, err
	}
	acSeq, err := s.acousticChords(chroma)
	if err != nil {
		return nil, err
	}

	rng, seed := s.newRand()
	sym, err := s.analyze(models.Symbolic, symSeq, rng)
	if err != nil {
		return nil, err
	}
	ac, err := s.analyze(models.Acoustic, acSeq, rng)
	if err != nil {
		return nil, err
	}

	res := &ComparisonResult{
		Label:          label,
		Seed:           seed,
		Symbolic:       sym,
		Acoustic:       ac,
		Cosine:         metrics.Cosine(sym.IntervalVec, ac.IntervalVec),
		SymbolicChords: symSeq,
		AcousticChords: acSeq,
	}
	s.log.Infof("Compared %q: cosine=%.4f rho(sym)=%.4f rho(ac)=%.4f",
		label, res.Cosine, sym.Reciprocity.Rho, ac.Reciprocity.Rho)
	return res, nil
}

func (s *harmonicService) loadNotes(ctx context.Context, path string) ([]chord.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	notes, err := midi.ReadNotes(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read midi: %w", err)
	}
	s.log.Debugf("Read %d notes from %s", len(notes), filepath.Base(path))
	return notes, nil
}

func (s *harmonicService) loadChroma(ctx context.Context, path string) ([][]float64, error) {
	samples, sampleRate, err := audio.Load(ctx, path, audio.LoadConfig{
		TempDir:    s.config.TempDir,
		SampleRate: s.config.SampleRate,
	})
	if err != nil {
		return nil, err
	}
	chroma, err := audio.Chromagram(samples, sampleRate, audio.ChromaConfig{})
	if err != nil {
		return nil, fmt.Errorf("chroma extraction failed: %w", err)
	}
	s.log.Debugf("Extracted %d chroma frames from %s", len(chroma[0]), filepath.Base(path))
	return chroma, nil
}

// AnalyzeMIDI reads a Standard MIDI File and analyzes it symbolically.
func (s *harmonicService) AnalyzeMIDI(ctx context.Context, path string) (*metrics.Record, error) {
	s.log.Infof("Analyzing MIDI: %s", path)
	notes, err := s.loadNotes(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeNotes(notes)
}

// AnalyzeAudio loads a recording, extracts chroma and analyzes it acoustically.
func (s *harmonicService) AnalyzeAudio(ctx context.Context, path string) (*metrics.Record, error) {
	s.log.Infof("Analyzing audio: %s", path)
	chroma, err := s.loadChroma(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeChroma(chroma)
}

// CompareFiles runs Compare on a MIDI file and a recording of the same piece and stores
// the run when storage is enabled.
func (s *harmonicService) CompareFiles(ctx context.Context, label, midiPath, audioPath string) (*ComparisonResult, error) {
	notes, err := s.loadNotes(ctx, midiPath)
	if err != nil {
		return nil, err
	}
	chroma, err := s.loadChroma(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	res, err := s.Compare(label, notes, chroma)
	if err != nil {
		return nil, err
	}

	if s.storage == nil {
		return res, nil
	}
	id, err := s.storage.StoreRun(res.Run(filepath.Base(midiPath), filepath.Base(audioPath)))
	if err != nil {
		return nil, fmt.Errorf("failed to store run: %w", err)
	}
	res.RunID = id
	s.log.Infof("Stored run ID=%s", id)
	return res, nil
}

func (s *harmonicService) GetRun(id string) (*models.Run, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	return s.storage.GetRun(id)
}

func (s *harmonicService) ListRuns() ([]models.RunSummary, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	return s.storage.ListRuns()
}

func (s *harmonicService) DeleteRun(id string) error {
	if s.storage == nil {
		return ErrStorageDisabled
	}
	if err := s.storage.DeleteRun(id); err != nil {
		return err
	}
	s.log.Infof("Deleted run ID=%s", id)
	return nil
}

func (s *harmonicService) Close() error {
	if s.storage == nil {
		return nil
	}
	return s.storage.Close()
}
