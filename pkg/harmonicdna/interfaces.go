package harmonicdna

import (
	"context"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/chord"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/metrics"
	"github.com/himanishpuri/HarmonicDNA/pkg/models"
)

type Service interface {
	AnalyzeNotes(notes []chord.Note) (*metrics.Record, error)
	AnalyzeChroma(chroma [][]float64) (*metrics.Record, error)
	Compare(label string, notes []chord.Note, chroma [][]float64) (*ComparisonResult, error)
	AnalyzeMIDI(ctx context.Context, path string) (*metrics.Record, error)
	AnalyzeAudio(ctx context.Context, path string) (*metrics.Record, error)
	CompareFiles(ctx context.Context, label, midiPath, audioPath string) (*ComparisonResult, error)
	GetRun(id string) (*models.Run, error)
	ListRuns() ([]models.RunSummary, error)
	DeleteRun(id string) error
	Close() error
}

type Storage interface {
	StoreRun(run models.Run) (string, error)
	GetRun(id string) (*models.Run, error)
	ListRuns() ([]models.RunSummary, error)
	DeleteRun(id string) error
	Close() error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
