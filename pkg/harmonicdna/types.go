package harmonicdna

import (
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/chord"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/metrics"
	"github.com/himanishpuri/HarmonicDNA/pkg/models"
)

// ComparisonResult pairs the symbolic and acoustic records of one piece.
type ComparisonResult struct {
	Label    string          `json:"label"`
	RunID    string          `json:"run_id,omitempty"` // set when the run was stored
	Seed     uint64          `json:"seed"`
	Symbolic *metrics.Record `json:"symbolic"`
	Acoustic *metrics.Record `json:"acoustic"`
	Cosine   float64         `json:"cosine"` // similarity of the interval vectors

	SymbolicChords chord.Sequence `json:"symbolic_chords"`
	AcousticChords chord.Sequence `json:"acoustic_chords"`
}

// Snapshot converts a record into its stored form.
func Snapshot(modality models.Modality, chords int, rec *metrics.Record) models.MetricsSnapshot {
	return models.MetricsSnapshot{
		Modality:      modality,
		Chords:        chords,
		Nodes:         rec.Nodes,
		Edges:         rec.Edges,
		Density:       rec.Density,
		RReal:         rec.Reciprocity.Real,
		RNull:         rec.Reciprocity.Null,
		RhoNorm:       rec.Reciprocity.Rho,
		MeanEntropy:   rec.MeanEntropy,
		EffUnweighted: rec.EffUnweighted,
		EffWeighted:   rec.EffWeighted,
		IntervalVec:   append([]float64(nil), rec.IntervalVec[:]...),
	}
}

// Run builds the stored form of a comparison.
func (r *ComparisonResult) Run(midiFile, audioFile string) models.Run {
	return models.Run{
		ID:        r.RunID,
		Label:     r.Label,
		MIDIFile:  midiFile,
		AudioFile: audioFile,
		Cosine:    r.Cosine,
		Seed:      r.Seed,
		Symbolic:  Snapshot(models.Symbolic, len(r.SymbolicChords), r.Symbolic),
		Acoustic:  Snapshot(models.Acoustic, len(r.AcousticChords), r.Acoustic),
	}
}
