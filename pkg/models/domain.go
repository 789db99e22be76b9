package models

import "time"

// Modality names which rendering of a piece a snapshot was computed from.
type Modality string

const (
	Symbolic Modality = "symbolic"
	Acoustic Modality = "acoustic"
)

// MetricsSnapshot is the stored form of one metrics record.
type MetricsSnapshot struct {
	Modality      Modality  `json:"modality"`
	Chords        int       `json:"n_chords"`
	Nodes         int       `json:"n_nodes"`
	Edges         int       `json:"n_edges"`
	Density       float64   `json:"density"`
	RReal         float64   `json:"r_real"`
	RNull         float64   `json:"r_null"`
	RhoNorm       float64   `json:"rho_norm"`
	MeanEntropy   float64   `json:"mean_entropy"`
	EffUnweighted float64   `json:"eff_unweighted"`
	EffWeighted   float64   `json:"eff_weighted"`
	IntervalVec   []float64 `json:"interval_vec"`
}

// Run is one persisted symbolic/acoustic comparison.
type Run struct {
	ID        string          `json:"id"`         // UUID
	Label     string          `json:"label"`      // piece name
	MIDIFile  string          `json:"midi_file"`  // base name of the symbolic source
	AudioFile string          `json:"audio_file"` // base name of the acoustic source
	Cosine    float64         `json:"cosine"`     // interval-vector similarity
	Seed      uint64          `json:"seed"`
	Symbolic  MetricsSnapshot `json:"symbolic"`
	Acoustic  MetricsSnapshot `json:"acoustic"`
	CreatedAt time.Time       `json:"created_at"`
}

// RunSummary is the listing view of a Run.
type RunSummary struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Cosine    float64   `json:"cosine"`
	CreatedAt time.Time `json:"created_at"`
}
