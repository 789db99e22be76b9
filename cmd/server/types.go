//go:build !js && !wasm

package main

import (
	"fmt"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/chord"
	"github.com/himanishpuri/HarmonicDNA/pkg/models"
)

const (
	// MaxNotes caps the note list accepted by the JSON endpoints.
	MaxNotes = 200000

	// MaxChromaFrames caps the chromagram width accepted by the JSON endpoints.
	MaxChromaFrames = 100000
)

// NoteDTO is one note event in a request body.
type NoteDTO struct {
	Onset float64 `json:"onset"`
	Pitch int     `json:"pitch"`
	Part  string  `json:"part,omitempty"`
	Drum  bool    `json:"drum,omitempty"`
}

// AnalyzeNotesRequest is the request body for POST /api/analyze/notes
type AnalyzeNotesRequest struct {
	Notes []NoteDTO `json:"notes"`
}

func (r *AnalyzeNotesRequest) Validate() error {
	return validateNotes(r.Notes)
}

// AnalyzeChromaRequest is the request body for POST /api/analyze/chroma
type AnalyzeChromaRequest struct {
	// Chroma has one row per pitch class and one column per frame.
	Chroma [][]float64 `json:"chroma"`
}

func (r *AnalyzeChromaRequest) Validate() error {
	return validateChroma(r.Chroma)
}

// CompareRequest is the request body for POST /api/compare/raw
type CompareRequest struct {
	Label  string      `json:"label"`
	Notes  []NoteDTO   `json:"notes"`
	Chroma [][]float64 `json:"chroma"`
}

func (r *CompareRequest) Validate() error {
	if r.Label == "" {
		return fmt.Errorf("label is required")
	}
	if err := validateNotes(r.Notes); err != nil {
		return err
	}
	return validateChroma(r.Chroma)
}

func validateNotes(notes []NoteDTO) error {
	if len(notes) > MaxNotes {
		return fmt.Errorf("too many notes: %d (maximum: %d)", len(notes), MaxNotes)
	}
	return nil
}

func validateChroma(chroma [][]float64) error {
	if len(chroma) != chord.PitchClassCount {
		return fmt.Errorf("chroma must have %d rows, got %d", chord.PitchClassCount, len(chroma))
	}
	if len(chroma[0]) > MaxChromaFrames {
		return fmt.Errorf("too many chroma frames: %d (maximum: %d)", len(chroma[0]), MaxChromaFrames)
	}
	return nil
}

func toNotes(dtos []NoteDTO) []chord.Note {
	notes := make([]chord.Note, len(dtos))
	for i, n := range dtos {
		notes[i] = chord.Note{Onset: n.Onset, Pitch: n.Pitch, Part: n.Part, Drum: n.Drum}
	}
	return notes
}

// ListRunsResponse is the response for GET /api/runs
type ListRunsResponse struct {
	Runs  []models.RunSummary `json:"runs"`
	Count int                 `json:"count"`
}

// DeleteRunResponse is the response for DELETE /api/runs/{id}
type DeleteRunResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
