//go:build !js && !wasm

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/audio"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/chord"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/graph"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/midi"
	"github.com/himanishpuri/HarmonicDNA/pkg/logger"
	"github.com/himanishpuri/HarmonicDNA/pkg/utils"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service harmonicdna.Service
	config  *ServerConfig
	log     harmonicdna.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	DBPath         string
	TempDir        string
	SampleRate     int
	AllowedOrigins []string
}

// NewServer creates a new server instance
func NewServer(service harmonicdna.Service, config *ServerConfig) *Server {
	return &Server{
		service: service,
		config:  config,
		log:     logger.GetLogger(),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, harmonicdna.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, harmonicdna.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, chord.ErrInvalidInput),
		errors.Is(err, graph.ErrInvalidSequence),
		errors.Is(err, midi.ErrParse),
		errors.Is(err, audio.ErrInvalidWav),
		errors.Is(err, audio.ErrUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"service": "HarmonicDNA API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":        "GET /health",
			"analyzeNotes":  "POST /api/analyze/notes",
			"analyzeChroma": "POST /api/analyze/chroma",
			"compareFiles":  "POST /api/compare",
			"compareRaw":    "POST /api/compare/raw",
			"listRuns":      "GET /api/runs",
			"getRun":        "GET /api/runs/{id}",
			"deleteRun":     "DELETE /api/runs/{id}",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{ Validate() error }) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.log.Warnf("Failed to decode request: %v", err)
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := v.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleAnalyzeNotes handles POST /api/analyze/notes
func (s *Server) handleAnalyzeNotes(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeNotesRequest
	if !s.decode(w, r, &req) {
		return
	}

	rec, err := s.service.AnalyzeNotes(toNotes(req.Notes))
	if err != nil {
		s.log.Errorf("Failed to analyze notes: %v", err)
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

// handleAnalyzeChroma handles POST /api/analyze/chroma
func (s *Server) handleAnalyzeChroma(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeChromaRequest
	if !s.decode(w, r, &req) {
		return
	}

	rec, err := s.service.AnalyzeChroma(req.Chroma)
	if err != nil {
		s.log.Errorf("Failed to analyze chroma: %v", err)
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

// handleCompareRaw handles POST /api/compare/raw
func (s *Server) handleCompareRaw(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.service.Compare(req.Label, toNotes(req.Notes), req.Chroma)
	if err != nil {
		s.log.Errorf("Failed to compare %q: %v", req.Label, err)
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

// handleCompareFiles handles POST /api/compare (multipart midi + audio upload)
func (s *Server) handleCompareFiles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	// Parse multipart form (max 100MB)
	if err := r.ParseMultipartForm(100 << 20); err != nil {
		s.log.Errorf("Failed to parse form: %v", err)
		s.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	uploadDir, err := utils.MakeTempDir(s.config.TempDir, "upload_")
	if err != nil {
		s.log.Errorf("Failed to create upload dir: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to process upload")
		return
	}
	defer utils.DeleteDir(uploadDir)

	paths := make(map[string]string, 2)
	var names []string
	for _, field := range []string{"midi", "audio"} {
		file, header, err := r.FormFile(field)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("%s file is required", field))
			return
		}
		path, err := utils.SaveFile(uploadDir, field+"_"+filepath.Base(header.Filename), file)
		file.Close()
		if err != nil {
			s.log.Errorf("Failed to save %s upload: %v", field, err)
			s.respondError(w, http.StatusInternalServerError, "Failed to save uploaded file")
			return
		}
		paths[field] = path
		names = append(names, header.Filename)
	}

	label := r.FormValue("label")
	if label == "" {
		label = strings.TrimSuffix(filepath.Base(names[0]), filepath.Ext(names[0]))
	}

	s.log.Infof("Comparing uploaded files %v as %q", names, label)
	res, err := s.service.CompareFiles(ctx, label, paths["midi"], paths["audio"])
	if err != nil {
		s.log.Errorf("Failed to compare files: %v", err)
		s.respondError(w, statusFor(err), fmt.Sprintf("Failed to compare: %v", err))
		return
	}

	status := http.StatusOK
	if res.RunID != "" {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, res)
}

// handleListRuns handles GET /api/runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.ListRuns()
	if err != nil {
		s.log.Errorf("Failed to list runs: %v", err)
		s.respondError(w, statusFor(err), "Failed to retrieve runs")
		return
	}

	s.respondJSON(w, http.StatusOK, ListRunsResponse{
		Runs:  runs,
		Count: len(runs),
	})
}

// handleGetRun handles GET /api/runs/{id}
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	run, err := s.service.GetRun(id)
	if err != nil {
		s.log.Warnf("Run lookup failed for %s: %v", id, err)
		s.respondError(w, statusFor(err), fmt.Sprintf("Run %s not available", id))
		return
	}
	s.respondJSON(w, http.StatusOK, run)
}

// handleDeleteRun handles DELETE /api/runs/{id}
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.service.DeleteRun(id); err != nil {
		s.log.Warnf("Failed to delete run %s: %v", id, err)
		s.respondError(w, statusFor(err), fmt.Sprintf("Failed to delete run %s", id))
		return
	}

	s.respondJSON(w, http.StatusOK, DeleteRunResponse{
		Message: "Run deleted successfully",
		ID:      id,
	})
}
