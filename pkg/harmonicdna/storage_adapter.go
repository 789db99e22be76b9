//go:build !js && !wasm
// +build !js,!wasm

package harmonicdna

import (
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/storage"
	"github.com/himanishpuri/HarmonicDNA/pkg/models"
)

// ErrRunNotFound is wrapped by GetRun and DeleteRun for unknown IDs.
var ErrRunNotFound = storage.ErrRunNotFound

// storageAdapter adapts the storage.DBClient to implement the Storage interface.
type storageAdapter struct {
	db *storage.DBClient
}

// NewSQLiteStorage creates a new SQLite storage backend.
func NewSQLiteStorage(dbPath string) (Storage, error) {
	db, err := storage.NewDBClientWithPath(dbPath)
	if err != nil {
		return nil, err
	}
	return &storageAdapter{db: db}, nil
}

func (s *storageAdapter) StoreRun(run models.Run) (string, error) {
	return s.db.StoreRun(run)
}

func (s *storageAdapter) GetRun(id string) (*models.Run, error) {
	return s.db.GetRun(id)
}

func (s *storageAdapter) ListRuns() ([]models.RunSummary, error) {
	return s.db.ListRuns()
}

func (s *storageAdapter) DeleteRun(id string) error {
	return s.db.DeleteRun(id)
}

func (s *storageAdapter) Close() error {
	return s.db.Close()
}
