//go:build !js && !wasm
// +build !js,!wasm

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	customlogger "github.com/himanishpuri/HarmonicDNA/pkg/logger"
	"github.com/himanishpuri/HarmonicDNA/pkg/models"
)

const DefaultDBFile = "harmonicdna.sqlite3"
const errDBClientNil = "db client is nil"

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

type Run struct {
	ID        string       `gorm:"primaryKey;type:varchar(36)"`
	Label     string       `gorm:"index:idx_run_label" json:"label"`
	MIDIFile  string       `json:"midi_file"`
	AudioFile string       `json:"audio_file"`
	Cosine    float64      `json:"cosine"`
	Seed      int64        `json:"seed"` // bit pattern of the uint64 seed
	Metrics   []RunMetrics `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time    `gorm:"index:idx_run_created"`
}

// RunMetrics holds one modality's metrics for a run.
type RunMetrics struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	RunID         string    `gorm:"type:varchar(36);uniqueIndex:idx_run_modality,priority:1" json:"run_id"`
	Modality      string    `gorm:"uniqueIndex:idx_run_modality,priority:2" json:"modality"`
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
	IntervalVec   []float64 `gorm:"serializer:json" json:"interval_vec"`
}

func NewDBClient() (*DBClient, error) {
	dbPath := os.Getenv("HARMONIC_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	return NewDBClientWithPath(dbPath)
}

func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !os.IsExist(err) {
		if filepath.Dir(dbPath) != "." {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_pragma=foreign_keys(1)"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Run{}, &RunMetrics{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// StoreRun persists run with both snapshots and returns its ID. A fresh UUID is
// assigned when run.ID is empty.
func (c *DBClient) StoreRun(run models.Run) (string, error) {
	if c == nil || c.DB == nil {
		return "", errors.New(errDBClientNil)
	}

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	row := Run{
		ID:        run.ID,
		Label:     run.Label,
		MIDIFile:  run.MIDIFile,
		AudioFile: run.AudioFile,
		Cosine:    run.Cosine,
		Seed:      int64(run.Seed),
		CreatedAt: run.CreatedAt,
		Metrics: []RunMetrics{
			toRow(run.ID, models.Symbolic, run.Symbolic),
			toRow(run.ID, models.Acoustic, run.Acoustic),
		},
	}

	err := c.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		return "", fmt.Errorf("creating run: %w", err)
	}
	return run.ID, nil
}

func (c *DBClient) GetRun(id string) (*models.Run, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}

	var row Run
	err := c.DB.Preload("Metrics").Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}

	run := &models.Run{
		ID:        row.ID,
		Label:     row.Label,
		MIDIFile:  row.MIDIFile,
		AudioFile: row.AudioFile,
		Cosine:    row.Cosine,
		Seed:      uint64(row.Seed),
		CreatedAt: row.CreatedAt,
	}
	for _, m := range row.Metrics {
		switch models.Modality(m.Modality) {
		case models.Symbolic:
			run.Symbolic = fromRow(m)
		case models.Acoustic:
			run.Acoustic = fromRow(m)
		default:
			customlogger.GetLogger().Warnf("run %s has metrics for unknown modality %q", row.ID, m.Modality)
		}
	}
	return run, nil
}

// ListRuns returns every run, newest first.
func (c *DBClient) ListRuns() ([]models.RunSummary, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}

	var rows []Run
	if err := c.DB.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	out := make([]models.RunSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.RunSummary{
			ID:        r.ID,
			Label:     r.Label,
			Cosine:    r.Cosine,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

func (c *DBClient) DeleteRun(id string) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	return c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", id).Delete(&RunMetrics{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&Run{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil
	})
}

func toRow(runID string, modality models.Modality, s models.MetricsSnapshot) RunMetrics {
	return RunMetrics{
		RunID:         runID,
		Modality:      string(modality),
		Chords:        s.Chords,
		Nodes:         s.Nodes,
		Edges:         s.Edges,
		Density:       s.Density,
		RReal:         s.RReal,
		RNull:         s.RNull,
		RhoNorm:       s.RhoNorm,
		MeanEntropy:   s.MeanEntropy,
		EffUnweighted: s.EffUnweighted,
		EffWeighted:   s.EffWeighted,
		IntervalVec:   s.IntervalVec,
	}
}

func fromRow(m RunMetrics) models.MetricsSnapshot {
	return models.MetricsSnapshot{
		Modality:      models.Modality(m.Modality),
		Chords:        m.Chords,
		Nodes:         m.Nodes,
		Edges:         m.Edges,
		Density:       m.Density,
		RReal:         m.RReal,
		RNull:         m.RNull,
		RhoNorm:       m.RhoNorm,
		MeanEntropy:   m.MeanEntropy,
		EffUnweighted: m.EffUnweighted,
		EffWeighted:   m.EffWeighted,
		IntervalVec:   m.IntervalVec,
	}
}

// MustNewDBClient opens the default database or panics.
func MustNewDBClient() *DBClient {
	cli, err := NewDBClient()
	if err != nil {
		customlogger.GetLogger().Errorf("failed to open DB: %v", err)
		panic(err)
	}
	return cli
}
