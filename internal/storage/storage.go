// Package storage records the history of assetstamp runs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lan-dot-party/assetstamp/internal/config"
)

// Storage defines the interface for storing and retrieving runs.
type Storage interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error

	// Runs
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id int64) (*Run, error)
	GetRuns(ctx context.Context, filter RunFilter) ([]Run, error)
	GetLatestRun(ctx context.Context) (*Run, error)

	// Cleanup
	DeleteOldRuns(ctx context.Context, olderThan time.Time) (int64, error)
}

// RunFilter defines criteria for filtering runs.
type RunFilter struct {
	Root   string
	Since  time.Time
	Until  time.Time
	Limit  int
	Offset int
}

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("run not found")

// NewStorage creates a new Storage instance based on the configuration.
func NewStorage(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case config.StorageSQLite:
		return NewSQLiteStorage(cfg.SQLite)
	case config.StoragePostgres:
		return NewPostgresStorage(cfg.Postgres)
	case config.StorageNone:
		return nil, fmt.Errorf("run history is disabled (storage type %q)", cfg.Type)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
