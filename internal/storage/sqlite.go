package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lan-dot-party/assetstamp/internal/config"
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(cfg config.SQLiteConfig) (*SQLiteStorage, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	return &SQLiteStorage{
		path: cfg.Path,
	}, nil
}

// Init initializes the SQLite database connection and schema.
func (s *SQLiteStorage) Init(ctx context.Context) error {
	// Ensure directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database connection
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Create schema
	if err := s.createSchema(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// createSchema creates the database tables if they don't exist.
func (s *SQLiteStorage) createSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		previous_version TEXT,
		version TEXT NOT NULL,
		mode TEXT,
		root TEXT,
		files_scanned INTEGER,
		files_updated INTEGER,
		duration_ms REAL,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_root_created ON runs(root, created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun saves a run to the database.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *Run) error {
	query := `
	INSERT INTO runs (
		action, previous_version, version, mode, root,
		files_scanned, files_updated, duration_ms, error, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = run.CreatedAt.UTC()

	res, err := s.db.ExecContext(ctx, query,
		run.Action,
		run.PreviousVersion,
		run.Version,
		run.Mode,
		run.Root,
		run.FilesScanned,
		run.FilesUpdated,
		run.DurationMs,
		run.Error,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	run.ID = id

	return nil
}

// GetRun retrieves a single run by ID.
func (s *SQLiteStorage) GetRun(ctx context.Context, id int64) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`

	run, err := scanRun(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// GetRuns retrieves runs based on filter criteria, newest first.
func (s *SQLiteStorage) GetRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE 1=1`
	args := []interface{}{}

	if filter.Root != "" {
		query += " AND root = ?"
		args = append(args, filter.Root)
	}

	if !filter.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.Since.UTC())
	}

	if !filter.Until.IsZero() {
		query += " AND created_at <= ?"
		args = append(args, filter.Until.UTC())
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRuns(rows)
}

// GetLatestRun retrieves the most recent run.
func (s *SQLiteStorage) GetLatestRun(ctx context.Context) (*Run, error) {
	runs, err := s.GetRuns(ctx, RunFilter{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return &runs[0], nil
}

// DeleteOldRuns removes runs older than the specified time.
func (s *SQLiteStorage) DeleteOldRuns(ctx context.Context, olderThan time.Time) (int64, error) {
	query := "DELETE FROM runs WHERE created_at < ?"

	result, err := s.db.ExecContext(ctx, query, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old runs: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return count, nil
}
