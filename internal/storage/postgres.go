package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lan-dot-party/assetstamp/internal/config"
)

// PostgresStorage implements the Storage interface using PostgreSQL.
type PostgresStorage struct {
	db  *sql.DB
	cfg config.PostgresConfig
}

// NewPostgresStorage creates a new PostgreSQL storage instance.
func NewPostgresStorage(cfg config.PostgresConfig) (*PostgresStorage, error) {
	return &PostgresStorage{
		cfg: cfg,
	}, nil
}

// buildDSN creates the PostgreSQL connection string.
func (s *PostgresStorage) buildDSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s sslmode=%s",
		s.cfg.Host,
		s.cfg.Port,
		s.cfg.Database,
		s.cfg.User,
		s.cfg.SSLMode,
	)

	if s.cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", s.cfg.Password)
	}

	return dsn
}

// Init initializes the PostgreSQL database connection and schema.
func (s *PostgresStorage) Init(ctx context.Context) error {
	// Open database connection using pgx stdlib driver
	db, err := sql.Open("pgx", s.buildDSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// A CLI run needs a single connection
	s.db.SetMaxOpenConns(2)
	s.db.SetConnMaxLifetime(time.Minute)

	// Test connection
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create schema
	if err := s.createSchema(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// createSchema creates the database tables if they don't exist.
func (s *PostgresStorage) createSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id BIGSERIAL PRIMARY KEY,
		action TEXT NOT NULL,
		previous_version TEXT,
		version TEXT NOT NULL,
		mode TEXT,
		root TEXT,
		files_scanned INTEGER,
		files_updated INTEGER,
		duration_ms DOUBLE PRECISION,
		error TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_root_created ON runs(root, created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *PostgresStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun saves a run to the database.
func (s *PostgresStorage) SaveRun(ctx context.Context, run *Run) error {
	query := `
	INSERT INTO runs (
		action, previous_version, version, mode, root,
		files_scanned, files_updated, duration_ms, error, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id
	`

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	err := s.db.QueryRowContext(ctx, query,
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
	).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// GetRun retrieves a single run by ID.
func (s *PostgresStorage) GetRun(ctx context.Context, id int64) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = $1`

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
func (s *PostgresStorage) GetRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.Root != "" {
		query += fmt.Sprintf(" AND root = $%d", argNum)
		args = append(args, filter.Root)
		argNum++
	}

	if !filter.Since.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argNum)
		args = append(args, filter.Since)
		argNum++
	}

	if !filter.Until.IsZero() {
		query += fmt.Sprintf(" AND created_at <= $%d", argNum)
		args = append(args, filter.Until)
		argNum++
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
		argNum++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
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
func (s *PostgresStorage) GetLatestRun(ctx context.Context) (*Run, error) {
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
func (s *PostgresStorage) DeleteOldRuns(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE created_at < $1", olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old runs: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return count, nil
}
