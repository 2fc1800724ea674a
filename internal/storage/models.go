package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lan-dot-party/assetstamp/internal/versionstore"
	"github.com/lan-dot-party/assetstamp/internal/walker"
)

// Run represents one assetstamp invocation stored in the database.
type Run struct {
	ID              int64     `json:"id"`
	Action          string    `json:"action"`
	PreviousVersion string    `json:"previous_version"`
	Version         string    `json:"version"`
	Mode            string    `json:"mode"`
	Root            string    `json:"root"`
	FilesScanned    int       `json:"files_scanned"`
	FilesUpdated    int       `json:"files_updated"`
	DurationMs      float64   `json:"duration_ms"`
	Error           string    `json:"error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewRun builds a Run from the version decision and the walk summary.
// summary may be nil when the walk did not start; walkErr is recorded if set.
func NewRun(res versionstore.Resolution, summary *walker.Summary, walkErr error) *Run {
	run := &Run{
		Action:          string(res.Action),
		PreviousVersion: res.Previous,
		Version:         res.Version,
		CreatedAt:       time.Now().UTC(),
	}
	if summary != nil {
		run.Mode = summary.Mode
		run.Root = summary.Root
		run.FilesScanned = summary.Scanned
		run.FilesUpdated = summary.Updated
		run.DurationMs = float64(summary.Duration.Microseconds()) / 1000
	}
	if walkErr != nil {
		run.Error = walkErr.Error()
	}
	return run
}

// IsError returns true if this run failed.
func (r *Run) IsError() bool {
	return r.Error != ""
}

const runColumns = `id, action, previous_version, version, mode, root,
	files_scanned, files_updated, duration_ms, error, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var previous, mode, root, runErr sql.NullString
	err := row.Scan(
		&r.ID,
		&r.Action,
		&previous,
		&r.Version,
		&mode,
		&root,
		&r.FilesScanned,
		&r.FilesUpdated,
		&r.DurationMs,
		&runErr,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.PreviousVersion = previous.String
	r.Mode = mode.String
	r.Root = root.String
	r.Error = runErr.String
	return &r, nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}
