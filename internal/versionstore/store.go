// Package versionstore persists the asset version and decides which version a run applies.
package versionstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultVersion is used when no version has been recorded yet.
const DefaultVersion = "1.0.1"

// Record is the on-disk shape of the version file.
type Record struct {
	Version string `json:"version"`
}

// Store reads and writes a single JSON version record.
type Store struct {
	path     string
	fallback string
}

// New creates a Store backed by the file at path.
// An empty fallback means DefaultVersion.
func New(path, fallback string) *Store {
	if fallback == "" {
		fallback = DefaultVersion
	}
	return &Store{
		path:     path,
		fallback: fallback,
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the recorded version.
// A missing file or a record without a version yields the fallback version.
// Malformed JSON is returned as an error.
func (s *Store) Load() (Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{Version: s.fallback}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to read version file %s: %w", s.path, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to parse version file %s: %w", s.path, err)
	}
	if rec.Version == "" {
		rec.Version = s.fallback
	}

	return rec, nil
}

// Save overwrites the version file with the given version.
func (s *Store) Save(version string) error {
	data, err := json.MarshalIndent(Record{Version: version}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal version record: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write version file %s: %w", s.path, err)
	}

	return nil
}
