package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lan-dot-party/assetstamp/internal/config"
	"github.com/lan-dot-party/assetstamp/internal/versionstore"
	"github.com/lan-dot-party/assetstamp/internal/walker"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(config.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "db", "history.db"),
	})
	require.NoError(t, err)
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteSaveAndGetRun(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	run := NewRun(
		versionstore.Resolution{Action: versionstore.ActionBump, Previous: "1.0.1", Version: "1.0.2"},
		&walker.Summary{Root: "/srv/site", Mode: "static", Scanned: 3, Updated: 2, Duration: 1500 * time.Microsecond},
		nil,
	)
	require.NoError(t, s.SaveRun(ctx, run))
	require.NotZero(t, run.ID)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "bump", got.Action)
	assert.Equal(t, "1.0.1", got.PreviousVersion)
	assert.Equal(t, "1.0.2", got.Version)
	assert.Equal(t, "static", got.Mode)
	assert.Equal(t, "/srv/site", got.Root)
	assert.Equal(t, 3, got.FilesScanned)
	assert.Equal(t, 2, got.FilesUpdated)
	assert.InDelta(t, 1.5, got.DurationMs, 0.001)
	assert.False(t, got.IsError())
	assert.WithinDuration(t, run.CreatedAt, got.CreatedAt, time.Second)
}

func TestSQLiteGetRunNotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetRun(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetLatestRun(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteGetRunsFilter(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	for i, root := range []string{"a", "b", "a", "a"} {
		run := &Run{
			Action:    "reuse",
			Version:   "1.0.1",
			Root:      root,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.SaveRun(ctx, run))
	}

	all, err := s.GetRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.True(t, all[0].CreatedAt.After(all[3].CreatedAt), "runs are returned newest first")

	onlyA, err := s.GetRuns(ctx, RunFilter{Root: "a", Limit: 2})
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	for _, r := range onlyA {
		assert.Equal(t, "a", r.Root)
	}

	offset, err := s.GetRuns(ctx, RunFilter{Offset: 3})
	require.NoError(t, err)
	assert.Len(t, offset, 1)

	latest, err := s.GetLatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, all[0].ID, latest.ID)
}

func TestSQLiteRecordsErrors(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	run := NewRun(versionstore.Resolution{Action: versionstore.ActionReuse, Version: "1.0.1"}, nil, errors.New("permission denied"))
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, got.IsError())
	assert.Equal(t, "permission denied", got.Error)
}

func TestSQLiteDeleteOldRuns(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, &Run{Action: "set", Version: "0.1.0", CreatedAt: time.Now().Add(-48 * time.Hour)}))
	require.NoError(t, s.SaveRun(ctx, &Run{Action: "set", Version: "0.2.0"}))

	deleted, err := s.DeleteOldRuns(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	runs, err := s.GetRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "0.2.0", runs[0].Version)
}

func TestNewStorage(t *testing.T) {
	_, err := NewStorage(config.StorageConfig{Type: config.StorageNone})
	assert.Error(t, err)

	_, err = NewStorage(config.StorageConfig{Type: "redis"})
	assert.Error(t, err)

	st, err := NewStorage(config.StorageConfig{Type: config.StorageSQLite, SQLite: config.SQLiteConfig{Path: "x.db"}})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStorage{}, st)

	st, err = NewStorage(config.StorageConfig{Type: config.StoragePostgres})
	require.NoError(t, err)
	assert.IsType(t, &PostgresStorage{}, st)
}

func TestPostgresDSN(t *testing.T) {
	s, err := NewPostgresStorage(config.PostgresConfig{
		Host: "db", Port: 5432, Database: "assets", User: "stamp", SSLMode: "disable", Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 dbname=assets user=stamp sslmode=disable password=pw", s.buildDSN())
}
