package versionstore

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoadMissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "version.json"), "")

	rec, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion, rec.Version)
}

func TestStoreLoadMissingField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"other": "x"}`), 0644))

	rec, err := New(path, "").Load()
	require.NoError(t, err)
	assert.Equal(t, "1.0.1", rec.Version)
}

func TestStoreLoadCustomFallback(t *testing.T) {
	rec, err := New(filepath.Join(t.TempDir(), "version.json"), "0.0.1").Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.1", rec.Version)
}

func TestStoreLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": `), 0644))

	_, err := New(path, "").Load()
	assert.Error(t, err)
}

func TestStoreSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version.json")
	store := New(path, "")

	require.NoError(t, store.Save("3.2.1"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"version\": \"3.2.1\"\n}", string(data))

	rec, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "3.2.1", rec.Version)
}

func TestBump(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.0.1", "1.0.2"},
		{"1.0.9", "1.0.10"},
		{"0.0.0", "0.0.1"},
		{"2.1", "2.1.1"},
		{"abc", "abc.1"},
		{"1.2.3.4", "1.2.3.4.1"},
		{"", ".1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Bump(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBumpNonNumeric(t *testing.T) {
	_, err := Bump("1.3.x")
	require.Error(t, err)

	var numErr *strconv.NumError
	assert.ErrorAs(t, err, &numErr)
}

func TestResolverReuse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version.json")
	res, err := NewResolver(New(path, "")).Resolve(Intent{})
	require.NoError(t, err)

	assert.Equal(t, ActionReuse, res.Action)
	assert.Equal(t, "1.0.1", res.Version)
	assert.False(t, res.Changed())
	assert.Equal(t, "Using current version: 1.0.1", res.Message())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "reuse must not write the version file")
}

func TestResolverBump(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "version.json"), "")
	require.NoError(t, store.Save("1.4.9"))

	res, err := NewResolver(store).Resolve(Intent{Bump: true, Explicit: "9.9.9"})
	require.NoError(t, err)
	assert.Equal(t, ActionBump, res.Action)
	assert.Equal(t, "1.4.10", res.Version)
	assert.Equal(t, "Bumping version: 1.4.9 -> 1.4.10", res.Message())

	rec, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "1.4.10", rec.Version)
}

func TestResolverBumpFailureLeavesRecord(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "version.json"), "")
	require.NoError(t, store.Save("1.3.x"))

	_, err := NewResolver(store).Resolve(Intent{Bump: true})
	require.Error(t, err)

	rec, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "1.3.x", rec.Version)
}

func TestResolverSet(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "version.json"), "")

	res, err := NewResolver(store).Resolve(Intent{Explicit: "release-7"})
	require.NoError(t, err)
	assert.Equal(t, ActionSet, res.Action)
	assert.Equal(t, "release-7", res.Version)
	assert.Equal(t, "Setting version to: release-7", res.Message())

	rec, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "release-7", rec.Version)
}
