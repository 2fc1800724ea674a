package versionstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Action describes how the effective version of a run was chosen.
type Action string

const (
	ActionBump  Action = "bump"
	ActionSet   Action = "set"
	ActionReuse Action = "reuse"
)

// Intent is what the command line asked for.
type Intent struct {
	// Bump increments the stored version. It wins over Explicit.
	Bump bool
	// Explicit is a version to set verbatim.
	Explicit string
}

// Resolution is the outcome of resolving an Intent.
type Resolution struct {
	Action   Action `json:"action"`
	Previous string `json:"previous"`
	Version  string `json:"version"`
}

// Message returns the human-readable line describing the decision.
func (r Resolution) Message() string {
	switch r.Action {
	case ActionBump:
		return fmt.Sprintf("Bumping version: %s -> %s", r.Previous, r.Version)
	case ActionSet:
		return fmt.Sprintf("Setting version to: %s", r.Version)
	default:
		return fmt.Sprintf("Using current version: %s", r.Version)
	}
}

// Changed reports whether the run wrote a new version record.
func (r Resolution) Changed() bool {
	return r.Action != ActionReuse
}

// Resolver determines the effective version for a run.
type Resolver struct {
	store *Store
}

// NewResolver creates a Resolver on top of store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve loads the current version and applies the intent,
// persisting the result when it bumps or sets a version.
func (r *Resolver) Resolve(intent Intent) (Resolution, error) {
	current, err := r.store.Load()
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{
		Action:   ActionReuse,
		Previous: current.Version,
		Version:  current.Version,
	}

	switch {
	case intent.Bump:
		next, err := Bump(current.Version)
		if err != nil {
			return Resolution{}, err
		}
		res.Action = ActionBump
		res.Version = next
	case intent.Explicit != "":
		res.Action = ActionSet
		res.Version = intent.Explicit
	default:
		return res, nil
	}

	if err := r.store.Save(res.Version); err != nil {
		return Resolution{}, err
	}

	return res, nil
}

// Bump increments the last component of a three-part version.
// Versions with any other number of parts get ".1" appended instead.
func Bump(version string) (string, error) {
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return version + ".1", nil
	}

	last, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", fmt.Errorf("failed to bump version %q: %w", version, err)
	}
	parts[2] = strconv.Itoa(last + 1)

	return strings.Join(parts, "."), nil
}
