// Package rewrite turns asset references in HTML files into versioned or dynamically loaded ones.
//
// Matching is purely textual. Tags spanning lines, tags with extra attributes
// and uppercase tag names are not recognised and are left as they are.
package rewrite

import (
	"fmt"
	"os"
	"strings"
)

// Mode selects the rewriter applied to every file of a run.
type Mode string

const (
	ModeStatic  Mode = "static"
	ModeDynamic Mode = "dynamic"
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeStatic:
		return ModeStatic, nil
	case ModeDynamic:
		return ModeDynamic, nil
	default:
		return "", fmt.Errorf("unknown rewrite mode: %q (must be static or dynamic)", s)
	}
}

// Rewriter transforms the contents of one HTML file.
type Rewriter interface {
	Name() string
	Rewrite(content string) string
}

// New creates the rewriter for mode.
func New(mode Mode, version string, opts DynamicOptions) (Rewriter, error) {
	switch mode {
	case ModeStatic:
		return NewStatic(version), nil
	case ModeDynamic:
		return NewDynamic(opts), nil
	default:
		return nil, fmt.Errorf("unknown rewrite mode: %q", mode)
	}
}

// File rewrites the file at path in place.
// It reports whether the content changed; unchanged files are not written.
func File(r Rewriter, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	content := string(data)
	updated := r.Rewrite(content)
	if updated == content {
		return false, nil
	}

	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return true, nil
}
