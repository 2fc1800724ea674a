// Package walker applies a rewriter to every HTML file below a directory.
package walker

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lan-dot-party/assetstamp/internal/rewrite"
)

// DefaultExtension selects the files handed to the rewriter.
const DefaultExtension = ".html"

// Summary describes one walk.
type Summary struct {
	Root     string        `json:"root"`
	Mode     string        `json:"mode"`
	Scanned  int           `json:"scanned"`
	Updated  int           `json:"updated"`
	Files    []string      `json:"files,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Walker visits files sequentially and rewrites them in place.
type Walker struct {
	root      string
	extension string
	rewriter  rewrite.Rewriter
	out       io.Writer
	logger    *zap.Logger
}

// Option customizes a Walker.
type Option func(*Walker)

// WithExtension overrides the file name suffix that selects files.
// Matching is case-sensitive.
func WithExtension(ext string) Option {
	return func(w *Walker) {
		if ext != "" {
			w.extension = ext
		}
	}
}

// New creates a Walker. Report lines are written to out.
func New(root string, r rewrite.Rewriter, out io.Writer, logger *zap.Logger, opts ...Option) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}

	w := &Walker{
		root:      root,
		extension: DefaultExtension,
		rewriter:  r,
		out:       out,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk rewrites every matching file below the root.
// The first I/O error aborts the walk; files already rewritten stay rewritten.
func (w *Walker) Walk(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{
		Root: w.root,
		Mode: w.rewriter.Name(),
	}

	w.logger.Debug("Walking directory",
		zap.String("root", w.root),
		zap.String("mode", w.rewriter.Name()),
		zap.String("extension", w.extension),
	)

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), w.extension) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		summary.Scanned++
		updated, err := rewrite.File(w.rewriter, path)
		if err != nil {
			return err
		}
		if !updated {
			w.logger.Debug("File unchanged", zap.String("path", path))
			return nil
		}

		summary.Updated++
		summary.Files = append(summary.Files, path)
		fmt.Fprintf(w.out, "Updated: %s\n", path)
		return nil
	})
	summary.Duration = time.Since(start)
	if err != nil {
		return summary, fmt.Errorf("walk %s: %w", w.root, err)
	}

	fmt.Fprintf(w.out, "Total files updated: %d\n", summary.Updated)

	w.logger.Debug("Walk completed",
		zap.Int("scanned", summary.Scanned),
		zap.Int("updated", summary.Updated),
		zap.Duration("duration", summary.Duration),
	)

	return summary, nil
}
