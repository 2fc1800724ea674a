package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lan-dot-party/assetstamp/internal/config"
	"github.com/lan-dot-party/assetstamp/internal/logger"
	"github.com/lan-dot-party/assetstamp/internal/metrics"
	"github.com/lan-dot-party/assetstamp/internal/rewrite"
	"github.com/lan-dot-party/assetstamp/internal/storage"
	"github.com/lan-dot-party/assetstamp/internal/versionstore"
	"github.com/lan-dot-party/assetstamp/internal/walker"
)

var (
	stampBump    bool
	stampDynamic bool
)

func runStamp(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	out := cmd.OutOrStdout()

	// Decide the version for this run
	intent := versionstore.Intent{Bump: stampBump}
	if len(args) > 0 {
		intent.Explicit = args[0]
	}
	store := versionstore.New(cfg.VersionFilePath(), cfg.General.DefaultVersion)
	res, err := versionstore.NewResolver(store).Resolve(intent)
	if err != nil {
		return fmt.Errorf("failed to resolve version: %w", err)
	}
	fmt.Fprintln(out, res.Message())
	logger.Debug("Version resolved",
		zap.String("action", string(res.Action)),
		zap.String("previous", res.Previous),
		zap.String("version", res.Version),
		zap.String("version_file", store.Path()),
	)

	rw, err := newRewriter(cfg, res.Version)
	if err != nil {
		return err
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals; files already rewritten stay rewritten
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Info("Received interrupt, stopping after the current file...")
			cancel()
		case <-ctx.Done():
		}
	}()

	w := walker.New(cfg.General.Root, rw, out, logger.Named("walker"),
		walker.WithExtension(cfg.Rewrite.Extension),
	)
	summary, walkErr := w.Walk(ctx)

	run := storage.NewRun(res, summary, walkErr)
	recordRun(cfg, run)
	writeMetrics(cfg, run)

	if walkErr != nil {
		logger.Error("Walk aborted",
			zap.String("root", cfg.General.Root),
			zap.Int("updated", summary.Updated),
			zap.Error(walkErr),
		)
		return walkErr
	}
	return nil
}

// newRewriter builds the rewriter for the configured mode; --dynamic wins.
func newRewriter(cfg *config.Config, version string) (rewrite.Rewriter, error) {
	modeName := cfg.Rewrite.Mode
	if stampDynamic {
		modeName = string(rewrite.ModeDynamic)
	}
	mode, err := rewrite.ParseMode(modeName)
	if err != nil {
		return nil, err
	}

	return rewrite.New(mode, version, rewrite.DynamicOptions{
		ConfigScript: cfg.Rewrite.ConfigScript,
		JSLoader:     cfg.Rewrite.JSLoader,
		CSSLoader:    cfg.Rewrite.CSSLoader,
	})
}

// recordRun stores the run in the history database when one is configured.
// History problems never fail the run itself.
func recordRun(cfg *config.Config, run *storage.Run) {
	if !cfg.HistoryEnabled() {
		return
	}

	ctx := context.Background()
	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		logger.Warn("Failed to create storage", zap.Error(err))
		return
	}
	if err := store.Init(ctx); err != nil {
		logger.Warn("Failed to initialize storage", zap.Error(err))
		return
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveRun(ctx, run); err != nil {
		logger.Warn("Failed to save run", zap.Error(err))
		return
	}
	logger.Debug("Run saved", zap.Int64("id", run.ID))
}

func writeMetrics(cfg *config.Config, run *storage.Run) {
	if cfg.Metrics.Textfile == "" {
		return
	}

	rec := metrics.NewRecorder()
	rec.Observe(run)
	if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logger.Warn("Failed to write metrics", zap.Error(err))
	}
}

func init() {
	rootCmd.Flags().BoolVar(&stampBump, "bump", false,
		"increment the last version component before rewriting")
	rootCmd.Flags().BoolVar(&stampDynamic, "dynamic", false,
		"convert asset tags into loader calls instead of adding ?v=")
}
