package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/lan-dot-party/assetstamp/internal/storage"
)

var (
	historyRoot      string
	historyLimit     int
	historyJSON      bool
	historySince     string
	historyOlderThan string
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs",
	Long: `Display the runs recorded in the history database.
Requires storage.type to be sqlite or postgres.

Examples:
  # Show recent runs
  assetstamp history

  # Show the last 5 runs as JSON
  assetstamp history --limit 5 --json

  # Show runs from the last 24 hours
  assetstamp history --since 24h`,
	RunE: runHistory,
}

// historyPruneCmd deletes old runs
var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old runs from the history",
	Long: `Delete runs older than the given duration.

Examples:
  assetstamp history prune --older-than 720h`,
	RunE: runHistoryPrune,
}

func openHistory(ctx context.Context) (storage.Storage, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	filter := storage.RunFilter{
		Root:  historyRoot,
		Limit: historyLimit,
	}
	if historySince != "" {
		duration, err := time.ParseDuration(historySince)
		if err != nil {
			return fmt.Errorf("invalid duration format for --since: %w", err)
		}
		filter.Since = time.Now().Add(-duration)
	}

	store, err := openHistory(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.GetRuns(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to get runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs found.")
		return nil
	}

	if historyJSON {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal runs: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	printRunsTable(out, runs)
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	duration, err := time.ParseDuration(historyOlderThan)
	if err != nil {
		return fmt.Errorf("invalid duration format for --older-than: %w", err)
	}

	store, err := openHistory(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	deleted, err := store.DeleteOldRuns(ctx, time.Now().Add(-duration))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d run(s)\n", deleted)
	return nil
}

func printRunsTable(out io.Writer, runs []storage.Run) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"ID", "Time", "Action", "Version", "Mode", "Root", "Updated", "Scanned", "Status"})

	for _, r := range runs {
		status := text.FgGreen.Sprint("ok")
		if r.IsError() {
			status = text.FgRed.Sprint(truncate(r.Error, 40))
		}

		versionCol := r.Version
		if r.Action == "bump" {
			versionCol = fmt.Sprintf("%s → %s", r.PreviousVersion, r.Version)
		}

		t.AppendRow(table.Row{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Action,
			versionCol,
			r.Mode,
			truncate(r.Root, 30),
			r.FilesUpdated,
			r.FilesScanned,
			status,
		})
	}

	t.AppendFooter(table.Row{"", "", "", "", "", "Total", len(runs)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyCmd.Flags().StringVar(&historyRoot, "root", "",
		"only show runs for this root directory")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10,
		"maximum number of runs to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false,
		"output runs as JSON")
	historyCmd.Flags().StringVar(&historySince, "since", "",
		"show runs since duration (e.g., 24h)")

	historyPruneCmd.Flags().StringVar(&historyOlderThan, "older-than", "720h",
		"delete runs older than this duration")
}
