// Package metrics exports run statistics in the Prometheus text format.
//
// assetstamp is not a long-running process, so instead of serving /metrics the
// collected values are written to a file for the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lan-dot-party/assetstamp/internal/storage"
)

const namespace = "assetstamp"

// Recorder holds the metrics of a single run.
type Recorder struct {
	registry *prometheus.Registry

	filesScanned *prometheus.GaugeVec
	filesUpdated *prometheus.GaugeVec
	runDuration  *prometheus.GaugeVec
	lastRun      *prometheus.GaugeVec
	runSuccess   *prometheus.GaugeVec
	versionInfo  *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry:     prometheus.NewRegistry(),
		filesScanned: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "files_scanned",
				Help:      "Number of HTML files inspected by the last run",
			},
			[]string{"root", "mode"},
		),
		filesUpdated: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "files_updated",
				Help:      "Number of HTML files rewritten by the last run",
			},
			[]string{"root", "mode"},
		),
		runDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of the last directory walk",
			},
			[]string{"root"},
		),
		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix timestamp of the last run",
			},
			[]string{"root"},
		),
		runSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_success",
				Help:      "Whether the last run completed without error (1 = success, 0 = failure)",
			},
			[]string{"root"},
		),
		versionInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "asset_version_info",
				Help:      "Asset version applied by the last run",
			},
			[]string{"root", "version", "action"},
		),
	}

	r.registry.MustRegister(
		r.filesScanned,
		r.filesUpdated,
		r.runDuration,
		r.lastRun,
		r.runSuccess,
		r.versionInfo,
	)

	return r
}

// Observe records a finished run.
func (r *Recorder) Observe(run *storage.Run) {
	r.filesScanned.WithLabelValues(run.Root, run.Mode).Set(float64(run.FilesScanned))
	r.filesUpdated.WithLabelValues(run.Root, run.Mode).Set(float64(run.FilesUpdated))
	r.runDuration.WithLabelValues(run.Root).Set(run.DurationMs / 1000)
	r.versionInfo.WithLabelValues(run.Root, run.Version, run.Action).Set(1)

	ts := run.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	r.lastRun.WithLabelValues(run.Root).Set(float64(ts.Unix()))

	success := 1.0
	if run.IsError() {
		success = 0
	}
	r.runSuccess.WithLabelValues(run.Root).Set(success)
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all recorded metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
