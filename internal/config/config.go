// Package config provides configuration structures and loading for assetstamp.
package config

import "path/filepath"

// Config is the main configuration structure for assetstamp.
type Config struct {
	General GeneralConfig `yaml:"general"`
	Rewrite RewriteConfig `yaml:"rewrite"`
	Storage StorageConfig `yaml:"storage"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	// LogLevel sets the logging verbosity: debug, info, warn, error
	LogLevel string `yaml:"log_level"`
	// Root is the directory whose HTML files are rewritten
	Root string `yaml:"root"`
	// VersionFile is the JSON version record, relative to Root unless absolute
	VersionFile string `yaml:"version_file"`
	// DefaultVersion is used when no version has been recorded yet
	DefaultVersion string `yaml:"default_version"`
}

// RewriteConfig controls how HTML files are rewritten.
type RewriteConfig struct {
	// Mode is static (?v= query) or dynamic (loader calls)
	Mode string `yaml:"mode"`
	// Extension selects the files to rewrite (case-sensitive)
	Extension string `yaml:"extension"`
	// ConfigScript is the script that must be present for dynamic mode
	ConfigScript string `yaml:"config_script"`
	// JSLoader and CSSLoader are the page functions called in dynamic mode
	JSLoader  string `yaml:"js_loader"`
	CSSLoader string `yaml:"css_loader"`
}

// StorageConfig defines where run history is recorded.
type StorageConfig struct {
	// Type is the storage backend: none, sqlite or postgres
	Type     string         `yaml:"type"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig contains SQLite-specific settings.
type SQLiteConfig struct {
	// Path is the file path for the SQLite database
	Path string `yaml:"path"`
}

// PostgresConfig contains PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
}

// MetricsConfig controls the Prometheus textfile written after each run.
type MetricsConfig struct {
	// Textfile is the output path; empty disables metrics
	Textfile string `yaml:"textfile"`
}

// VersionFilePath returns the absolute or root-relative path of the version record.
func (c *Config) VersionFilePath() string {
	if filepath.IsAbs(c.General.VersionFile) {
		return c.General.VersionFile
	}
	return filepath.Join(c.General.Root, c.General.VersionFile)
}

// HistoryEnabled reports whether runs are recorded.
func (c *Config) HistoryEnabled() bool {
	return c.Storage.Type != StorageNone
}
