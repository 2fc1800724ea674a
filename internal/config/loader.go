package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read by the loader.
const (
	EnvConfig = "ASSETSTAMP_CONFIG"
	EnvRoot   = "ASSETSTAMP_ROOT"
)

// DefaultConfigPaths defines the search order for configuration files.
var DefaultConfigPaths = []string{
	"./assetstamp.yaml",
	"./assetstamp.yml",
	"./.assetstamp.yaml",
	"./.assetstamp.yml",
}

// Load reads and parses a configuration file from the given path.
// If path is empty, ASSETSTAMP_CONFIG and then DefaultConfigPaths are tried;
// when none of them exists the defaults are used.
func Load(path string) (*Config, error) {
	configPath, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	ApplyEnv(cfg)

	// Apply defaults for missing values
	ApplyDefaults(cfg)

	// Validate the configuration
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// resolveConfigPath determines which config file to use.
// Priority: explicit path > ASSETSTAMP_CONFIG env > default paths.
// An empty result means no file was found and defaults apply.
func resolveConfigPath(path string) (string, error) {
	// 1. Explicit path provided
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file not found: %s", path)
		}
		return path, nil
	}

	// 2. Environment variable
	if envPath := os.Getenv(EnvConfig); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("config file from %s not found: %s", EnvConfig, envPath)
		}
		return envPath, nil
	}

	// 3. Search default paths
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", nil
}

// ApplyEnv overrides configuration values from the environment.
func ApplyEnv(cfg *Config) {
	if root := os.Getenv(EnvRoot); root != "" {
		cfg.General.Root = root
	}
}

// Validate checks the configuration for errors.
func Validate(cfg *Config) error {
	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.General.LogLevel] {
		return fmt.Errorf("invalid log_level: %q (must be debug, info, warn, or error)", cfg.General.LogLevel)
	}

	if cfg.General.VersionFile == "" {
		return fmt.Errorf("version_file is required")
	}

	// Validate rewrite settings
	validModes := map[string]bool{
		"static":  true,
		"dynamic": true,
	}
	if !validModes[cfg.Rewrite.Mode] {
		return fmt.Errorf("invalid rewrite mode: %q (must be static or dynamic)", cfg.Rewrite.Mode)
	}
	if !strings.HasPrefix(cfg.Rewrite.Extension, ".") {
		return fmt.Errorf("invalid rewrite extension: %q (must start with a dot)", cfg.Rewrite.Extension)
	}
	if !strings.HasSuffix(cfg.Rewrite.ConfigScript, ".js") {
		return fmt.Errorf("invalid config_script: %q (must be a .js file)", cfg.Rewrite.ConfigScript)
	}
	for name, fn := range map[string]string{"js_loader": cfg.Rewrite.JSLoader, "css_loader": cfg.Rewrite.CSSLoader} {
		if strings.ContainsAny(fn, "\"'()<> \t\n") {
			return fmt.Errorf("invalid %s: %q", name, fn)
		}
	}

	// Validate storage type
	validStorageTypes := map[string]bool{
		StorageNone:     true,
		StorageSQLite:   true,
		StoragePostgres: true,
	}
	if !validStorageTypes[cfg.Storage.Type] {
		return fmt.Errorf("invalid storage type: %q (must be none, sqlite or postgres)", cfg.Storage.Type)
	}

	// Validate SQLite path if using SQLite
	if cfg.Storage.Type == StorageSQLite && cfg.Storage.SQLite.Path == "" {
		return fmt.Errorf("sqlite path is required when storage type is sqlite")
	}

	// Validate PostgreSQL config if using PostgreSQL
	if cfg.Storage.Type == StoragePostgres {
		if cfg.Storage.Postgres.Host == "" {
			return fmt.Errorf("postgres host is required when storage type is postgres")
		}
		if cfg.Storage.Postgres.Database == "" {
			return fmt.Errorf("postgres database is required when storage type is postgres")
		}
	}

	return nil
}

// WriteExample writes an example configuration to the given path.
func WriteExample(path string) error {
	data, err := yaml.Marshal(Example())
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write example config: %w", err)
	}

	return nil
}

// Example returns the defaults with history and metrics switched on,
// as a starting point for a project configuration.
func Example() *Config {
	cfg := NewDefault()
	cfg.General.Root = "./public"
	cfg.Storage.Type = StorageSQLite
	cfg.Metrics.Textfile = "./.assetstamp/assetstamp.prom"
	return cfg
}
