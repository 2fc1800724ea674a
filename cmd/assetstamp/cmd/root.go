// Package cmd contains all CLI commands for assetstamp.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lan-dot-party/assetstamp/internal/config"
	"github.com/lan-dot-party/assetstamp/internal/logger"
	"github.com/lan-dot-party/assetstamp/pkg/version"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	rootDir string

	// Loaded configuration (available to subcommands)
	cfg *config.Config
)

// rootCmd stamps the asset version into every HTML file below the root directory.
var rootCmd = &cobra.Command{
	Use:   "assetstamp [version]",
	Short: "assetstamp - cache-busting asset versions for static HTML",
	Long: `assetstamp keeps a version number in version.json and rewrites the
HTML files of a site so that their scripts and stylesheets carry it.

  • Static mode  - appends ?v=<version> to .js and .css references
  • Dynamic mode - turns script and stylesheet tags into loadJS/loadCSS
                   calls and moves config.js to the top of <head>

Examples:
  # Re-apply the recorded version
  assetstamp

  # Increment the patch number and apply it
  assetstamp --bump

  # Set an explicit version
  assetstamp 2.0.0 --dir ./public

  # Convert pages to dynamic loading
  assetstamp --dynamic`,
	Version:      version.GetVersion(),
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for certain commands
		if cmd.Name() == "help" {
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" && cmd.Name() == "init" {
			return nil
		}

		// Initialize logger based on verbose flag
		development := logger.IsDevelopment()
		logLevel := "info"
		if verbose {
			logLevel = "debug"
		}
		if err := logger.Init(logLevel, development); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if rootDir != "" {
			cfg.General.Root = rootDir
		}

		// Reinitialize logger with config settings (verbose flag takes precedence)
		finalLogLevel := cfg.General.LogLevel
		if verbose {
			finalLogLevel = "debug"
		}
		if err := logger.Init(finalLogLevel, development); err != nil {
			return fmt.Errorf("failed to reinitialize logger: %w", err)
		}

		return nil
	},
	RunE: runStamp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./assetstamp.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose/debug output")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "",
		"directory containing the HTML files (overrides general.root)")

	// Version template
	rootCmd.SetVersionTemplate(`{{printf "assetstamp %s\n" .Version}}`)
}

// GetConfig returns the loaded configuration.
// Returns nil if config hasn't been loaded yet.
func GetConfig() *config.Config {
	return cfg
}

// SetConfig sets the configuration (useful for testing).
func SetConfig(c *config.Config) {
	cfg = c
}
