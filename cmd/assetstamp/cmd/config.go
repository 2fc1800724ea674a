package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lan-dot-party/assetstamp/internal/config"
)

var configInitOutput string

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Commands for managing assetstamp configuration.`,
}

// configValidateCmd validates the configuration
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Check the configuration file for errors.

Examples:
  assetstamp config validate
  assetstamp config validate --config /path/to/assetstamp.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "✅ Configuration is valid!")
		fmt.Fprintf(out, "   Root: %s\n", cfg.General.Root)
		fmt.Fprintf(out, "   Version file: %s\n", cfg.VersionFilePath())
		fmt.Fprintf(out, "   Mode: %s (files: *%s)\n", cfg.Rewrite.Mode, cfg.Rewrite.Extension)
		fmt.Fprintf(out, "   History: %s\n", cfg.Storage.Type)
		if cfg.Metrics.Textfile != "" {
			fmt.Fprintf(out, "   Metrics: %s\n", cfg.Metrics.Textfile)
		}

		return nil
	},
}

// configShowCmd shows the current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Long: `Display the current configuration with all defaults applied.

Examples:
  assetstamp config show`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "# Current assetstamp Configuration")
		fmt.Fprintln(out, "# (with defaults applied)")
		fmt.Fprintln(out)
		fmt.Fprint(out, string(data))

		return nil
	},
}

// configInitCmd generates an example configuration
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate an example configuration",
	Long: `Generate an example configuration file.

Examples:
  # Print example config to stdout
  assetstamp config init

  # Save example config to a file
  assetstamp config init --output assetstamp.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configInitOutput != "" {
			if err := config.WriteExample(configInitOutput); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", configInitOutput)
			return nil
		}

		data, err := yaml.Marshal(config.Example())
		if err != nil {
			return fmt.Errorf("failed to generate config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "# assetstamp Configuration")
		fmt.Fprintln(out, "# Generated from defaults")
		fmt.Fprintln(out)
		fmt.Fprint(out, string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "",
		"write the example to a file instead of stdout")
}
