package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/uploadsim/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View uploadsim configuration",
	Long: `View uploadsim configuration.

Without arguments, displays the current configuration.
Use subcommands to create a config file or locate it.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/uploadsim/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configInitForce bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// configHeader is written above the generated defaults.
const configHeader = `# uploadsim configuration
#
# simulation: shape of every simulated transfer (steps, tick timing, failures)
# tui:        dashboard layout (list or grid) and summary overlay
# watch:      drop folder whose new files are queued automatically
# logging:    JSON log file, written to the config directory by default
#
# Every key can be overridden with UPLOADSIM_* environment variables,
# e.g. UPLOADSIM_SIMULATION_FAILURE_RATE=0.5

`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil && !configInitForce {
		return fmt.Errorf("config file already exists at %s\nUse --force to overwrite it", configFile)
	}

	if err := os.MkdirAll(config.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.WriteFile(configFile, append([]byte(configHeader), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", config.ConfigFile())
	fmt.Fprintln(out, "  2. ./config.yaml (current directory)")
	fmt.Fprintln(out, "\nEnvironment variables: UPLOADSIM_* (e.g., UPLOADSIM_SIMULATION_STEPS)")

	return nil
}
