package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/uploadsim/internal/simulator"
)

// Config represents the complete uploadsim configuration
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
	TUI        TUIConfig        `mapstructure:"tui" yaml:"tui"`
	Watch      WatchConfig      `mapstructure:"watch" yaml:"watch"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
}

// SimulationConfig shapes every simulated transfer
type SimulationConfig struct {
	// Steps is the number of progress ticks in a successful transfer (default: 20)
	Steps int `mapstructure:"steps" yaml:"steps"`
	// TickIntervalMs is the base delay between ticks in milliseconds (default: 150)
	TickIntervalMs int `mapstructure:"tick_interval_ms" yaml:"tick_interval_ms"`
	// TickJitterMs is the maximum random delay added to each tick (default: 50)
	TickJitterMs int `mapstructure:"tick_jitter_ms" yaml:"tick_jitter_ms"`
	// FailureRate is the probability in [0, 1] that a transfer fails (default: 0.2)
	FailureRate float64 `mapstructure:"failure_rate" yaml:"failure_rate"`
	// MinFailStep is the last step that never fails, so some progress is
	// always visible before an error (default: 5)
	MinFailStep int `mapstructure:"min_fail_step" yaml:"min_fail_step"`
	// Seed makes runs reproducible when non-zero (default: 0, random)
	Seed uint64 `mapstructure:"seed" yaml:"seed"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// Layout is the initial task layout
	// Options: "list", "grid"
	Layout string `mapstructure:"layout" yaml:"layout"`
	// ShowSummary shows the summary overlay on startup
	ShowSummary bool `mapstructure:"show_summary" yaml:"show_summary"`
	// GridMinCellWidth is the narrowest grid cell in columns; the number of
	// grid columns is derived from it and the terminal width (default: 28)
	GridMinCellWidth int `mapstructure:"grid_min_cell_width" yaml:"grid_min_cell_width"`
}

// WatchConfig controls the drop folder
type WatchConfig struct {
	// Enabled starts watching Dir alongside the TUI
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Dir is the folder files are dropped into
	Dir string `mapstructure:"dir" yaml:"dir"`
	// Patterns are glob patterns a dropped file name must match; empty accepts all
	Patterns []string `mapstructure:"patterns" yaml:"patterns"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is active (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the minimum log level to record
	// Options: "debug", "info", "warn", "error"
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is where uploadsim.log is written (default: the config directory)
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Valid layout values
const (
	LayoutList = "list"
	LayoutGrid = "grid"
)

// Default returns a Config with sensible default values
func Default() *Config {
	sim := simulator.DefaultConfig()
	return &Config{
		Simulation: SimulationConfig{
			Steps:          sim.Steps,
			TickIntervalMs: int(sim.TickInterval / time.Millisecond),
			TickJitterMs:   int(sim.TickJitter / time.Millisecond),
			FailureRate:    sim.FailureRate,
			MinFailStep:    sim.MinFailStep,
		},
		TUI: TUIConfig{
			Layout:           LayoutList,
			ShowSummary:      true,
			GridMinCellWidth: 28,
		},
		Watch: WatchConfig{
			Enabled:  false,
			Dir:      "",
			Patterns: []string{},
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "",
		},
	}
}

// SimulatorConfig converts the simulation settings for the transfer simulator
func (c *SimulationConfig) SimulatorConfig() simulator.Config {
	return simulator.Config{
		Steps:        c.Steps,
		TickInterval: time.Duration(c.TickIntervalMs) * time.Millisecond,
		TickJitter:   time.Duration(c.TickJitterMs) * time.Millisecond,
		FailureRate:  c.FailureRate,
		MinFailStep:  c.MinFailStep,
	}
}

// ResolveDir returns the log directory, falling back to the config directory
func (c *LoggingConfig) ResolveDir() string {
	if c.Dir != "" {
		return expandHome(c.Dir)
	}
	return ConfigDir()
}

// ResolveDir returns the watched directory with ~ expanded
func (c *WatchConfig) ResolveDir() string {
	return expandHome(c.Dir)
}

func expandHome(path string) string {
	if path == "~" || (len(path) > 1 && path[:2] == "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Simulation defaults
	viper.SetDefault("simulation.steps", defaults.Simulation.Steps)
	viper.SetDefault("simulation.tick_interval_ms", defaults.Simulation.TickIntervalMs)
	viper.SetDefault("simulation.tick_jitter_ms", defaults.Simulation.TickJitterMs)
	viper.SetDefault("simulation.failure_rate", defaults.Simulation.FailureRate)
	viper.SetDefault("simulation.min_fail_step", defaults.Simulation.MinFailStep)
	viper.SetDefault("simulation.seed", defaults.Simulation.Seed)

	// TUI defaults
	viper.SetDefault("tui.layout", defaults.TUI.Layout)
	viper.SetDefault("tui.show_summary", defaults.TUI.ShowSummary)
	viper.SetDefault("tui.grid_min_cell_width", defaults.TUI.GridMinCellWidth)

	// Watch defaults
	viper.SetDefault("watch.enabled", defaults.Watch.Enabled)
	viper.SetDefault("watch.dir", defaults.Watch.Dir)
	viper.SetDefault("watch.patterns", defaults.Watch.Patterns)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "uploadsim")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".uploadsim"
	}
	return filepath.Join(home, ".config", "uploadsim")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidLayouts returns the list of valid TUI layouts
func ValidLayouts() []string {
	return []string{LayoutList, LayoutGrid}
}
