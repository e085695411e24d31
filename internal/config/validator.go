package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "simulation.steps")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Limits for simulation timing
const (
	maxSteps          = 1000
	maxTickIntervalMs = 60_000
)

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSimulation()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateWatch()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateSimulation validates the SimulationConfig
func (c *Config) validateSimulation() []ValidationError {
	var errors []ValidationError
	s := c.Simulation

	if s.Steps <= 0 {
		errors = append(errors, ValidationError{
			Field:   "simulation.steps",
			Value:   s.Steps,
			Message: "must be positive",
		})
	} else if s.Steps > maxSteps {
		errors = append(errors, ValidationError{
			Field:   "simulation.steps",
			Value:   s.Steps,
			Message: fmt.Sprintf("exceeds maximum of %d", maxSteps),
		})
	}

	if s.TickIntervalMs <= 0 || s.TickIntervalMs > maxTickIntervalMs {
		errors = append(errors, ValidationError{
			Field:   "simulation.tick_interval_ms",
			Value:   s.TickIntervalMs,
			Message: fmt.Sprintf("must be between 1 and %d", maxTickIntervalMs),
		})
	}

	if s.TickJitterMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "simulation.tick_jitter_ms",
			Value:   s.TickJitterMs,
			Message: "must be non-negative",
		})
	}

	if s.FailureRate < 0 || s.FailureRate > 1 {
		errors = append(errors, ValidationError{
			Field:   "simulation.failure_rate",
			Value:   s.FailureRate,
			Message: "must be between 0 and 1",
		})
	}

	if s.MinFailStep < 0 {
		errors = append(errors, ValidationError{
			Field:   "simulation.min_fail_step",
			Value:   s.MinFailStep,
			Message: "must be non-negative",
		})
	} else if s.FailureRate > 0 && s.Steps > 0 && s.MinFailStep >= s.Steps {
		errors = append(errors, ValidationError{
			Field:   "simulation.min_fail_step",
			Value:   s.MinFailStep,
			Message: fmt.Sprintf("must be less than simulation.steps (%d) when failures are enabled", s.Steps),
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLayouts(), c.TUI.Layout) {
		errors = append(errors, ValidationError{
			Field:   "tui.layout",
			Value:   c.TUI.Layout,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLayouts(), ", ")),
		})
	}

	const minCellWidth, maxCellWidth = 16, 120
	if c.TUI.GridMinCellWidth < minCellWidth || c.TUI.GridMinCellWidth > maxCellWidth {
		errors = append(errors, ValidationError{
			Field:   "tui.grid_min_cell_width",
			Value:   c.TUI.GridMinCellWidth,
			Message: fmt.Sprintf("must be between %d and %d", minCellWidth, maxCellWidth),
		})
	}

	return errors
}

// validateWatch validates the WatchConfig
func (c *Config) validateWatch() []ValidationError {
	var errors []ValidationError

	if c.Watch.Enabled && strings.TrimSpace(c.Watch.Dir) == "" {
		errors = append(errors, ValidationError{
			Field:   "watch.dir",
			Value:   c.Watch.Dir,
			Message: "is required when watch.enabled is true",
		})
	}

	for i, pattern := range c.Watch.Patterns {
		if _, err := glob.Compile(pattern); err != nil {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("watch.patterns[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("is not a valid glob pattern: %v", err),
			})
		}
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
