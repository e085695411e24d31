package cmd

import (
	"fmt"
	"io"

	"github.com/Iron-Ham/uploadsim/internal/config"
	"github.com/Iron-Ham/uploadsim/internal/logging"
	"github.com/Iron-Ham/uploadsim/internal/picker"
	"github.com/Iron-Ham/uploadsim/internal/registry"
	"github.com/Iron-Ham/uploadsim/internal/simulator"
	"github.com/Iron-Ham/uploadsim/internal/upload"
)

// session bundles the pieces shared by the start and run commands.
type session struct {
	cfg      *config.Config
	logger   *logging.Logger
	sim      *simulator.Transfer
	registry *registry.Registry
}

// newSession loads the configuration and wires the simulator and registry.
func newSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err = logging.NewLogger(cfg.Logging.ResolveDir(), cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	simOpts := []simulator.Option{simulator.WithLogger(logger)}
	if cfg.Simulation.Seed != 0 {
		simOpts = append(simOpts, simulator.WithSeed(cfg.Simulation.Seed))
	}
	sim := simulator.New(cfg.Simulation.SimulatorConfig(), simOpts...)

	return &session{
		cfg:      cfg,
		logger:   logger,
		sim:      sim,
		registry: registry.New(sim, registry.WithLogger(logger)),
	}, nil
}

// Close stops every simulation and flushes the log.
func (s *session) Close() {
	s.registry.Close()
	s.sim.Wait()
	_ = s.logger.Close()
}

// selectFiles turns command-line paths into descriptors. Unreadable paths are
// reported on errOut and skipped.
func selectFiles(paths []string, errOut io.Writer) ([]upload.File, error) {
	expanded, err := picker.Expand(paths)
	if err != nil {
		return nil, err
	}
	files, err := picker.FromPaths(expanded)
	if err != nil && len(files) == 0 {
		return nil, err
	}
	if err != nil {
		fmt.Fprintf(errOut, "warning: %v\n", err)
	}
	return files, nil
}
