package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Iron-Ham/uploadsim/internal/dropzone"
	"github.com/Iron-Ham/uploadsim/internal/errors"
	"github.com/Iron-Ham/uploadsim/internal/logging"
	"github.com/Iron-Ham/uploadsim/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [files...]",
	Short: "Open the upload dashboard",
	Long: `Open the terminal dashboard, optionally queueing files right away.
Directories are expanded one level. More files can be added from the
dashboard, or dropped into the watched folder when watch.enabled is set.`,
	RunE: runStart,
}

var (
	startLayout string
	startWatch  string
)

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVar(&startLayout, "layout", "", "dashboard layout (list or grid)")
	startCmd.Flags().StringVar(&startWatch, "watch", "", "watch this folder for new files")
}

func runStart(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if len(args) > 0 {
		files, err := selectFiles(args, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		s.registry.AddFiles(files)
	}

	watchDir := ""
	if s.cfg.Watch.Enabled {
		watchDir = s.cfg.Watch.ResolveDir()
	}
	if startWatch != "" {
		watchDir = startWatch
	}

	var watcher *dropzone.Watcher
	if watchDir != "" {
		watcher, err = dropzone.New(watchDir, s.cfg.Watch.Patterns, s.registry, s.logger)
		if err != nil {
			return fmt.Errorf("failed to create drop folder watcher: %w", err)
		}
	}

	opts := tui.OptionsFromConfig(s.cfg.TUI, watchDir)
	if startLayout != "" {
		opts.Layout = startLayout
	}
	app := tui.New(s.registry, opts)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Quitting the dashboard stops the watcher
		defer cancel()
		if err := app.Run(ctx); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	})
	if watcher != nil {
		g.Go(func() error {
			return watchResult(s.logger, watcher.Run(ctx))
		})
	}

	return g.Wait()
}

// watchResult decides whether a watcher exit ends the session. Warnings are
// logged and the dashboard keeps running without the drop folder.
func watchResult(logger *logging.Logger, err error) error {
	if err == nil {
		return nil
	}
	if errors.GetSeverity(err) < errors.SeverityError {
		logger.Warn("drop folder watcher stopped", "error", err.Error())
		return nil
	}
	return fmt.Errorf("drop folder watcher: %w", err)
}
