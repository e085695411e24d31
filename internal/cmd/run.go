package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/uploadsim/internal/errors"
	"github.com/Iron-Ham/uploadsim/internal/event"
	"github.com/Iron-Ham/uploadsim/internal/upload"
	"github.com/Iron-Ham/uploadsim/internal/util"
)

var runCmd = &cobra.Command{
	Use:   "run <files...>",
	Short: "Upload files without the dashboard",
	Long: `Queue files and follow their simulated uploads on stdout, printing one
line per status change. Exits non-zero when any upload is still failed after
the retry rounds.

Examples:
  # Upload two files
  uploadsim run a.png b.pdf

  # Upload a folder, retrying failures up to three times
  uploadsim run ./photos --retry-failed 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

var (
	runRetryFailed int
	runTimeout     time.Duration
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runRetryFailed, "retry-failed", 0, "retry failed uploads up to N rounds")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "give up after this long (0 waits forever)")
}

func runRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	files, err := selectFiles(args, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runTimeout)
		defer cancel()
	}

	// Handlers run on the registry's update path and only print.
	bus := s.registry.Bus()
	added := bus.Subscribe(event.TypeTaskAdded, func(e event.Event) {
		if ev, ok := e.(event.TaskAddedEvent); ok {
			printTask(out, ev.Task)
		}
	})
	defer bus.Unsubscribe(added)
	changed := bus.Subscribe(event.TypeStatusChanged, func(e event.Event) {
		if ev, ok := e.(event.StatusChangedEvent); ok {
			printTask(out, ev.Task)
		}
	})
	defer bus.Unsubscribe(changed)

	s.registry.AddFiles(files)

	for round := 1; ; round++ {
		if err := s.registry.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for uploads: %w", err)
		}
		summary := upload.Summarize(s.registry.Snapshot().Tasks)
		if summary.Failed == 0 || round > runRetryFailed {
			break
		}
		fmt.Fprintf(out, "retrying %d failed %s (round %d of %d)\n",
			summary.Failed, pluralize(summary.Failed, "upload", "uploads"), round, runRetryFailed)
		s.registry.RetryFailed()
	}

	snap := s.registry.Snapshot()
	summary := upload.Summarize(snap.Tasks)
	fmt.Fprintf(out, "%d completed, %d failed\n", summary.Completed, summary.Failed)

	err = failedTasks(snap)
	if errors.IsRetryable(err) {
		fmt.Fprintf(out, "rerun with --retry-failed %d to retry failed uploads\n", runRetryFailed+1)
	}
	return err
}

// printTask writes "[status] name pct" for one task.
func printTask(out io.Writer, t upload.Task) {
	fmt.Fprintf(out, "[%s] %s %s\n", t.Status, t.File.Name, util.FormatPercent(t.Progress))
}

// failedTasks joins one TaskError per task left in the error state.
func failedTasks(snap upload.Snapshot) error {
	var errs []error
	for _, t := range snap.Tasks {
		if t.Status != upload.StatusError {
			continue
		}
		errs = append(errs, errors.NewTaskError("upload failed", errors.ErrTransferFailed).
			WithTaskID(t.ID).
			WithFile(t.File.Name))
	}
	return errors.Join(errs...)
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
