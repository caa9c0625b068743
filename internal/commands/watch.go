package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/fraudlens/internal/logger"
	"github.com/cleared-dev/fraudlens/internal/pipeline"
)

func newWatchCommand(a *app) *cobra.Command {
	var history string

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-run the pipeline whenever the dataset changes",
		Long: "Run the pipeline once, then again each time the dataset file is written.\n" +
			"Runs never overlap; changes made during a run trigger a single follow-up run.\n" +
			"Press Ctrl+C to stop.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := reportOptions{history: history}
			run := func(ctx context.Context, path string) {
				res, err := pipeline.Run(ctx, path, a.cfg)
				log := logger.FromContext(ctx)
				if err != nil {
					log.Error().Err(err).Str("source", path).Msg("run failed")
					return
				}
				fmt.Fprintf(cmd.OutOrStdout(), "── run %s\n", res.RunID)
				if err := a.emitReports(cmd, res, opts); err != nil {
					log.Error().Err(err).Msg("writing reports")
				}
			}
			return watchDataset(cmd.Context(), a.source(args), cmd.ErrOrStderr(), run)
		},
	}

	cmd.Flags().StringVar(&history, "history", "", "append each run's reports to a CSV history file")

	return cmd
}

// watchDataset calls run once and then after every write to path, until ctx
// is done. Events are handled on the calling goroutine, so at most one run is
// in flight; events that queue up during a run are coalesced.
func watchDataset(ctx context.Context, path string, status io.Writer, run func(context.Context, string)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors often replace the file rather than write it.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	log := logger.FromContext(ctx)
	fmt.Fprintf(status, "Watching %s (press Ctrl+C to stop)\n", path)

	run(ctx, path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isDatasetEvent(ev, abs) {
				continue
			}
			log.Debug().Str("op", ev.Op.String()).Msg("dataset changed")
			pending(w.Events, abs)
			for {
				run(ctx, path)
				if ctx.Err() != nil || !pending(w.Events, abs) {
					break
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// isDatasetEvent reports whether ev is a write or (re)creation of target.
func isDatasetEvent(ev fsnotify.Event, target string) bool {
	if filepath.Clean(ev.Name) != target {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

// pending consumes every queued event and reports whether any of them
// touched target.
func pending(events <-chan fsnotify.Event, target string) bool {
	changed := false
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return changed
			}
			if isDatasetEvent(ev, target) {
				changed = true
			}
		default:
			return changed
		}
	}
}
