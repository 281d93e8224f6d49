package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"crqa/internal/logging"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 250 * time.Millisecond

// Watch runs an analysis of inputPath immediately and again each time the
// file is written or replaced, calling onReport after every run. A failed
// run is logged and watching continues. It returns when ctx is cancelled.
func (r *Runner) Watch(ctx context.Context, inputPath string, opts Options, onReport func(*Report)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: atomic saves replace the file's inode.
	target := filepath.Clean(inputPath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}
	r.logger.Info("watching input for changes",
		logging.String("path", target),
		logging.String(logging.FieldEventType, "watch_started"),
	)

	run := func() {
		report, err := r.Run(ctx, target, opts)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logging.ErrorWithContext(r.logger, "analysis failed; keeping previous results", "watch_run_failed",
				logging.String("path", target),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "fix the input file and save it again"),
			)
			return
		}
		if onReport != nil {
			onReport(report)
		}
	}
	run()

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(watchDebounce)

		case <-timer.C:
			r.logger.Info("input changed, re-running analysis",
				logging.String("path", target),
				logging.String(logging.FieldEventType, "watch_triggered"),
			)
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Error("watcher error", logging.Error(err))
		}
	}
}
