// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package process

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long Watch waits after the last change event before
// rerunning, so that a save written in several steps triggers one run.
const settleDelay = 200 * time.Millisecond

// Watch calls run once, then again each time the file at path is written,
// created or renamed into place. Errors from run are logged and watching
// continues. Watch returns nil when ctx is cancelled.
func Watch(ctx context.Context, path string, logger *slog.Logger, run func(context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	// Editors often replace a file instead of writing it, so watch the
	// directory and filter on the name.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	rerun := func() {
		if err := run(ctx); err != nil {
			logger.Error("watch run failed", "file", target, "error", err)
		}
	}
	rerun()

	timer := time.NewTimer(settleDelay)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			logger.Debug("file changed", "file", target, "op", ev.Op.String())
			timer.Reset(settleDelay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case <-timer.C:
			rerun()
		}
	}
}
