package icopack

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
)

var errLabel = color.New(color.FgRed, color.Bold).SprintFunc()

// watchDebounce coalesces the bursts of write events editors produce
// when saving a file.
const watchDebounce = 300 * time.Millisecond

// Watch converts src once, then re-converts it whenever it changes,
// until ctx is cancelled. The parent directory is watched rather than
// the file itself: editors that save via rename would otherwise drop
// the watch. After the first pass the overwrite warning is suppressed,
// since the existing output is the tool's own; with stop-on-warning a
// warning aborts the individual run but not the loop.
func (c *Converter) Watch(ctx context.Context, src string) error {
	if err := c.Convert(ctx, src); err != nil {
		return err
	}
	c.quietOverwrite = true
	defer func() { c.quietOverwrite = false }()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(src)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	c.logger.Info("watching for changes", slog.String("path", src))
	fmt.Fprintf(c.stdout, "Watching %s for changes...\n", src)

	abs, err := filepath.Abs(src)
	if err != nil {
		return err
	}

	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != abs {
				continue
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename) {
				debounce.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Error("watch error", slog.String("error", err.Error()))
		case <-debounce.C:
			if err := c.Convert(ctx, src); err != nil {
				fmt.Fprintf(c.stderr, "%s: %v\n", errLabel("Error"), err)
			}
		}
	}
}
