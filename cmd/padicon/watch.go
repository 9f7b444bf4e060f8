package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long the watcher waits for the writes to settle before reacting.
const debounce = 250 * time.Millisecond

// watchFile calls fn every time the file found at path changes, until ctx is done.
// The parent directory is watched, so that the editors replacing the file on save are handled.
// Bursts of events closer than delay trigger a single call.
func watchFile(ctx context.Context, path string, delay time.Duration, fn func()) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create the watcher: %w", err)
	}
	defer fsw.Close()

	path = filepath.Clean(path)
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("could not watch %s: %w", path, err)
	}

	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(delay)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		case <-timer.C:
			fn()
		}
	}
}
