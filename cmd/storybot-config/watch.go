package main

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watch re-runs check every time envFile is written, created or replaced.
// It returns the exit code of the last check once ctx is done.
func (c *checker) watch(ctx context.Context, envFile string, last int) int {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		c.logger.WithError(err).Error("Failed to create watcher")
		return 1
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of writing it.
	target := filepath.Clean(envFile)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		c.logger.WithError(err).Error("Failed to setup watcher")
		return 1
	}
	c.logger.WithField("env_file", target).Info("Watching env file for changes")

	for {
		select {
		case <-ctx.Done():
			return last
		case event, ok := <-watcher.Events:
			if !ok {
				return last
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			c.logger.WithField("op", event.Op.String()).Info("Env file changed, re-validating")
			last = c.check(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return last
			}
			c.logger.WithError(err).Warn("Watcher error")
		}
	}
}
