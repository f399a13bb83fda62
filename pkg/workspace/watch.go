package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned by Next after Close.
var ErrWatcherClosed = errors.New("watcher closed")

// NewFileWatcher reports source files created in one directory. It is
// registered before a move runs so the created file cannot be missed.
type NewFileWatcher struct {
	watcher *fsnotify.Watcher
	dir     string
	ignore  string
	logger  *slog.Logger
}

// WatchNewFiles starts watching dir for files matching NewFilePattern.
// Events for ignore (normally the document being refactored) are skipped.
func WatchNewFiles(dir, ignore string, logger *slog.Logger) (*NewFileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if ignore != "" {
		ignore = filepath.Clean(ignore)
	}
	return &NewFileWatcher{watcher: watcher, dir: dir, ignore: ignore, logger: logger}, nil
}

// Next blocks until a matching file is created and returns its path.
func (w *NewFileWatcher) Next(ctx context.Context) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return "", ErrWatcherClosed
			}
			if !event.Has(fsnotify.Create) || !w.matches(event.Name) {
				continue
			}
			w.logger.Debug("New file created", "file", event.Name)
			return event.Name, nil

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return "", ErrWatcherClosed
			}
			w.logger.Error("File watcher error", "dir", w.dir, "error", err)
		}
	}
}

func (w *NewFileWatcher) matches(path string) bool {
	if filepath.Clean(path) == w.ignore {
		return false
	}
	ok, _ := doublestar.Match(NewFilePattern, filepath.Base(path))
	return ok
}

// Close stops the watcher.
func (w *NewFileWatcher) Close() error {
	return w.watcher.Close()
}
