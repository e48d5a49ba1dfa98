package formatter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// fileStamp identifies a version of a file's content.
type fileStamp struct {
	modTime time.Time
	size    int64
}

// Watcher re-formats matching files under a root when they are created or written.
type Watcher struct {
	formatter *Formatter
	logger    *slog.Logger
	Ready     chan struct{}

	debounce   time.Duration
	newWatcher func() (*fsnotify.Watcher, error)

	// stamps records each file as the formatter left it, so the formatter's
	// own write does not trigger another run.
	stamps map[string]fileStamp
}

// NewWatcher creates a Watcher that formats with f.
func NewWatcher(f *Formatter, logger *slog.Logger) *Watcher {
	return &Watcher{
		formatter:  f,
		logger:     logger.With("component", "watcher"),
		Ready:      make(chan struct{}),
		debounce:   defaultDebounce,
		newWatcher: fsnotify.NewWatcher,
		stamps:     make(map[string]fileStamp),
	}
}

// Watch blocks until ctx is cancelled. When root is a single file, its
// directory is watched and only that file is considered. Pending changes are
// formatted one at a time on the calling goroutine.
func (w *Watcher) Watch(ctx context.Context, root string) error {
	abs, err := w.formatter.resolver.Abs(root)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	watchRoot := abs
	only := ""
	if !info.IsDir() {
		watchRoot = filepath.Dir(abs)
		only = abs
	}

	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if only != "" {
		err = watcher.Add(watchRoot)
	} else {
		err = w.addRecursive(watcher, watchRoot)
	}
	if err != nil {
		return err
	}

	w.logger.Info("Watching for changes", "root", abs)
	if w.Ready != nil {
		close(w.Ready)
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path := w.handleEvent(watcher, event, only)
			if path == "" {
				continue
			}
			pending[path] = struct{}{}
			timer.Reset(w.debounce)
		case <-timer.C:
			if err := w.flush(ctx, pending); err != nil {
				return err
			}
			clear(pending)
		}
	}
}

// handleEvent returns the path to format for a relevant event, or "".
// Newly created directories are added to the watch list.
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event, only string) string {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return ""
	}

	if only != "" {
		if event.Name != only {
			return ""
		}
		return event.Name
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if err := w.addRecursive(watcher, event.Name); err != nil {
				w.logger.Error("Failed to watch new directory", "path", event.Name, "error", err)
			}
			return ""
		}
	}

	if !Matches(filepath.Base(event.Name)) {
		return ""
	}
	return event.Name
}

// flush formats every pending path that changed since the formatter last touched it.
func (w *Watcher) flush(ctx context.Context, pending map[string]struct{}) error {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	for _, path := range paths {
		stamp, ok := stampOf(path)
		if !ok {
			continue
		}
		if prev, seen := w.stamps[path]; seen && prev == stamp {
			w.logger.Debug("skipping unchanged file", "path", path)
			continue
		}

		res, err := w.formatter.FormatFile(ctx, path)
		if err != nil {
			return err
		}
		if !res.Success() {
			w.logger.Debug("formatter exited with non-zero status", "path", path, "status", res.ExitCode)
		}

		if after, ok := stampOf(path); ok {
			w.stamps[path] = after
		}
	}
	return nil
}

func stampOf(path string) (fileStamp, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return fileStamp{}, false
	}
	return fileStamp{modTime: info.ModTime(), size: info.Size()}, true
}

// addRecursive adds root and its subdirectories to the watcher, skipping
// hidden directories such as .git and .xmake below root.
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}
