package fs

import (
	"context"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

const (
	defaultDebounce    = 200 * time.Millisecond
	defaultMinInterval = time.Second
)

// skipDirs are never watched.
var skipDirs = map[string]bool{
	"node_modules": true,
	"__pycache__":  true,
	"bin":          true,
	"obj":          true,
}

// Watcher reports changes to files matching a set of patterns under a root
// directory. Bursts of events are coalesced, and consecutive reports are at
// least a minimum interval apart.
type Watcher struct {
	root     string
	patterns []string
	debounce time.Duration
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// WatchOption configures a [Watcher].
type WatchOption func(*Watcher)

// WithDebounce sets how long the watcher waits for events to settle.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithMinInterval sets the minimum time between two reports.
func WithMinInterval(d time.Duration) WatchOption {
	return func(w *Watcher) { w.limiter = rate.NewLimiter(rate.Every(d), 1) }
}

// WithLogger sets the logger for watch errors.
func WithLogger(l *slog.Logger) WatchOption {
	return func(w *Watcher) { w.logger = l }
}

// NewWatcher creates a Watcher. Patterns use the same syntax as [Collect].
func NewWatcher(root string, patterns []string, opts ...WatchOption) (*Watcher, error) {
	if err := validate(patterns); err != nil {
		return nil, err
	}
	w := &Watcher{
		root:     root,
		patterns: patterns,
		debounce: defaultDebounce,
		limiter:  rate.NewLimiter(rate.Every(defaultMinInterval), 1),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Run watches until ctx is cancelled, calling onChange with the sorted
// relative paths changed since the previous call. onChange runs on the
// watch goroutine; events arriving meanwhile are reported on the next call.
// Run returns nil when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fs: %w", err)
	}
	defer fw.Close()

	if err := w.addRecursive(fw, w.root); err != nil {
		return err
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				// New directories need their own watch.
				if err := w.addRecursive(fw, ev.Name); err != nil {
					w.logger.Warn("watch new directory", "path", ev.Name, "err", err)
				}
			}
			rel, ok := w.relevant(ev)
			if !ok {
				continue
			}
			pending[rel] = true
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			slices.Sort(paths)
			onChange(paths)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return "", false
	}
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	if !match(w.patterns, filepath.ToSlash(rel)) {
		return "", false
	}
	return rel, true
}

// addRecursive watches dir and its subdirectories, skipping hidden and
// dependency directories. A path that is not a directory is ignored.
func (w *Watcher) addRecursive(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("fs: %w", err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != dir && (skipDirs[name] || strings.HasPrefix(name, ".")) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("fs: watch %s: %w", path, err)
		}
		return nil
	})
}
