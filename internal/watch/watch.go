// Package watch re-runs a conversion when source files change.
//
// Editors often save by writing a temp file and renaming it over the
// original, so the watcher observes parent directories rather than files
// and matches events by name. Bursts of events are coalesced into one
// callback per quiet period.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is the quiet period before a change is reported.
const DefaultDelay = 200 * time.Millisecond

// ErrNoTargets indicates Run was called before any file or directory was added.
var ErrNoTargets = errors.New("nothing to watch")

// ChangeHandler receives the sorted, de-duplicated paths changed during one
// quiet period. An error is logged and watching continues.
type ChangeHandler func(ctx context.Context, paths []string) error

// Watcher coalesces file system events for a set of files and directories.
type Watcher struct {
	fs     *fsnotify.Watcher
	delay  time.Duration
	logger *slog.Logger
	files  map[string]struct{}
	dirs   map[string]struct{} // every eligible file inside is watched
}

// New creates a Watcher. A non-positive delay selects DefaultDelay.
func New(delay time.Duration, logger *slog.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{
		fs:     fs,
		delay:  delay,
		logger: logger,
		files:  make(map[string]struct{}),
		dirs:   make(map[string]struct{}),
	}, nil
}

// AddFile watches a single file.
func (w *Watcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if err := w.fs.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	w.files[abs] = struct{}{}
	return nil
}

// AddDir watches every eligible file directly inside dir, including files
// created later. See Eligible.
func (w *Watcher) AddDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if err := w.fs.Add(abs); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.dirs[abs] = struct{}{}
	return nil
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run blocks until ctx is done, calling onChange after each quiet period
// that followed at least one relevant change. It returns nil on
// cancellation.
func (w *Watcher) Run(ctx context.Context, onChange ChangeHandler) error {
	if len(w.files) == 0 && len(w.dirs) == 0 {
		return ErrNoTargets
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.delay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			path, relevant := w.relevant(ev)
			if !relevant {
				continue
			}
			pending[path] = struct{}{}
			timer.Reset(w.delay)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)

			w.logger.Debug("change detected", "files", len(paths))
			if err := onChange(ctx, paths); err != nil {
				w.logger.Error("change handler failed", "error", err)
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return "", false
	}
	path := filepath.Clean(ev.Name)
	if _, ok := w.files[path]; ok {
		return path, true
	}
	if _, ok := w.dirs[filepath.Dir(path)]; ok && Eligible(path) {
		return path, true
	}
	return "", false
}

// Eligible reports whether a file found in a watched directory is a markup
// source: not hidden, not an editor backup, not generated HTML.
func Eligible(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."), strings.HasPrefix(base, "#"):
		return false
	case strings.HasSuffix(base, "~"):
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".html", ".htm", ".swp", ".swx", ".tmp":
		return false
	}
	return true
}
