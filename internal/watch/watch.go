// Package watch re-runs a handler when pack source files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const DefaultDebounce = 250 * time.Millisecond

// Handler is called once per settled change to path.
type Handler func(ctx context.Context, path string) error

type Options struct {
	Debounce time.Duration
	Logger   *zap.Logger
}

// Watcher follows a fixed set of files. Parent directories are watched
// rather than the files themselves so editors that save by rename are
// still seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	logger   *zap.Logger
}

func New(paths []string, options Options) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := options.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{fs: fsw, files: make(map[string]struct{}), debounce: debounce, logger: logger}
	dirs := make(map[string]struct{})
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolving %s: %w", path, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return w, nil
}

// Files returns the watched files in sorted order.
func (w *Watcher) Files() []string {
	out := make([]string, 0, len(w.files))
	for path := range w.files {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Run blocks until ctx is done, calling handle for each file once its
// events have been quiet for the debounce interval. Handler errors are
// logged and do not stop the loop. The watcher is closed on return.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	defer w.fs.Close()

	pending := make(map[string]time.Time)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if _, tracked := w.files[filepath.Clean(event.Name)]; !tracked {
				continue
			}
			pending[filepath.Clean(event.Name)] = time.Now().Add(w.debounce)
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))

		case <-timer.C:
			if next := w.flush(ctx, pending, handle); next > 0 {
				timer.Reset(next)
			}
		}
	}
}

// flush runs every due path and returns the wait until the next one.
func (w *Watcher) flush(ctx context.Context, pending map[string]time.Time, handle Handler) time.Duration {
	now := time.Now()
	due := make([]string, 0, len(pending))
	var next time.Duration
	for path, at := range pending {
		if !at.After(now) {
			due = append(due, path)
			continue
		}
		if wait := at.Sub(now); next == 0 || wait < next {
			next = wait
		}
	}
	sort.Strings(due)

	for _, path := range due {
		delete(pending, path)
		if err := handle(ctx, path); err != nil {
			w.logger.Warn("handling file change", zap.String("path", path), zap.Error(err))
		}
	}
	return next
}
