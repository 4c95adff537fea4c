// pattern: Imperative Shell

package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"devhub/internal/logging"
)

// DefaultDebounce is how long the watcher waits for the filesystem to go quiet
// before reporting a change.
const DefaultDebounce = 300 * time.Millisecond

// Filter decides whether an event is relevant.
type Filter func(event fsnotify.Event) bool

// ChildDirs accepts create/remove/rename events for non-hidden direct children of dir.
func ChildDirs(dir string) Filter {
	dir = filepath.Clean(dir)
	return func(event fsnotify.Event) bool {
		if filepath.Dir(filepath.Clean(event.Name)) != dir {
			return false
		}
		if strings.HasPrefix(filepath.Base(event.Name), ".") {
			return false
		}
		return event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	}
}

// File accepts any write, create, remove or rename of a single file.
func File(path string) Filter {
	path = filepath.Clean(path)
	return func(event fsnotify.Event) bool {
		if filepath.Clean(event.Name) != path {
			return false
		}
		return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
			event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	}
}

// Target is one watched directory and the filter applied to its events.
type Target struct {
	Dir    string
	Filter Filter
}

// Watcher reports debounced filesystem changes for a set of targets.
// The set can be replaced while running, e.g. when the discovery root changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *logging.ScopedLogger

	mu      sync.Mutex
	targets []Target
	closed  bool
}

// New creates a watcher for the given targets.
func New(targets []Target, debounce time.Duration, logger *logging.ScopedLogger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		logger:   logger,
	}
	if err := w.Replace(targets); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Replace swaps the watched targets. Directories that cannot be watched are
// skipped with a warning; the error is returned only when none could be added.
func (w *Watcher) Replace(targets []Target) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("watcher closed")
	}

	for _, old := range w.targets {
		_ = w.fsw.Remove(old.Dir)
	}
	w.targets = nil

	var lastErr error
	for _, t := range targets {
		if err := w.fsw.Add(t.Dir); err != nil {
			w.logger.Warn("cannot watch directory", "dir", t.Dir, "error", err)
			lastErr = err
			continue
		}
		w.targets = append(w.targets, t)
	}

	if len(w.targets) == 0 && lastErr != nil {
		return fmt.Errorf("failed to watch directory: %w", lastErr)
	}
	return nil
}

// relevant reports whether any target's filter accepts the event.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, t := range w.targets {
		if t.Filter == nil || t.Filter(event) {
			return true
		}
	}
	return false
}

// Run delivers one notify call per burst of relevant events.
// It returns when the context is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, notify func()) error {
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = w.Close()
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("filesystem event", "name", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerCh = timer.C

		case <-timerCh:
			timerCh = nil
			notify()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			// Transient watcher errors are not fatal
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// Close stops the watcher and releases resources. Safe to call multiple times.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.fsw.Close()
}
