// Package watch re-runs a simulation when one of its input files changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DEFAULT_DEBOUNCE = 300 * time.Millisecond

// Watcher monitors input files and calls OnChange once per burst of writes.
// Callbacks never overlap.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	mu       sync.RWMutex
	runMu    sync.Mutex
	debounce time.Duration
	OnChange func(path string) error
	OnError  func(path string, err error)
}

func NewWatcher(debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DEFAULT_DEBOUNCE
	}
	return &Watcher{
		watcher:  fsWatcher,
		files:    make(map[string]bool),
		debounce: debounce,
	}, nil
}

// Watch adds path. The file itself does not need to exist yet, its directory does.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	w.mu.Lock()
	w.files[absPath] = true
	w.mu.Unlock()

	// editors replace files, so the directory is what gets watched
	if err := w.watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}
	return nil
}

func (w *Watcher) Files() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	return out
}

// Run blocks until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	timers := make(map[string]*time.Timer)
	var timerMu sync.Mutex
	defer func() {
		timerMu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			absPath, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			w.mu.RLock()
			watched := w.files[absPath]
			w.mu.RUnlock()
			if !watched {
				continue
			}

			timerMu.Lock()
			if t, exists := timers[absPath]; exists {
				t.Stop()
			}
			timers[absPath] = time.AfterFunc(w.debounce, func() {
				if ctx.Err() == nil {
					w.handleChange(absPath)
				}
			})
			timerMu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.OnError != nil {
				w.OnError("", err)
			}
		}
	}
}

func (w *Watcher) handleChange(path string) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	if w.OnChange == nil {
		return
	}
	if err := w.OnChange(path); err != nil && w.OnError != nil {
		w.OnError(path, err)
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
