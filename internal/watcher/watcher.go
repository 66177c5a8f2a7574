// Package watcher reports changes on disk to files open in the editor.
package watcher

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/zecora/internal/log"
)

// Watcher monitors a set of files and sends their paths, debounced, when
// they are written, replaced or removed.
//
// Directories are watched rather than files so that editors which save by
// renaming a temp file over the original are still seen.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	onChange  chan []string
	done      chan struct{}

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}
}

// Config holds watcher configuration options.
type Config struct {
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig() Config {
	return Config{DebounceDur: 100 * time.Millisecond}
}

// New creates a new file watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan []string, 1),
		done:      make(chan struct{}),
		files:     make(map[string]struct{}),
		dirs:      make(map[string]struct{}),
	}, nil
}

// Add starts watching path. Adding a path twice is a no-op.
func (w *Watcher) Add(path string) error {
	path = filepath.Clean(path)
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[path]; ok {
		return nil
	}
	dir := filepath.Dir(path)
	if _, ok := w.dirs[dir]; !ok {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("watching directory %s: %w", dir, err)
		}
		w.dirs[dir] = struct{}{}
	}
	w.files[path] = struct{}{}
	log.Debug(log.CatWatcher, "watching file", "path", path)
	return nil
}

// Watching reports whether path is watched.
func (w *Watcher) Watching(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[filepath.Clean(path)]
	return ok
}

// Start begins processing events. The returned channel receives sorted
// batches of changed paths.
func (w *Watcher) Start() <-chan []string {
	go w.loop()
	return w.onChange
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var timer *time.Timer
	pending := make(map[string]struct{})

	arm := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.debounce)
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			pending[filepath.Clean(event.Name)] = struct{}{}
			arm()

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			select {
			case w.onChange <- batch:
				pending = make(map[string]struct{})
			default:
				// Receiver is behind; keep the paths and try again later.
				arm()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "fsnotify error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event concerns a watched file.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return w.Watching(event.Name)
}
