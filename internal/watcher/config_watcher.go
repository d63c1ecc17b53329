// Package watcher reloads the desk-controller configuration when the
// config file changes on disk, so preset edits show up in a running TUI
// without a restart.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/victor-hucklenbroich/desk-controller/internal/config"
	"github.com/victor-hucklenbroich/desk-controller/internal/debug"
)

// ConfigEvent carries a freshly loaded configuration or a watch error.
type ConfigEvent struct {
	Config config.Config
	Err    error
}

// ConfigWatcher watches the configuration file using fsnotify. Editors
// typically replace files via rename, so the watch is on the containing
// directory rather than the file itself.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	eventCh chan ConfigEvent
	done    chan struct{}

	mu      sync.Mutex
	started bool
	closed  bool
}

// NewConfigWatcher creates a watcher for the config file at path.
func NewConfigWatcher(path string) (*ConfigWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch config directory %s: %w", dir, err)
	}

	return &ConfigWatcher{
		path:    path,
		watcher: fsWatcher,
		eventCh: make(chan ConfigEvent, 16),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching and returns the event channel. Subsequent calls
// return the same channel.
func (w *ConfigWatcher) Start() <-chan ConfigEvent {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return w.eventCh
	}
	w.started = true
	w.mu.Unlock()

	go w.watch()
	return w.eventCh
}

func (w *ConfigWatcher) watch() {
	defer close(w.eventCh)

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			cfg, err := config.Load(w.path)
			if err != nil {
				debug.Log("CONFIG_WATCH_LOAD_ERROR path=%s error=%v", w.path, err)
				// Keep running with the previous config; the UI shows the
				// error but stays usable.
				w.emit(ConfigEvent{Err: err})
				continue
			}

			debug.Log("CONFIG_WATCH_RELOADED path=%s presets=%d", w.path, len(cfg.Presets))
			w.emit(ConfigEvent{Config: cfg})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.emit(ConfigEvent{Err: err})
		}
	}
}

// emit sends without blocking shutdown; event loss while closing is fine.
func (w *ConfigWatcher) emit(ev ConfigEvent) {
	select {
	case w.eventCh <- ev:
	case <-w.done:
	}
}

// Close stops the watcher and releases resources. Idempotent.
func (w *ConfigWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)
	return w.watcher.Close()
}
