// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Loader serves the current Library and reloads it when the override file
// changes. A broken override is logged and the previous library kept.
type Loader struct {
	mu      sync.RWMutex
	lib     *Library
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}

	// debounce collapses the burst of events editors emit on save
	debounce time.Duration
}

// NewLoader loads the embedded library merged with the optional override at path.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path, debounce: 200 * time.Millisecond}
	lib, err := l.load()
	if err != nil {
		return nil, err
	}
	l.lib = lib
	return l, nil
}

// Library returns the current snapshot. Callers must not modify it.
func (l *Loader) Library() *Library {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lib
}

func (l *Loader) load() (*Library, error) {
	if l.path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("content override not found, using defaults", "path", l.path)
		return Parse(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read content override: %w", err)
	}
	return Parse(data)
}

// Reload re-reads the override file and swaps the library on success.
func (l *Loader) Reload() error {
	lib, err := l.load()
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.lib = lib
	l.mu.Unlock()
	slog.Info("content library reloaded", "path", l.path)
	return nil
}

// Watch reloads on changes to the override file until ctx is done or Close
// is called. It watches the parent directory so atomic renames are seen.
func (l *Loader) Watch(ctx context.Context) error {
	if l.path == "" {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(l.path)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(l.path), err)
	}

	l.mu.Lock()
	l.watcher = w
	l.done = make(chan struct{})
	l.mu.Unlock()

	go l.run(ctx, w, l.done)
	return nil
}

func (l *Loader) run(ctx context.Context, w *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	target := filepath.Clean(l.path)
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(l.debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			slog.Error("content watcher error", "error", err)

		case <-pending:
			pending = nil
			if err := l.Reload(); err != nil {
				slog.Error("content reload failed, keeping previous library", "path", l.path, "error", err)
			}
		}
	}
}

// Close stops the watcher and waits for its goroutine.
func (l *Loader) Close() error {
	l.mu.Lock()
	w, done := l.watcher, l.done
	l.watcher = nil
	l.mu.Unlock()

	if w == nil {
		return nil
	}
	err := w.Close()
	<-done
	return err
}
