// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// WATCHER
// =============================================================================

// Watcher reports batched file changes under the workspace root.
// Rapid event bursts (a project being materialized, an editor saving)
// are debounced into one batch on the Changes channel.
type Watcher struct {
	root     string
	debounce time.Duration

	watcher *fsnotify.Watcher
	changes chan []string

	mu      sync.Mutex
	pending map[string]time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher for root with the given debounce.
func NewWatcher(root string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		root:     root,
		debounce: debounce,
		watcher:  fsw,
		changes:  make(chan []string, 4),
		pending:  make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Changes returns the batched change channel. Paths are relative to
// the workspace root. The channel closes when the watcher closes.
func (w *Watcher) Changes() <-chan []string {
	return w.changes
}

// Watch starts watching the root and all subdirectories.
func (w *Watcher) Watch() error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	go w.processEvents()
	go w.flushPending()
	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

// addRecursive adds dir and its subdirectories to the watch list.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(filepath.Base(path), ".") {
			return filepath.SkipDir
		}
		// Watch errors on individual directories are non-fatal.
		w.watcher.Add(path)
		return nil
	})
}

// processEvents records raw fsnotify events into the pending map.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if strings.HasPrefix(filepath.Base(ev.Name), ".") {
				continue
			}

			// New directories need watches of their own.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.addRecursive(ev.Name)
				}
			}

			w.mu.Lock()
			w.pending[ev.Name] = time.Now()
			w.mu.Unlock()
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// flushPending periodically emits batches of settled changes.
func (w *Watcher) flushPending() {
	defer close(w.changes)

	interval := w.debounce / 2
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			batch := w.takeSettled()
			if len(batch) == 0 {
				continue
			}
			select {
			case w.changes <- batch:
			case <-w.ctx.Done():
				return
			}
		}
	}
}

// takeSettled removes and returns paths quiet for one debounce period.
func (w *Watcher) takeSettled() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	var batch []string
	for path, last := range w.pending {
		if now.Sub(last) < w.debounce {
			continue
		}
		delete(w.pending, path)
		if rel, err := filepath.Rel(w.root, path); err == nil {
			batch = append(batch, filepath.ToSlash(rel))
		}
	}
	return batch
}
