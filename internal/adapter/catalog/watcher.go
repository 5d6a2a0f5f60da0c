package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a catalog directory and triggers a reload once edits
// settle. Rapid saves are debounced so a burst of file events produces a
// single reload.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	reload   func(ctx context.Context) error
	logger   *slog.Logger

	lastEvent time.Time
	dirty     bool

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a Watcher over dir. reload is invoked after events
// settle for the debounce window.
func NewWatcher(dir string, debounce time.Duration, reload func(ctx context.Context) error, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		watcher:  fsw,
		dir:      dir,
		debounce: debounce,
		reload:   reload,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	// Subdirectory layout: watch each agent directory too.
	if entries, err := os.ReadDir(w.dir); err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			sub := filepath.Join(w.dir, entry.Name())
			if err := w.watcher.Add(sub); err != nil {
				w.logger.Warn("catalog watcher: cannot watch subdirectory", "dir", sub, "error", err)
			}
		}
	}
	w.logger.Info("catalog watcher started", "dir", w.dir)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("catalog watcher close failed", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("catalog watcher error", "error", err)
		case <-ticker.C:
			w.maybeReload(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !isCatalogFile(event.Name) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return // ignore chmod
	}

	w.mu.Lock()
	w.dirty = true
	w.lastEvent = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) maybeReload(ctx context.Context) {
	w.mu.Lock()
	if !w.dirty || time.Since(w.lastEvent) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.dirty = false
	w.mu.Unlock()

	if err := w.reload(ctx); err != nil {
		// Keep serving the previous table; the bad edit is reported and
		// the next settled change retries.
		w.logger.Error("catalog reload failed", "error", err)
		return
	}
	w.logger.Info("catalog reloaded", "dir", w.dir)
}

// isCatalogFile reports whether a path belongs to the catalog convention.
func isCatalogFile(name string) bool {
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".json")
}
