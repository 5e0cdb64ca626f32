package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	defaultDebounce     = 200 * time.Millisecond
	defaultPollInterval = 10 * time.Second
)

// Reloader is implemented by CatalogService.
type Reloader interface {
	Reload() error
}

// SeedWatcher watches the seed file and reloads the catalog when it changes.
// fsnotify events are debounced; a slow poll covers filesystems where fsnotify
// does not work.
type SeedWatcher struct {
	path         string
	target       Reloader
	logger       *zap.Logger
	debounce     time.Duration
	pollInterval time.Duration

	mu            sync.Mutex
	lastRev       string
	debounceTimer *time.Timer
	reloadMu      sync.Mutex // serializes checkAndReload between the timer and the poll loop
}

// SeedWatcherOption configures the watcher.
type SeedWatcherOption func(*SeedWatcher)

// WithPollInterval sets the fallback poll interval (default 10s).
func WithPollInterval(d time.Duration) SeedWatcherOption {
	return func(w *SeedWatcher) {
		w.pollInterval = d
	}
}

// WithDebounce sets how long a burst of events is collapsed for (default 200ms).
func WithDebounce(d time.Duration) SeedWatcherOption {
	return func(w *SeedWatcher) {
		w.debounce = d
	}
}

// NewSeedWatcher creates a watcher for the seed file at path. The current
// revision of the file is recorded so that starting the watcher does not
// trigger a reload by itself.
func NewSeedWatcher(path string, target Reloader, logger *zap.Logger, opts ...SeedWatcherOption) *SeedWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &SeedWatcher{
		path:         path,
		target:       target,
		logger:       logger,
		debounce:     defaultDebounce,
		pollInterval: defaultPollInterval,
	}
	for _, o := range opts {
		o(w)
	}
	w.lastRev = w.revision()
	return w
}

// Start watches until ctx is cancelled. If fsnotify fails to initialize it
// falls back to polling. It always returns nil so it can run in an errgroup.
func (w *SeedWatcher) Start(ctx context.Context) error {
	watchDir := filepath.Dir(w.path)
	name := filepath.Base(w.path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("seed watcher: fsnotify init failed, polling only", zap.Error(err))
	} else if err := watcher.Add(watchDir); err != nil {
		w.logger.Warn("seed watcher: fsnotify add failed, polling only", zap.String("dir", watchDir), zap.Error(err))
		_ = watcher.Close()
		watcher = nil
	}

	var wg sync.WaitGroup
	if watcher != nil {
		defer watcher.Close()
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.watchLoop(ctx, watcher, name)
		}()
	}

	w.pollLoop(ctx)
	wg.Wait()

	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	return nil
}

// CheckOnce reloads if the file changed since the last reload.
func (w *SeedWatcher) CheckOnce() {
	w.checkAndReload()
}

// Trigger schedules a debounced check, bypassing the revision dedup.
func (w *SeedWatcher) Trigger() {
	w.mu.Lock()
	w.lastRev = ""
	w.mu.Unlock()
	w.triggerDebounced()
}

func (w *SeedWatcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, name string) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.triggerDebounced()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("seed watcher: fsnotify error", zap.Error(err))
		}
	}
}

func (w *SeedWatcher) triggerDebounced() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, w.checkAndReload)
}

func (w *SeedWatcher) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.checkAndReload()
		}
	}
}

func (w *SeedWatcher) checkAndReload() {
	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()

	rev := w.revision()
	if rev == "" {
		return
	}
	w.mu.Lock()
	if rev == w.lastRev {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	if err := w.target.Reload(); err != nil {
		// Keep lastRev so a fixed file is picked up on the next event or tick.
		w.logger.Error("seed watcher: reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.logger.Info("seed file changed, catalog reloaded", zap.String("path", w.path))
	w.mu.Lock()
	w.lastRev = rev
	w.mu.Unlock()
}

// revision identifies the file content by size and modification time, or "" if missing.
func (w *SeedWatcher) revision() string {
	info, err := os.Stat(w.path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d:%d", info.Size(), info.ModTime().UnixNano())
}
