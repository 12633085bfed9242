package service

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// InvalidationWatcher flushes the service's memo caches when installed
// packages change underneath them. It watches the project root and the top
// of its node_modules tree: installs, removals and manifest rewrites all
// surface there, and a full cache flush is cheap compared to tracking
// per-package dependencies.
type InvalidationWatcher struct {
	watcher *fsnotify.Watcher
	service *Service
	logger  *slog.Logger

	// Debounce: package managers touch many entries in a burst, one
	// flush at the end is enough.
	debounceMu    sync.Mutex
	debounceTimer *time.Timer
	debounce      time.Duration

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewInvalidationWatcher creates a watcher bound to svc's caches.
func NewInvalidationWatcher(svc *Service, logger *slog.Logger) (*InvalidationWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &InvalidationWatcher{
		watcher:  watcher,
		service:  svc,
		logger:   logger,
		debounce: 200 * time.Millisecond,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins watching projectRoot and its node_modules directory, then
// runs the event loop in the background.
func (iw *InvalidationWatcher) Start(projectRoot string) error {
	if err := iw.watcher.Add(projectRoot); err != nil {
		return fmt.Errorf("failed to watch %s: %w", projectRoot, err)
	}
	nodeModules := filepath.Join(projectRoot, "node_modules")
	if err := iw.watcher.Add(nodeModules); err != nil {
		// A project without node_modules yet is fine; the root watch
		// catches its creation.
		iw.logger.Debug("node_modules not watched", "path", nodeModules, "error", err)
	}

	iw.logger.Info("invalidation watcher started", "root", projectRoot)
	go iw.eventLoop()
	return nil
}

// Stop stops the watcher. Safe to call multiple times.
func (iw *InvalidationWatcher) Stop() error {
	iw.mu.Lock()
	defer iw.mu.Unlock()
	if iw.stopped {
		return nil
	}
	iw.stopped = true
	close(iw.stopChan)

	iw.debounceMu.Lock()
	if iw.debounceTimer != nil {
		iw.debounceTimer.Stop()
	}
	iw.debounceMu.Unlock()

	err := iw.watcher.Close()
	iw.logger.Info("invalidation watcher stopped")
	return err
}

func (iw *InvalidationWatcher) eventLoop() {
	for {
		select {
		case <-iw.stopChan:
			return
		case event, ok := <-iw.watcher.Events:
			if !ok {
				return
			}
			iw.handleEvent(event)
		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return
			}
			iw.logger.Error("watcher error", "error", err)
		}
	}
}

// handleEvent reacts to manifest and package layout changes. Only
// package.json writes and entry create/remove/rename matter; editor
// chatter on other files is ignored.
func (iw *InvalidationWatcher) handleEvent(event fsnotify.Event) {
	base := filepath.Base(event.Name)
	structural := event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
	if base != "package.json" && !structural {
		return
	}
	iw.logger.Debug("node_modules change", "op", event.Op.String(), "path", event.Name)
	iw.scheduleFlush()
}

func (iw *InvalidationWatcher) scheduleFlush() {
	iw.debounceMu.Lock()
	defer iw.debounceMu.Unlock()
	if iw.debounceTimer != nil {
		iw.debounceTimer.Stop()
	}
	iw.debounceTimer = time.AfterFunc(iw.debounce, func() {
		iw.service.InvalidateCaches()
	})
}
