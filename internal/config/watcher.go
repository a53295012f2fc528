package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"storefront/pkg/logging"
)

const (
	// DefaultWatchInterval is the fallback polling interval when fsnotify is
	// not available.
	DefaultWatchInterval = 30 * time.Second

	// DefaultDebounceInterval is the time to wait before triggering a reload
	// after the last file change is detected. Editors often produce several
	// events per save.
	DefaultDebounceInterval = 500 * time.Millisecond
)

// WatcherConfig holds configuration for the config file watcher.
type WatcherConfig struct {
	// ConfigDir is the directory containing config.yaml.
	ConfigDir string

	// WatchInterval is the fallback polling interval when fsnotify is not
	// available.
	WatchInterval time.Duration

	// OnChange is called with the freshly loaded configuration whenever the
	// config file changes and reloads successfully.
	OnChange func(StorefrontConfig)
}

// Watcher monitors the configuration file for changes and triggers reloads.
// It uses fsnotify for efficient file system monitoring with a fallback to
// polling for environments where fsnotify is not available or reliable.
type Watcher struct {
	mu sync.Mutex

	config WatcherConfig

	// fsWatcher is the fsnotify watcher (may be nil if fsnotify is unavailable)
	fsWatcher *fsnotify.Watcher

	stopCh  chan struct{}
	running bool

	// lastModTime tracks the last modification time for fallback polling
	lastModTime time.Time

	debounceTimer *time.Timer
	debounceMu    sync.Mutex
}

// NewWatcher creates a new config file watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.WatchInterval == 0 {
		config.WatchInterval = DefaultWatchInterval
	}
	return &Watcher{config: config}
}

// Start begins watching for configuration changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	w.stopCh = make(chan struct{})
	w.running = true

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warn("ConfigWatcher", "fsnotify not available, falling back to polling: %v", err)
		go w.pollForChanges()
		return nil
	}

	w.fsWatcher = watcher

	if err := w.fsWatcher.Add(w.config.ConfigDir); err != nil {
		logging.Warn("ConfigWatcher", "Failed to watch directory %s, falling back to polling: %v",
			w.config.ConfigDir, err)
		w.fsWatcher.Close()
		w.fsWatcher = nil
		go w.pollForChanges()
		return nil
	}

	// Capture channels before releasing the lock to avoid racing with Stop()
	eventsCh := w.fsWatcher.Events
	errorsCh := w.fsWatcher.Errors

	go w.processEvents(eventsCh, errorsCh)

	logging.Info("ConfigWatcher", "Started watching %s for configuration changes", w.config.ConfigDir)
	return nil
}

// Stop terminates the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
}

// processEvents handles fsnotify events.
func (w *Watcher) processEvents(eventsCh <-chan fsnotify.Event, errorsCh <-chan error) {
	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-eventsCh:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-errorsCh:
			if !ok {
				return
			}
			logging.Error("ConfigWatcher", err, "fsnotify error")
		}
	}
}

// handleEvent processes a single fsnotify event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != configFileName {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	logging.Debug("ConfigWatcher", "Detected change to %s", event.Name)
	w.scheduleReload()
}

// scheduleReload debounces reloads so a burst of write events produces a
// single reload.
func (w *Watcher) scheduleReload() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(DefaultDebounceInterval, w.reload)
}

// reload loads the configuration and invokes the OnChange callback.
func (w *Watcher) reload() {
	cfg, err := LoadConfig(w.config.ConfigDir)
	if err != nil {
		logging.Error("ConfigWatcher", err, "Failed to reload configuration, keeping previous")
		return
	}
	if err := Validate(cfg); err != nil {
		logging.Error("ConfigWatcher", err, "Reloaded configuration is invalid, keeping previous")
		return
	}

	logging.Info("ConfigWatcher", "Configuration reloaded")
	if w.config.OnChange != nil {
		w.config.OnChange(cfg)
	}
}

// pollForChanges is the fallback when fsnotify is unavailable.
func (w *Watcher) pollForChanges() {
	ticker := time.NewTicker(w.config.WatchInterval)
	defer ticker.Stop()

	configFilePath := filepath.Join(w.config.ConfigDir, configFileName)

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			info, err := os.Stat(configFilePath)
			if err != nil {
				continue
			}
			w.mu.Lock()
			changed := !w.lastModTime.IsZero() && info.ModTime().After(w.lastModTime)
			w.lastModTime = info.ModTime()
			w.mu.Unlock()
			if changed {
				w.scheduleReload()
			}
		}
	}
}
