package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches a dynamic-config file for changes and notifies listeners.
// Used to retune placement and realtime settings without restarting the
// client.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	current  *DynamicConfig
	mu       sync.RWMutex
	onChange []func(*DynamicConfig)
	logger   *zap.Logger
	stopCh   chan struct{}
}

// DynamicConfig represents runtime-changeable configuration
type DynamicConfig struct {
	Placement PlacementConfig `json:"placement"`
	Realtime  RealtimeConfig  `json:"realtime"`
	Metadata  ConfigMetadata  `json:"metadata"`
}

// PlacementConfig tunes where new people land in the scene
type PlacementConfig struct {
	RadiusMin float64 `json:"radiusMin"`
	RadiusMax float64 `json:"radiusMax"`
}

// RealtimeConfig tunes the change-notification feed
type RealtimeConfig struct {
	Enabled           bool `json:"enabled"`
	HeartbeatInterval int  `json:"heartbeatInterval"` // seconds
}

// ConfigMetadata holds metadata about the configuration
type ConfigMetadata struct {
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewWatcher creates a watcher over the given dynamic-config file
func NewWatcher(configPath string, logger *zap.Logger) (*Watcher, error) {
	current, err := loadDynamicConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(configPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}

	// Also watch the directory for atomic saves (rename operations)
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		logger.Warn("failed to watch config directory", zap.Error(err))
	}

	return &Watcher{
		path:    configPath,
		watcher: watcher,
		current: current,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

// Current returns the latest loaded configuration
func (w *Watcher) Current() *DynamicConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback invoked after each successful reload
func (w *Watcher) OnChange(fn func(*DynamicConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Start begins watching for configuration changes
func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Info("configuration watcher started", zap.String("path", w.path))
}

// Stop stops watching for configuration changes
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	// Debounce to avoid multiple reloads on editors that write in chunks
	var debounceTimer *time.Timer
	const debounceDuration = 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	newConfig, err := loadDynamicConfig(w.path)
	if err != nil {
		w.logger.Error("failed to reload configuration, keeping current", zap.Error(err))
		return
	}
	if err := newConfig.validate(); err != nil {
		w.logger.Error("invalid configuration, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = newConfig
	handlers := w.onChange
	w.mu.Unlock()

	for _, handler := range handlers {
		handler(newConfig)
	}

	w.logger.Info("configuration reloaded",
		zap.String("version", newConfig.Metadata.Version),
	)
}

func (c *DynamicConfig) validate() error {
	if c.Placement.RadiusMin <= 0 || c.Placement.RadiusMax < c.Placement.RadiusMin {
		return fmt.Errorf("placement radius range is invalid")
	}
	if c.Realtime.HeartbeatInterval < 1 {
		return fmt.Errorf("heartbeat interval must be at least 1s")
	}
	return nil
}

func loadDynamicConfig(path string) (*DynamicConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg DynamicConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
