package config

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultReloadDelay is how long the loader waits for a burst of file events
// to settle before reloading.
const DefaultReloadDelay = 100 * time.Millisecond

// Loader loads the settings file and hot-reloads it on change. Each reload
// produces a new Settings value; callers rebuild what depends on it.
type Loader struct {
	path   string
	delay  time.Duration
	logger *zap.Logger

	mu       sync.RWMutex
	settings *Settings
	onChange []func(*Settings)

	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
	errChan chan error
}

// NewLoader creates a loader for the settings file at path.
func NewLoader(path string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		path:    path,
		delay:   DefaultReloadDelay,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		errChan: make(chan error, 1),
	}
}

// Path returns the settings file location.
func (l *Loader) Path() string {
	return l.path
}

// Load reads, overrides and validates the settings file.
func (l *Loader) Load() (*Settings, error) {
	s, err := Load(l.path)
	if err != nil {
		return nil, err
	}

	for _, w := range s.Warnings() {
		l.logger.Warn("settings problem", zap.Error(w))
	}

	l.mu.Lock()
	l.settings = s
	l.mu.Unlock()
	return s, nil
}

// Settings returns the current settings, or nil before the first Load.
func (l *Loader) Settings() *Settings {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.settings
}

// OnChange registers a callback invoked with the new settings after each
// successful reload.
func (l *Loader) OnChange(cb func(*Settings)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, cb)
}

// Errors returns a channel for reload and watcher errors. Errors are dropped
// while one is pending.
func (l *Loader) Errors() <-chan error {
	return l.errChan
}

// Watch starts watching the settings file. The containing directory is
// watched so editors that replace the file are seen.
func (l *Loader) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	l.watcher = watcher

	go l.watchLoop()
	return nil
}

func (l *Loader) watchLoop() {
	debounced := debounce.New(l.delay)
	name := filepath.Base(l.path)

	for {
		select {
		case <-l.ctx.Done():
			return

		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			debounced(l.reload)

		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			l.report(err)
		}
	}
}

// reload replaces the settings when the file decodes and validates. On
// failure the previous settings stay in effect.
func (l *Loader) reload() {
	if l.ctx.Err() != nil {
		return
	}

	s, err := Load(l.path)
	if err != nil {
		l.logger.Warn("settings reload failed, keeping previous settings", zap.Error(err))
		l.report(fmt.Errorf("reload settings: %w", err))
		return
	}

	l.mu.Lock()
	l.settings = s
	callbacks := slices.Clone(l.onChange)
	l.mu.Unlock()

	l.logger.Info("settings reloaded", zap.String("path", l.path))
	for _, cb := range callbacks {
		cb(s)
	}
}

func (l *Loader) report(err error) {
	select {
	case l.errChan <- err:
	default:
	}
}

// Close stops the watcher.
func (l *Loader) Close() error {
	l.cancel()
	if l.watcher != nil {
		return l.watcher.Close()
	}
	return nil
}
