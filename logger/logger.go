// Package logger holds the process-wide zap logger used by the gotdir CLI.
// Library code does not use it; it takes a *zap.Logger through options.
package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvVar selects the logger flavor when Init has not been called.
const EnvVar = "GOTDIR_LOG_ENV"

var (
	mu          sync.Mutex
	globalSugar *zap.SugaredLogger
	globalBase  *zap.Logger
)

// Init initializes the global logger. env is "production", "development"
// (default) or "quiet", which discards everything. With debug set, debug
// entries are emitted in every flavor but quiet.
func Init(env string, debug bool) (*zap.SugaredLogger, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalSugar != nil && globalBase != nil {
		return globalSugar, nil
	}

	base, err := build(env, debug)
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(base)
	globalBase = base
	globalSugar = base.Sugar()
	return globalSugar, nil
}

func build(env string, debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	switch {
	case strings.EqualFold(env, "quiet") || strings.EqualFold(env, "off"):
		return zap.NewNop(), nil
	case strings.EqualFold(env, "prod") || strings.EqualFold(env, "production"):
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		cfg.DisableStacktrace = true
	}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	// Stdout carries translations.
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func lazyInit() {
	if _, err := Init(os.Getenv(EnvVar), false); err != nil {
		base, _ := zap.NewDevelopment()
		mu.Lock()
		globalBase = base
		globalSugar = base.Sugar()
		mu.Unlock()
	}
}

// L returns the global sugared logger, initializing it on first use.
func L() *zap.SugaredLogger {
	mu.Lock()
	ready := globalSugar != nil
	mu.Unlock()
	if !ready {
		lazyInit()
	}
	mu.Lock()
	defer mu.Unlock()
	return globalSugar
}

// Base returns the base *zap.Logger (non-sugared).
func Base() *zap.Logger {
	mu.Lock()
	ready := globalBase != nil
	mu.Unlock()
	if !ready {
		lazyInit()
	}
	mu.Lock()
	defer mu.Unlock()
	return globalBase
}

// Named returns a child of the base logger for one component.
func Named(name string) *zap.Logger {
	return Base().Named(name)
}

// Sync flushes any buffered log entries.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if globalBase != nil {
		_ = globalBase.Sync()
	}
}

// reset drops the global logger. Tests only.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	globalBase = nil
	globalSugar = nil
}
