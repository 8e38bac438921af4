// Package logging owns the process-wide zap logger.
//
// Menus run in front of an interactive picker, so logs go to stderr and stay
// at warn level unless verbosity is raised. The logger is process-wide on
// purpose: nested menu executions and item goroutines all share it.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	logger = zap.NewNop()
)

// Setup builds the process logger. verbose=0 logs warnings and errors,
// verbose=1 adds info, anything higher adds debug.
func Setup(verbose int) error {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	switch {
	case verbose <= 0:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case verbose == 1:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}

// L returns the process logger. Before Setup it is a nop logger, which keeps
// tests quiet.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	_ = L().Sync()
}
