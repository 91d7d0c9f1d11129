// Package logging provides the package-level structured logger used
// across pagedb. It mirrors the teacher's lazy-init, package-level
// logger shape but backs it with go.uber.org/zap instead of a
// hand-rolled writer.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Init installs l as the package-level logger. Passing nil restores the
// no-op logger.
func Init(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		logger = zap.NewNop()
		return
	}
	logger = l
}

// InitProduction installs a production zap.Logger (JSON to stderr, info
// level and above).
func InitProduction() error {
	l, err := zap.NewProduction()
	if err != nil {
		return err
	}
	Init(l)
	return nil
}

// L returns the current package-level logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Sync flushes any buffered log entries.
func Sync() error {
	return L().Sync()
}
