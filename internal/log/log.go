// Package log provides the process-wide zap logger.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

var log = zap.NewNop().Sugar()

// Init builds the package logger. debug selects zap's development config
// (console, debug level); otherwise the production JSON config is used.
func Init(debug bool) error {
	var (
		zl  *zap.Logger
		err error
	)
	if debug {
		zl, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		zl, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %w", err)
	}
	log = zl.Sugar()
	return nil
}

// Use installs l as the package logger. Tests pass zap.NewNop or an
// observer-backed logger.
func Use(l *zap.Logger) {
	log = l.Sugar()
}

// L returns the package logger. It is a no-op logger until Init or Use.
func L() *zap.SugaredLogger {
	return log
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = log.Sync()
}
