// Package logger installs the process-wide zap logger. Packages log through
// zap.L() so they need no logger plumbing.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init builds a development logger for "dev" and "test" environments and a
// JSON production logger otherwise, then replaces zap's globals with it.
func Init(env string) error {
	var cfg zap.Config
	switch env {
	case "dev", "development", "local", "test":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build zap logger -> %w", err)
	}
	zap.ReplaceGlobals(l.With(zap.String("env", env)))
	return nil
}

// Sync flushes buffered entries. Errors from syncing stdout/stderr are
// ignored.
func Sync() {
	_ = zap.L().Sync()
}
