// Package alog builds the structured logger used across the harness, the
// same way cmd/zmux-server built its own: a colorized development config
// with the timestamp/caller/stacktrace noise stripped out, named per
// subsystem.
package alog

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level selects the minimum severity a Build'd logger emits.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Build constructs a *zap.Logger at the given level. An unrecognized level
// falls back to info, matching zap's own AtomicLevel.UnmarshalText leniency.
func Build(level Level) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true

	var zl zapcore.Level
	if err := zl.UnmarshalText([]byte(level)); err != nil {
		zl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(zl)

	return zap.Must(cfg.Build())
}

// StdLogger bridges a *zap.Logger into the standard library's *log.Logger
// interface net/http.Server.ErrorLog expects.
func StdLogger(l *zap.Logger, name string) *log.Logger {
	stdl, err := zap.NewStdLogAt(l.Named(name), zapcore.ErrorLevel)
	if err != nil {
		return log.Default()
	}
	return stdl
}
