// Package logging wraps zap behind the small surface geosim needs.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger used throughout geosim.
type Logger struct {
	*zap.SugaredLogger
}

// New creates a logger at the given level. Verbose mode switches to a
// human-readable console encoding with debug level, matching the original
// simulator's --verbose console output.
func New(level string, verbose bool) (*Logger, error) {
	if verbose {
		level = "debug"
	}
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(parsed)

	zl, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return &Logger{zl.Sugar()}, nil
}

// NewNop returns a logger that discards everything. For tests and as the
// default when no logger is injected.
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

// WithError adds an error field to the logger context.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{l.With("error", err)}
}
