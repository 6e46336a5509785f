// Package logging provides structured logging for this module (§6, §10),
// writing to stderr to avoid interfering with stdout command output.
package logging

import (
	"context"
	"io"
	"os"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
	"github.com/madstone-tech/fabric-ontology/internal/core/usecases"
	"github.com/rs/zerolog"
)

// Ensure Logger implements usecases.Logger interface.
var _ usecases.Logger = (*Logger)(nil)

// Logger wraps a zerolog.Logger to satisfy usecases.Logger.
type Logger struct {
	zl zerolog.Logger
}

// New creates a Logger writing to w at the given level ("debug", "info",
// "warn", "error"). format selects "json" (zerolog's native encoding) or
// "console" (zerolog.ConsoleWriter, used for interactive terminals).
func New(w io.Writer, level, format string) *Logger {
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	zl := zerolog.New(w).With().Timestamp().Logger().Level(parseLevel(level))
	return &Logger{zl: zl}
}

// NewFromConfig builds a Logger from the logging.* section of
// FabricConfig, applying rotation when logging.rotation.enabled and
// logging.file are both set.
func NewFromConfig(cfg entities.LoggingSection) (*Logger, error) {
	var w io.Writer = os.Stderr
	if cfg.File != "" {
		if cfg.Rotation.Enabled {
			rw, err := newRotatingWriter(cfg.File, cfg.Rotation.MaxMB, cfg.Rotation.BackupCount)
			if err != nil {
				return nil, err
			}
			w = rw
		} else {
			f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				return nil, err
			}
			w = f
		}
	}
	return New(w, cfg.Level, cfg.Format), nil
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithContext returns the logger unchanged and ignores ctx; request-scoped values are
// attached via WithFields rather than extracted from ctx, since this
// module has no ambient tracing context to read from.
func (l *Logger) WithContext(ctx context.Context) usecases.Logger {
	return l
}

// WithFields returns a logger with additional structured fields bound
// to every subsequent entry.
func (l *Logger) WithFields(fields map[string]any) usecases.Logger {
	ctx := l.zl.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zl: ctx.Logger()}
}

func (l *Logger) Debug(msg string) { l.zl.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.zl.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.zl.Warn().Msg(msg) }

func (l *Logger) Error(msg string, err error) {
	l.zl.Error().Err(err).Msg(msg)
}
