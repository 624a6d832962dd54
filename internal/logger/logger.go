// Package logger provides structured logging for mapedit
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with mapedit-specific functionality
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // human readable console output
	Output io.Writer
}

// NewLogger creates a new structured logger. Unknown levels fall back to info.
func NewLogger(cfg Config) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.Kitchen,
		}
	}

	zlog := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Zerolog returns the underlying zerolog logger
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}

// StoreLogger returns a logger for map data store operations
func (l *Logger) StoreLogger() zerolog.Logger {
	return l.zlog.With().Str("component", "store").Logger()
}

// EditLogger returns a logger for processing a single edit
func (l *Logger) EditLogger(editID, actionType string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "edits").
			Str("edit", editID).
			Str("action", actionType).
			Logger(),
	}
}

// LogApplied logs an edit that was committed to the store
func (l *Logger) LogApplied(duration time.Duration, changes int) {
	l.zlog.Info().
		Dur("duration_ms", duration).
		Int("changes", changes).
		Msg("edit applied")
}

// LogConflict logs an edit that could not be applied
func (l *Logger) LogConflict(kind string, err error) {
	l.zlog.Warn().
		Str("conflict", kind).
		Err(err).
		Msg("edit conflicted")
}

// Debug starts a debug message
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Error starts an error message
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}
