// Package logger provides structured logging and metrics for kandilli.
//
// Log entries are written through zerolog, as JSON by default or in a
// human-readable console format. All entries include a timestamp and can carry
// arbitrary structured fields.
//
// Example usage:
//
//	logger.Info("bulletin fetched", logger.Fields{
//	    "url":   url,
//	    "bytes": len(body),
//	})
//
//	logger.Error("bulletin parse failed", logger.Fields{
//	    "row":    3,
//	    "column": "depth",
//	}, err)
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Format selects how entries are rendered
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// Logger provides structured logging
type Logger struct {
	zl zerolog.Logger
}

// Fields represents structured log fields
type Fields map[string]interface{}

var defaultLogger *Logger

func init() {
	defaultLogger = New(LevelInfo, os.Stderr)
}

// New creates a JSON logger with the specified minimum log level and output destination.
// Messages below the minimum level will be discarded.
func New(level Level, output io.Writer) *Logger {
	return NewWithFormat(level, output, FormatJSON)
}

// NewWithFormat creates a logger that renders entries in the given format.
func NewWithFormat(level Level, output io.Writer, format Format) *Logger {
	w := output
	if format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: output, NoColor: true, TimeFormat: "15:04:05"}
	}
	return &Logger{
		zl: zerolog.New(w).Level(zerologLevel(level)).With().Timestamp().Logger(),
	}
}

// ParseLevel converts a level name such as "debug" or "WARN" to a Level.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug, nil
	case LevelInfo, "":
		return LevelInfo, nil
	case LevelWarn, "WARNING":
		return LevelWarn, nil
	case LevelError:
		return LevelError, nil
	}
	return "", fmt.Errorf("unknown log level: %s", s)
}

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatConsole, "text":
		return FormatConsole, nil
	}
	return "", fmt.Errorf("unknown log format: %s (must be 'json' or 'console')", s)
}

// SetDefault sets the default package-level logger used by the convenience functions
// (Debug, Info, Warn, Error).
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the package-level logger.
func Default() *Logger {
	return defaultLogger
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// log writes a structured log entry
func (l *Logger) log(level Level, message string, fields Fields, err error) {
	e := l.zl.WithLevel(zerologLevel(level))
	if e == nil {
		return
	}
	if len(fields) > 0 {
		e = e.Fields(map[string]interface{}(fields))
	}
	e.Err(err).Msg(message)
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a warning message with optional structured fields.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs an error message with optional structured fields and an error object.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Package-level convenience functions using default logger

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	defaultLogger.Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}
