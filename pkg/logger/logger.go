package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides structured logging functionality
type Logger struct {
	zl       zerolog.Logger
	verbose  bool
	progress io.Writer
}

// NewLogger creates a new logger with specified level and verbose mode.
// Log lines go to stderr so rendered output on stdout stays clean.
func NewLogger(level string, verbose bool) *Logger {
	return NewConsoleLogger(level, verbose, os.Stdout)
}

// NewConsoleLogger logs to stderr in console format and prints progress to progressOut
func NewConsoleLogger(level string, verbose bool, progressOut io.Writer) *Logger {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return NewLoggerWithWriters(level, verbose, console, progressOut)
}

// NewLoggerWithWriters builds a logger on explicit sinks; logOut receives
// structured records, progressOut the human-facing progress lines.
func NewLoggerWithWriters(level string, verbose bool, logOut, progressOut io.Writer) *Logger {
	zl := zerolog.New(logOut).
		Level(parseLogLevel(level)).
		With().
		Timestamp().
		Logger()

	return &Logger{
		zl:       zl,
		verbose:  verbose,
		progress: progressOut,
	}
}

// With returns a child logger that stamps every record with key=value
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{
		zl:       l.zl.With().Interface(key, value).Logger(),
		verbose:  l.verbose,
		progress: l.progress,
	}
}

// Debug logs debug information (only in debug mode)
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

// Info logs informational messages (only in verbose mode)
func (l *Logger) Info(format string, args ...interface{}) {
	if l.verbose {
		l.zl.Info().Msgf(format, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// ProgressAlways logs critical progress information that should always be shown
// This is for important milestones that users should see regardless of verbose mode
func (l *Logger) ProgressAlways(emoji, format string, args ...interface{}) {
	fmt.Fprintf(l.progress, "%s %s\n", emoji, fmt.Sprintf(format, args...))
}

// Progress logs detailed progress information (only in verbose mode)
// This is for step-by-step details that help with debugging and monitoring
func (l *Logger) Progress(emoji, format string, args ...interface{}) {
	if l.verbose {
		fmt.Fprintf(l.progress, "%s %s\n", emoji, fmt.Sprintf(format, args...))
	}
}

// parseLogLevel converts string level to a zerolog level
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Discard returns a logger that drops everything; handy in tests
func Discard() *Logger {
	return NewLoggerWithWriters("error", false, io.Discard, io.Discard)
}
