// Package logging provides structured logging using Go's slog package.
//
// Records go to stderr as text so they never mix with command output on
// stdout. When an error log is configured, error-level records are also
// appended to it as JSON lines.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	consoleLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	defaultLogger = consoleLogger

	// errorLogger writes only to the error log file.
	errorLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Options configures Init.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means warn.
	Level string

	// Verbose forces debug level regardless of Level.
	Verbose bool

	// ErrorLog is a file that receives error-level records. Empty disables it.
	ErrorLog string

	// Output replaces stderr, mainly for tests.
	Output io.Writer
}

// ParseLevel converts a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", name)
	}
}

// Init replaces the global logger. The returned function closes the error log
// and must be called before exit.
func Init(opts Options) (func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	console := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Terminal output has no use for timestamps.
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})

	handler := slog.Handler(console)
	fileLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	closeFn := func() error { return nil }
	if opts.ErrorLog != "" {
		if err := os.MkdirAll(filepath.Dir(opts.ErrorLog), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create error log directory: %w", err)
		}
		f, err := os.OpenFile(opts.ErrorLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open error log: %w", err)
		}
		file := slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: slog.LevelError,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
				}
				return a
			},
		})
		handler = fanout{console, file}
		fileLogger = slog.New(file)
		closeFn = f.Close
	}

	consoleLogger = slog.New(console)
	errorLogger = fileLogger
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
	return closeFn, nil
}

// Logger returns the global logger.
func Logger() *slog.Logger {
	return defaultLogger
}

// fanout sends every record to each handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// CommandFailed records a failed command in the error log. The console only
// sees it at debug level since the CLI already reports the error to the user.
func CommandFailed(command, code string, err error, args ...any) {
	allArgs := []any{
		"command", command,
		"code", code,
		"error", err.Error(),
	}
	allArgs = append(allArgs, args...)
	errorLogger.Error("command_failed", allArgs...)
	consoleLogger.Debug("command_failed", allArgs...)
}

// Timed logs the duration of an operation at debug level.
func Timed(operation string, start time.Time, args ...any) {
	allArgs := []any{
		"operation", operation,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Debug("timing", allArgs...)
}
