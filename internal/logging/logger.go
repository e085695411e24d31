// Package logging provides structured logging for uploadsim.
// It wraps Go's log/slog package to provide JSON-formatted logs with
// task and component context.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// FileName is the name of the log file created inside the log directory.
const FileName = "uploadsim.log"

// Logger provides structured logging with context propagation.
// It is safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	closer *fileCloser
}

// fileCloser is shared by a logger and all of its children so that closing
// any of them closes the underlying file exactly once.
type fileCloser struct {
	mu   sync.Mutex
	file *os.File
}

// NewLogger creates a Logger that writes JSON-formatted logs to
// {dir}/uploadsim.log. If dir is empty, logs are written to stderr.
//
// Unrecognized level strings fall back to INFO.
func NewLogger(dir string, level string) (*Logger, error) {
	if dir == "" {
		return NewWriterLogger(os.Stderr, level), nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(dir, FileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := NewWriterLogger(file, level)
	l.closer = &fileCloser{file: file}
	return l, nil
}

// NewWriterLogger creates a Logger that writes JSON lines to w.
func NewWriterLogger(w io.Writer, level string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{logger: slog.New(handler)}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch ParseLevel(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithTask returns a child Logger that tags every entry with the task ID.
func (l *Logger) WithTask(taskID string) *Logger {
	return l.With("task_id", taskID)
}

// WithComponent returns a child Logger that tags every entry with the
// emitting component (e.g. "registry", "simulator", "dropzone").
func (l *Logger) WithComponent(name string) *Logger {
	return l.With("component", name)
}

// With returns a child Logger with arbitrary key-value attributes.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	return &Logger{
		logger: l.logger.With(args...),
		closer: l.closer,
	}
}

// Debug logs a message at DEBUG level with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Log(context.Background(), slog.LevelDebug, msg, args...)
}

// Info logs a message at INFO level with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Log(context.Background(), slog.LevelInfo, msg, args...)
}

// Warn logs a message at WARN level with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Log(context.Background(), slog.LevelWarn, msg, args...)
}

// Error logs a message at ERROR level with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Log(context.Background(), slog.LevelError, msg, args...)
}

// Close flushes and closes the log file. Loggers writing to stderr or an
// arbitrary writer treat Close as a no-op.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}

	l.closer.mu.Lock()
	defer l.closer.mu.Unlock()

	if l.closer.file == nil {
		return nil
	}
	if err := l.closer.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := l.closer.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	l.closer.file = nil
	return nil
}

// NopLogger returns a Logger that discards all log output.
func NopLogger() *Logger {
	return NewWriterLogger(io.Discard, LevelError)
}

// ParseLevel normalizes a user-provided level string.
// Returns LevelInfo if the level string is not recognized.
func ParseLevel(level string) string {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return LevelDebug
	case LevelWarn:
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevels returns the list of valid log level strings.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}
