// Package applog provides the process-wide file logger.
//
// Terminal output belongs to the command being run (and to the picker while
// it owns the screen), so diagnostics go to a file chosen with --log and are
// discarded otherwise.
package applog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Logger writes leveled key/value records to a file.
type Logger struct {
	mu     sync.Mutex
	file   *os.File
	logger *slog.Logger
	level  slog.LevelVar
}

// Log is the global logger. It discards everything until Init is called.
var Log = newLogger(io.Discard)

func newLogger(w io.Writer) *Logger {
	l := &Logger{}
	l.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &l.level}))
	return l
}

// Init directs the global logger to path, appending. An empty path
// disables logging. Calling Init again switches files.
func Init(path string) error {
	Log.mu.Lock()
	defer Log.mu.Unlock()

	if Log.file != nil {
		Log.file.Close()
		Log.file = nil
	}
	if path == "" {
		Log.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	Log.file = f
	Log.logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: &Log.level}))
	Log.logger.Info("Logger initialized", "path", path)
	return nil
}

// SetVerbose enables debug records.
func (l *Logger) SetVerbose(v bool) {
	if v {
		l.level.Set(slog.LevelDebug)
	} else {
		l.level.Set(slog.LevelInfo)
	}
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return err
}

// Enabled reports whether records are being written.
func (l *Logger) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file != nil
}

// Writer returns the log destination for use by other loggers.
func (l *Logger) Writer() io.Writer {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return io.Discard
	}
	return l.file
}

// Slog returns the underlying structured logger.
func (l *Logger) Slog() *slog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.logger
}

func (l *Logger) log(level slog.Level, msg string, keyvals ...any) {
	l.Slog().Log(context.Background(), level, msg, keyvals...)
}

// Debug logs a debug message with optional key-value pairs.
func (l *Logger) Debug(msg string, keyvals ...any) { l.log(slog.LevelDebug, msg, keyvals...) }

// Info logs an info message with optional key-value pairs.
func (l *Logger) Info(msg string, keyvals ...any) { l.log(slog.LevelInfo, msg, keyvals...) }

// Warn logs a warning message with optional key-value pairs.
func (l *Logger) Warn(msg string, keyvals ...any) { l.log(slog.LevelWarn, msg, keyvals...) }

// Error logs an error message with optional key-value pairs.
func (l *Logger) Error(msg string, keyvals ...any) { l.log(slog.LevelError, msg, keyvals...) }

// Debugf logs a formatted debug message.
func (l *Logger) Debugf(format string, args ...any) {
	l.log(slog.LevelDebug, fmt.Sprintf(format, args...))
}

// Infof logs a formatted info message.
func (l *Logger) Infof(format string, args ...any) {
	l.log(slog.LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning message.
func (l *Logger) Warnf(format string, args ...any) {
	l.log(slog.LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...any) {
	l.log(slog.LevelError, fmt.Sprintf(format, args...))
}

// Timed logs the duration of an operation. Usage:
//
//	defer applog.Log.Timed("load palette")()
func (l *Logger) Timed(operation string) func() {
	start := time.Now()
	l.Debug(operation, "status", "started")
	return func() {
		l.Debug(operation, "status", "completed", "duration", time.Since(start))
	}
}
