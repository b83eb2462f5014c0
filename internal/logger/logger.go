// internal/logger/logger.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime" // caller info for the printf wrappers
	"sync"
	"time"
)

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
	logLevel      = new(slog.LevelVar)
)

// Init installs a logger writing to output, filtered by cfg.
// It may be called again to reconfigure, e.g. after the config file loads.
func Init(cfg Config, output io.Writer) {
	if output == nil {
		output = io.Discard
	}
	cfg.process()
	logLevel.Set(cfg.level)

	opts := slog.HandlerOptions{
		Level:     logLevel,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
				}
			}
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	}
	handler := newFilteringHandler(slog.NewTextHandler(output, &opts), &cfg)

	mu.Lock()
	defaultLogger = slog.New(handler)
	mu.Unlock()
}

// Setup opens the configured destination and calls Init. The returned
// closer releases the log file; it is a no-op for stderr.
func Setup(cfg Config) (io.Closer, error) {
	if cfg.LogFilePath == "" || cfg.LogFilePath == "-" {
		Init(cfg, os.Stderr)
		return nopCloser{}, nil
	}
	if dir := filepath.Dir(cfg.LogFilePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file '%s': %w", cfg.LogFilePath, err)
	}
	Init(cfg, f)
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetLevel changes the minimum level at runtime.
func SetLevel(level slog.Level) { logLevel.Set(level) }

// current returns the installed logger, defaulting to a discarding one so
// packages can log before main has configured anything.
func current() *slog.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l != nil {
		return l
	}
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: logLevel}))
	}
	return defaultLogger
}

// logAtLevel builds a record with the caller of the public wrapper as its
// source. skip counts frames above runtime.Callers.
func logAtLevel(skip int, level slog.Level, tag string, format string, args ...interface{}) {
	l := current()
	if !l.Enabled(context.Background(), level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(skip, pcs[:])

	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	if tag != "" {
		r.AddAttrs(slog.String(tagKey, tag))
	}
	_ = l.Handler().Handle(context.Background(), r)
}

// Skip 3 frames: runtime.Callers, logAtLevel and the wrapper below.
const wrapperSkip = 3

// Debugf logs at debug level using Printf-style formatting.
func Debugf(format string, args ...interface{}) {
	logAtLevel(wrapperSkip, slog.LevelDebug, "", format, args...)
}

// Infof logs at info level.
func Infof(format string, args ...interface{}) {
	logAtLevel(wrapperSkip, slog.LevelInfo, "", format, args...)
}

// Warnf logs at warn level.
func Warnf(format string, args ...interface{}) {
	logAtLevel(wrapperSkip, slog.LevelWarn, "", format, args...)
}

// Errorf logs at error level.
func Errorf(format string, args ...interface{}) {
	logAtLevel(wrapperSkip, slog.LevelError, "", format, args...)
}

// DebugTagf logs at debug level with a tag attribute, so the record can be
// switched on or off through the tag filters.
func DebugTagf(tag, format string, args ...interface{}) {
	logAtLevel(wrapperSkip, slog.LevelDebug, tag, format, args...)
}

// InfoTagf is the info-level tagged variant.
func InfoTagf(tag, format string, args ...interface{}) {
	logAtLevel(wrapperSkip, slog.LevelInfo, tag, format, args...)
}

// WarnTagf is the warn-level tagged variant.
func WarnTagf(tag, format string, args ...interface{}) {
	logAtLevel(wrapperSkip, slog.LevelWarn, tag, format, args...)
}

// Fatalf logs at error level then exits.
func Fatalf(format string, args ...interface{}) {
	logAtLevel(wrapperSkip, slog.LevelError, "", format, args...)
	os.Exit(1)
}

// Get returns the configured slog logger for callers that want attrs.
func Get() *slog.Logger {
	return current()
}
