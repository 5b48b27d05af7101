package imgcache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LogLevel represents different logging levels
type LogLevel int

// Logging levels, from most to least verbose.
const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogConfig holds configuration for the cache logger.
type LogConfig struct {
	// Level sets the minimum log level.
	Level LogLevel
	// EnableCallerInfo includes file and line number in logs.
	EnableCallerInfo bool
	// Output receives log records. Defaults to os.Stderr.
	Output io.Writer
}

// DefaultLogConfig returns a default logging configuration.
func DefaultLogConfig() LogConfig {
	return LogConfig{Level: LogLevelInfo}
}

// Logger provides structured logging for the image cache.
// A nil *Logger discards everything.
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a text logger with the given configuration.
func NewLogger(config LogConfig) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level:     config.Level.slogLevel(),
		AddSource: config.EnableCallerInfo,
	})
	return &Logger{logger: slog.New(handler)}
}

// NewLoggerFromSlog wraps an existing slog logger.
func NewLoggerFromSlog(l *slog.Logger) *Logger {
	return &Logger{logger: l}
}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() *Logger {
	return &Logger{logger: slog.New(slog.DiscardHandler)}
}

// Debug logs debug-level messages
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	if l != nil {
		l.logger.DebugContext(ctx, msg, args...)
	}
}

// Info logs info-level messages
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	if l != nil {
		l.logger.InfoContext(ctx, msg, args...)
	}
}

// Warn logs warning-level messages
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	if l != nil {
		l.logger.WarnContext(ctx, msg, args...)
	}
}

// Error logs error-level messages
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	if l != nil {
		l.logger.ErrorContext(ctx, msg, args...)
	}
}

// With returns a logger with additional context fields
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{logger: l.logger.With(args...)}
}

// WithOperation returns a logger with operation context
func (l *Logger) WithOperation(operation Operation) *Logger {
	return l.With("operation", string(operation))
}

// WithURI returns a logger with URI context
func (l *Logger) WithURI(uri string) *Logger {
	return l.With("uri", uri)
}

// WithDigest returns a logger with digest context
func (l *Logger) WithDigest(digest string) *Logger {
	return l.With("digest", digest)
}

// Operation names a cache operation in log records.
type Operation string

// Cache operations.
const (
	OpLoad      Operation = "load"
	OpDecode    Operation = "decode"
	OpForget    Operation = "forget"
	OpForgetAll Operation = "forget_all"
	OpTrim      Operation = "trim"
)

// LogCacheHit logs a cache hit.
func LogCacheHit(ctx context.Context, logger *Logger, uri string, failed bool) {
	logger.Debug(ctx, "cache hit",
		"uri", uri,
		"failed", failed,
		"result", "hit")
}

// LogCacheMiss logs a cache miss.
func LogCacheMiss(ctx context.Context, logger *Logger, uri string, reason string) {
	logger.Debug(ctx, "cache miss",
		"uri", uri,
		"reason", reason,
		"result", "miss")
}

// LogDecode logs a finished decode with its timing and outcome.
func LogDecode(ctx context.Context, logger *Logger, uri string, duration time.Duration, size int, err error) {
	fields := []any{
		"uri", uri,
		"duration_ms", duration.Milliseconds(),
		"success", err == nil,
	}
	if size > 0 {
		fields = append(fields, "size", size)
	}
	if err != nil {
		fields = append(fields, "error", err.Error())
		logger.Warn(ctx, "image decode failed", fields...)
		return
	}
	logger.Debug(ctx, "finished loading", fields...)
}

// LogEviction logs the removal of a cache entry.
func LogEviction(ctx context.Context, logger *Logger, uri string, size int, reason string) {
	logger.Debug(ctx, "cache entry evicted",
		"uri", uri,
		"size", size,
		"reason", reason)
}

// LogPerformanceMetrics logs a metrics snapshot.
func LogPerformanceMetrics(ctx context.Context, logger *Logger, metrics MetricsSnapshot) {
	logger.Info(ctx, "image cache metrics",
		"hit_rate", fmt.Sprintf("%.2f", metrics.HitRate),
		"hits", metrics.Hits,
		"misses", metrics.Misses,
		"pending", metrics.Pending,
		"decodes", metrics.Decodes,
		"decode_failures", metrics.DecodeFailures,
		"rejections", metrics.Rejections,
		"evictions", metrics.Evictions,
		"bytes_stored", metrics.BytesStored,
		"entries_stored", metrics.EntriesStored,
		"uptime", metrics.Uptime.String(),
	)
}

// ParseLogLevel parses a string log level into a LogLevel.
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LogLevelDebug, nil
	case "info", "":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}
