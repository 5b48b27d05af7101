package imgcache

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{input: "debug", want: LogLevelDebug},
		{input: "INFO", want: LogLevelInfo},
		{input: "", want: LogLevelInfo},
		{input: "warning", want: LogLevelWarn},
		{input: "warn", want: LogLevelWarn},
		{input: "error", want: LogLevelError},
		{input: "trace", want: LogLevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: LogLevelInfo, Output: &buf})
	ctx := context.Background()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message", "key", "value")
	logger.WithOperation(OpLoad).WithURI("file:///a.png").Error(ctx, "error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.Contains(t, out, "info message")
	assert.Contains(t, out, "key=value")
	assert.Contains(t, out, "operation=load")
	assert.Contains(t, out, "uri=file:///a.png")
}

func TestLogger_Nil(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Info(context.Background(), "ignored")
		logger.With("k", "v").Warn(context.Background(), "ignored")
	})
}

func TestLogDecode(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerFromSlog(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	ctx := context.Background()

	LogDecode(ctx, logger, "mem://a", 5*time.Millisecond, 64, nil)
	assert.Contains(t, buf.String(), "finished loading")
	assert.Contains(t, buf.String(), "size=64")

	buf.Reset()
	LogDecode(ctx, logger, "mem://b", time.Millisecond, 0, errors.New("truncated"))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "error=truncated")
	assert.NotContains(t, buf.String(), "size=")
}

func TestLogPerformanceMetrics(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: LogLevelInfo, Output: &buf})

	LogPerformanceMetrics(context.Background(), logger, MetricsSnapshot{Hits: 3, Misses: 1, HitRate: 0.75})
	assert.Contains(t, buf.String(), "hit_rate=0.75")
	assert.Contains(t, buf.String(), "hits=3")
}

func TestLogger_WithDigest(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: LogLevelDebug, Output: &buf})

	logger.WithDigest("sha256:abc").Debug(context.Background(), "reusing decoded image")
	assert.Contains(t, buf.String(), "digest=sha256:abc")
}
