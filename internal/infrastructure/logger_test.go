package infrastructure

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"garbage", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.level))
		})
	}
}

func TestRunIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRunID(ctx))

	ctx = WithRunID(ctx, "run-123")
	assert.Equal(t, "run-123", GetRunID(ctx))
}

func TestContextWithRunID(t *testing.T) {
	ctx := ContextWithRunID(context.Background())
	assert.NotEmpty(t, GetRunID(ctx))

	// A second context gets a different ID
	other := ContextWithRunID(context.Background())
	assert.NotEqual(t, GetRunID(ctx), GetRunID(other))
}

func TestLoggerWithContext(t *testing.T) {
	logger := LoggerWithContext(context.Background())
	assert.NotNil(t, logger)

	logger = LoggerWithContext(WithRunID(context.Background(), "abc"))
	assert.NotNil(t, logger)
}
