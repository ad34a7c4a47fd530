package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// contextKey is a type for context keys
type contextKey string

// RunIDContextKey is the key for storing the pipeline run ID in context
const RunIDContextKey contextKey = "run_id"

// GenerateRunID creates a new unique run ID using UUID v4
func GenerateRunID() string {
	return uuid.New().String()
}

// WithRunID stores a run ID in the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDContextKey, runID)
}

// GetRunID extracts the run ID from the context, or "" if absent
func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(RunIDContextKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRunID creates a new context with a generated run ID
func ContextWithRunID(ctx context.Context) context.Context {
	return WithRunID(ctx, GenerateRunID())
}

// LoggerWithContext creates a logger that includes the run ID from
// context. This is the preferred way to get a logger inside pipeline
// stages.
func LoggerWithContext(ctx context.Context) *slog.Logger {
	logger := GetLogger()
	if runID := GetRunID(ctx); runID != "" {
		logger = logger.With("run_id", runID)
	}
	return logger
}
