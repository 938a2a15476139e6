// Package logger provides structured logging setup using slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// operationIDKey is the context key for operation/correlation IDs.
type operationIDKey struct{}

// New creates a new structured JSON logger writing to stderr, keeping
// stdout free for command output.
func New(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a structured JSON logger writing to w.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// WithOperationID returns a new context carrying the given operation ID.
// Every reconciliation entry point gets one so its writes can be traced.
func WithOperationID(ctx context.Context, operationID string) context.Context {
	return context.WithValue(ctx, operationIDKey{}, operationID)
}

// OperationIDFromContext extracts the operation ID from the context.
func OperationIDFromContext(ctx context.Context) string {
	if v := ctx.Value(operationIDKey{}); v != nil {
		return v.(string)
	}
	return ""
}

// FromContext returns a logger with context fields attached.
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if opID := OperationIDFromContext(ctx); opID != "" {
		return base.With("operation_id", opID)
	}
	return base
}
