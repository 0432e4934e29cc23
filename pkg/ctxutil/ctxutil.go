package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	runIDKey      ctxKey = "run_id"
	documentIDKey ctxKey = "document_id"
)

// WithRunID stores the import run ID in the context.
func WithRunID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromCtx extracts the import run ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func RunIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(runIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithDocumentID stores the ID of the document being processed.
func WithDocumentID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, documentIDKey, id)
}

// DocumentIDFromCtx extracts the document ID from the context.
// Returns an empty string if absent.
func DocumentIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(documentIDKey).(string)
	return id
}

// LogAttrs returns the context values as slog key/value pairs.
func LogAttrs(ctx context.Context) []any {
	var attrs []any
	if id, ok := RunIDFromCtx(ctx); ok {
		attrs = append(attrs, "run_id", id.String())
	}
	if id := DocumentIDFromCtx(ctx); id != "" {
		attrs = append(attrs, "document_id", id)
	}
	return attrs
}
