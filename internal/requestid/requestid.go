// Package requestid attaches a correlation ID to one match/extract call so a
// batch of CLI invocations can be traced through log output.
package requestid

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxKey struct{}

// New generates a fresh request ID.
func New() string {
	return uuid.NewString()
}

// WithContext returns a copy of ctx carrying id, retrievable with FromContext.
func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request ID stored in ctx, or "" if none was set.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Field returns a zap field of the form request_id=<id>, ready to attach to
// any log line produced while handling that request.
func Field(id string) zap.Field {
	return zap.String("request_id", id)
}
