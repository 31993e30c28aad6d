package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type contextKey struct{}

// GenerateTraceID returns a fresh random trace ID.
func GenerateTraceID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// FromContext returns the trace ID stored in ctx, or "".
func FromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(contextKey{}).(string); ok {
		return traceID
	}
	return ""
}

// WithContext stores the trace ID in ctx.
func WithContext(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, contextKey{}, traceID)
}

// HeaderName is the HTTP header carrying the trace ID.
func HeaderName() string {
	return "X-Trace-ID"
}
