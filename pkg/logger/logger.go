package logger

import (
	"context"

	"go.uber.org/zap"

	"inquiry-intake-service/pkg/trace"
)

// NewLogger builds the production zap logger used across the service.
func NewLogger() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return l
}

// WithTrace attaches the request trace_id from ctx to the logger, if present.
func WithTrace(ctx context.Context, l *zap.Logger) *zap.Logger {
	traceID := trace.FromContext(ctx)
	if traceID != "" {
		return l.With(zap.String("trace_id", traceID))
	}
	return l
}
