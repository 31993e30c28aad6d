package httpserver

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"inquiry-intake-service/pkg/metrics"
	"inquiry-intake-service/pkg/trace"
)

// TraceMiddleware propagates an incoming trace ID or mints a new one, and
// echoes it back on the response.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(trace.HeaderName())
		if traceID == "" {
			traceID = trace.GenerateTraceID()
		}
		ctx := trace.WithContext(c.Request.Context(), traceID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(trace.HeaderName(), traceID)
		c.Next()
	}
}

// MetricsMiddleware records per-route request latency.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(
			c.Request.Method,
			path,
			fmt.Sprintf("%d", c.Writer.Status()),
			time.Since(start),
		)
	}
}
