package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"inquiry-intake-service/internal/handler"
)

// Pinger reports whether a downstream dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter assembles the HTTP surface: health probes, metrics, and the
// Slack events endpoint. rdb may be nil when dedup is disabled.
func NewRouter(events *handler.EventHandler, store Pinger, rdb *redis.Client) *gin.Engine {
	router := gin.Default()
	router.Use(TraceMiddleware())
	router.Use(MetricsMiddleware())

	healthz := func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	}
	router.GET("/healthz", healthz)
	router.HEAD("/healthz", healthz)
	router.GET("/health", healthz)

	router.GET("/readyz", func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.String(http.StatusServiceUnavailable, "sheet unavailable")
			return
		}
		if rdb != nil {
			if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
				c.String(http.StatusServiceUnavailable, "redis unavailable")
				return
			}
		}
		c.String(http.StatusOK, "ready")
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/slack/events", events.HandleEvents)

	return router
}
