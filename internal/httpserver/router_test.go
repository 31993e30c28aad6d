package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"inquiry-intake-service/internal/handler"
	"inquiry-intake-service/pkg/trace"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	return f.err
}

func newTestRouter(store Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	events := handler.NewEventHandler(nil, nil, nil, "", zap.NewNop())
	return NewRouter(events, store, nil)
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&fakePinger{})

	rec := get(router, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = get(router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	rec := get(newTestRouter(&fakePinger{}), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(newTestRouter(&fakePinger{err: errors.New("unreachable")}), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(newTestRouter(&fakePinger{}), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTraceHeaderEchoed(t *testing.T) {
	router := newTestRouter(&fakePinger{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(trace.HeaderName(), "trace-abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "trace-abc", rec.Header().Get(trace.HeaderName()))
}

func TestTraceHeaderGenerated(t *testing.T) {
	rec := get(newTestRouter(&fakePinger{}), "/healthz")
	assert.NotEmpty(t, rec.Header().Get(trace.HeaderName()))
}
