package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-optimizer/internal/service"
)

type pingerStub struct{ err error }

func (p pingerStub) Ping(ctx context.Context) error { return p.err }

func newMetricsRouter(h *MetricsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/metrics", h.Prometheus)
	return router
}

func TestMetricsHandlerHealthReportsSnapshot(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.ObserveGeneration(time.Millisecond, nil, 80, 0)
	router := newMetricsRouter(NewMetricsHandler(metrics, nil))

	w := serve(router, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"generations":1`)
}

func TestMetricsHandlerReady(t *testing.T) {
	h := NewMetricsHandler(nil, map[string]Pinger{"database": pingerStub{}, "redis": pingerStub{}})
	w := serve(newMetricsRouter(h), http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ready"`)

	h = NewMetricsHandler(nil, map[string]Pinger{"database": pingerStub{err: errors.New("connection refused")}})
	w = serve(newMetricsRouter(h), http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.ObserveGeneration(time.Millisecond, nil, 80, 0)
	w := serve(newMetricsRouter(NewMetricsHandler(metrics, nil)), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "timetable_generations_total")

	w = httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	newMetricsRouter(NewMetricsHandler(nil, nil)).ServeHTTP(w, req)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
