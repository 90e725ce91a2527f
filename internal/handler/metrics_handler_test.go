package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/match-scheduler-gateway/internal/service"
)

func newProbeRouter(h *MetricsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/metrics", h.Prometheus)
	return router
}

func TestReadyReportsFailingDependency(t *testing.T) {
	h := NewMetricsHandler(nil, map[string]Pinger{
		"postgres": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("dial tcp: connection refused") },
	})
	router := newProbeRouter(h)

	w := doRequest(router, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	assert.Contains(t, w.Body.String(), "connection refused")

	h.checks["redis"] = func(ctx context.Context) error { return nil }
	w = doRequest(router, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ready"`)
}

func TestPrometheusExposesCollectors(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordSubmission("swiss", "succeeded", 8)
	router := newProbeRouter(NewMetricsHandler(metrics, nil))

	w := doRequest(router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "schedule_submissions_total")

	w = doRequest(newProbeRouter(NewMetricsHandler(nil, nil)), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doRequest(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
