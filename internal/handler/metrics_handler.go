package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/interview-timetable-api/internal/service"
	"github.com/noah-isme/interview-timetable-api/pkg/cache"
)

type sessionCounter interface {
	Count() int
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics  *service.MetricsService
	sessions sessionCounter
	redis    cache.Pinger
}

// NewMetricsHandler constructs a metrics handler. redis may be nil when the
// view cache is disabled.
func NewMetricsHandler(metrics *service.MetricsService, sessions sessionCounter, redis cache.Pinger) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, sessions: sessions, redis: redis}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	if h.sessions != nil {
		h.metrics.SetActiveSessions(h.sessions.Count())
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health godoc
// @Summary Liveness probe
// @Tags Ops
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready godoc
// @Summary Readiness probe
// @Tags Ops
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /ready [get]
func (h *MetricsHandler) Ready(c *gin.Context) {
	if err := cache.Ready(c.Request.Context(), h.redis); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "cache": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
