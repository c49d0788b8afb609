package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edutrack/edutrack-api/internal/service"
)

// HealthHandler serves liveness and metrics endpoints.
type HealthHandler struct {
	metrics *service.MetricsService
}

// NewHealthHandler creates a new handler.
func NewHealthHandler(metrics *service.MetricsService) *HealthHandler {
	return &HealthHandler{metrics: metrics}
}

// Health godoc
// @Summary Liveness probe
// @Tags Operational
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Metrics exposes the Prometheus scrape endpoint.
func (h *HealthHandler) Metrics(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
