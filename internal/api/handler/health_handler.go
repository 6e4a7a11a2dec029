package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler serves liveness and readiness endpoints
type HealthHandler struct {
	logger   *slog.Logger
	service  string
	dbClient HealthChecker
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(deps *Dependencies) *HealthHandler {
	return &HealthHandler{
		logger:   deps.Logger,
		service:  deps.ServiceName,
		dbClient: deps.DBClient,
	}
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Backend is running...")
}

// Health handles GET /health and reports database reachability
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.dbClient.HealthCheck(ctx); err != nil {
		requestLogger(c, h.logger).Warn("Health check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"service":  h.service,
			"database": "down",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  h.service,
		"database": "up",
	})
}
