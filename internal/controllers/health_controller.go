package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/Conversly/prompt-relay/internal/loaders"
	"github.com/Conversly/prompt-relay/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthController struct {
	store loaders.CompletionStore
}

// NewHealthController accepts a nil store when the completion log is disabled.
func NewHealthController(store loaders.CompletionStore) *HealthController {
	return &HealthController{store: store}
}

// databaseState reports "up", "down" or "disabled".
func (h *HealthController) databaseState(c *gin.Context) (string, bool) {
	if h.store == nil {
		return "disabled", true
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		utils.Zlog.Error("Database health check failed", zap.Error(err))
		return "down", false
	}
	return "up", true
}

// HealthCheck godoc
// @Summary Check application health
// @Description Check if the application and, when configured, the completion log are healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthController) HealthCheck(c *gin.Context) {
	state, ok := h.databaseState(c)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"database":  state,
			"timestamp": time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  state,
		"timestamp": time.Now().UTC(),
	})
}

// Liveness godoc
// @Summary Liveness probe
// @Description Check if the application is alive
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/live [get]
func (h *HealthController) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	})
}

// Readiness godoc
// @Summary Readiness probe
// @Description Check if the application is ready to serve traffic
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/ready [get]
func (h *HealthController) Readiness(c *gin.Context) {
	state, ok := h.databaseState(c)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not ready",
			"database":  state,
			"timestamp": time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"database":  state,
		"timestamp": time.Now().UTC(),
	})
}
