package routes

import (
	"net/http"

	"github.com/Conversly/prompt-relay/internal/controllers"
	"github.com/Conversly/prompt-relay/internal/loaders"
	"github.com/gin-gonic/gin"
)

// SetupHealthRoutes configures health check endpoints
func SetupHealthRoutes(router *gin.Engine, store loaders.CompletionStore) {
	healthController := controllers.NewHealthController(store)

	// Root endpoint
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	router.GET("/health", healthController.HealthCheck)
	router.GET("/health/live", healthController.Liveness)
	router.GET("/health/ready", healthController.Readiness)
}
