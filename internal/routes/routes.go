package routes

import (
	"net/http"

	"github.com/Conversly/prompt-relay/internal/api/completions"
	"github.com/Conversly/prompt-relay/internal/completion"
	"github.com/Conversly/prompt-relay/internal/config"
	"github.com/Conversly/prompt-relay/internal/loaders"
	"github.com/Conversly/prompt-relay/internal/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all application routes. store may be nil.
func SetupRoutes(router *gin.Engine, cfg *config.Config, store loaders.CompletionStore, adapters ...completion.Completer) {
	// Apply global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RequestID())

	svc := completions.NewService(store, adapters...)

	// Setup route groups
	SetupHealthRoutes(router, store)
	SetupAPIRoutes(router, cfg, store, svc)
	Setup404Handler(router)
}

// Setup404Handler configures the 404 handler
func Setup404Handler(router *gin.Engine) {
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "The requested resource was not found",
			"path":    c.Request.URL.Path,
		})
	})
}
