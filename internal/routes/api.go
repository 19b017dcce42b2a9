package routes

import (
	"github.com/Conversly/prompt-relay/internal/api/completions"
	"github.com/Conversly/prompt-relay/internal/api/feedback"
	"github.com/Conversly/prompt-relay/internal/config"
	"github.com/Conversly/prompt-relay/internal/controllers"
	"github.com/Conversly/prompt-relay/internal/loaders"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes mounts everything under /api/v1
func SetupAPIRoutes(router *gin.Engine, cfg *config.Config, store loaders.CompletionStore, svc *completions.Service) {
	api := router.Group("/api/v1")

	systemController := controllers.NewSystemController(cfg, svc.Adapters())
	api.GET("/status", systemController.Status)
	api.GET("/info", systemController.Info)

	completions.RegisterRoutes(api, svc)
	feedback.RegisterRoutes(api, store)
}
