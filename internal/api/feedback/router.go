package feedback

import (
	"github.com/Conversly/prompt-relay/internal/loaders"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(api *gin.RouterGroup, store loaders.CompletionStore) {
	svc := NewService(store)
	ctrl := NewController(svc)
	api.POST("/feedback", ctrl.Submit)
}
