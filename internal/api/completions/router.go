package completions

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the completion endpoint on api.
func RegisterRoutes(api *gin.RouterGroup, svc *Service) {
	ctrl := NewController(svc)
	api.POST("/completions/:adapter", ctrl.Complete)
}
