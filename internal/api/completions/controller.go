package completions

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Conversly/prompt-relay/internal/utils"
)

type Controller struct {
	svc *Service
}

func NewController(svc *Service) *Controller {
	return &Controller{svc: svc}
}

// Complete handles POST /api/v1/completions/:adapter. Every adapter outcome,
// including failures, is a 200 with success=false and a structured error.
func (c *Controller) Complete(ctx *gin.Context) {
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Zlog.Warn("invalid completion payload", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":     "bad_request",
			"message":   err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	result, err := c.svc.Complete(ctx.Request.Context(), ctx.Param("adapter"), ctx.GetString("request_id"), req.Prompt)
	if errors.Is(err, ErrUnknownAdapter) {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error":     "unknown_adapter",
			"message":   err.Error(),
			"adapters":  c.svc.Adapters(),
			"timestamp": time.Now().UTC(),
		})
		return
	}
	if err != nil {
		utils.Zlog.Error("completion failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":     "internal_error",
			"message":   err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	ctx.JSON(http.StatusOK, result)
}
