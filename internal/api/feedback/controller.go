package feedback

import (
	"errors"
	"net/http"
	"time"

	"github.com/Conversly/prompt-relay/internal/loaders"
	"github.com/Conversly/prompt-relay/internal/types"
	"github.com/Conversly/prompt-relay/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Controller struct {
	svc *Service
}

func NewController(svc *Service) *Controller {
	return &Controller{svc: svc}
}

func (c *Controller) Submit(ctx *gin.Context) {
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Zlog.Warn("invalid /feedback payload", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":     "bad_request",
			"message":   err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	if err := c.svc.SubmitFeedback(ctx.Request.Context(), &req); err != nil {
		utils.Zlog.Warn("feedback update failed", zap.Error(err))
		ctx.JSON(statusFor(err), gin.H{
			"error":     "feedback_error",
			"message":   err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	res := Response{
		RequestID:    ctx.GetString("request_id"),
		BaseResponse: types.BaseResponse{Success: true},
	}
	ctx.JSON(http.StatusOK, res)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrStoreDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, loaders.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
