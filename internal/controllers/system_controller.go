package controllers

import (
	"net/http"
	"time"

	"github.com/Conversly/prompt-relay/internal/config"
	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

type SystemController struct {
	cfg      *config.Config
	adapters []string
}

func NewSystemController(cfg *config.Config, adapters []string) *SystemController {
	return &SystemController{cfg: cfg, adapters: adapters}
}

// Status godoc
// @Summary Get system status
// @Description Get current system status information
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/status [get]
func (s *SystemController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     s.cfg.ServiceName,
		"version":     version,
		"environment": s.cfg.Environment,
		"hostname":    s.cfg.Hostname,
		"adapters":    s.adapters,
		"timestamp":   time.Now().UTC(),
	})
}

// Info godoc
// @Summary Get system information
// @Description Get detailed system information, including the configured models. Credentials are never included.
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/info [get]
func (s *SystemController) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     s.cfg.ServiceName,
		"version":     version,
		"environment": s.cfg.Environment,
		"hostname":    s.cfg.Hostname,
		"debug":       s.cfg.Debug,
		"log_level":   s.cfg.LogLevel,
		"hosted": gin.H{
			"provider":    s.cfg.HostedProvider,
			"model":       s.cfg.HostedModel,
			"max_tokens":  s.cfg.HostedMaxTokens,
			"temperature": s.cfg.HostedTemperature,
			"key_count":   len(s.cfg.HostedAPIKeys()),
		},
		"local": gin.H{
			"endpoint": s.cfg.OllamaEndpoint,
			"model":    s.cfg.OllamaModel,
		},
		"completion_log": s.cfg.DatabaseURL != "",
		"timestamp":      time.Now().UTC(),
	})
}
