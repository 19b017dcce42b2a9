package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Conversly/prompt-relay/internal/config"
	"github.com/Conversly/prompt-relay/internal/llm"
	"github.com/Conversly/prompt-relay/internal/loaders"
	"github.com/Conversly/prompt-relay/internal/routes"
	"github.com/Conversly/prompt-relay/internal/utils"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		fmt.Println("Warning: Error loading .env file", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	cleanup := utils.InitLogger(cfg)
	defer cleanup()

	utils.Zlog.Info("Starting application",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.ServerPort),
		zap.String("hosted_provider", cfg.HostedProvider),
		zap.String("local_endpoint", cfg.OllamaEndpoint))

	ctx := context.Background()

	// The completion log is optional; store stays a nil interface without it.
	var store loaders.CompletionStore
	if cfg.DatabaseURL != "" {
		db, err := loaders.NewPostgresClient(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			utils.Zlog.Error("Failed to create database client", zap.Error(err))
			os.Exit(1)
		}
		defer func() {
			if err := db.Close(); err != nil {
				utils.Zlog.Error("Error closing database connection", zap.Error(err))
			}
		}()
		store = db
	} else {
		utils.Zlog.Info("DATABASE_URL not set, completion log disabled")
	}

	chatModel, err := llm.NewChatModel(ctx, cfg, nil)
	if err != nil {
		utils.Zlog.Error("Failed to create hosted chat model", zap.Error(err))
		os.Exit(1)
	}

	hosted := llm.NewHostedAdapter(chatModel, llm.HostedConfig{
		Provider:    cfg.HostedProvider,
		Model:       cfg.HostedModel,
		MaxTokens:   cfg.HostedMaxTokens,
		Temperature: cfg.HostedTemperature,
	})

	// One client shared by every local call.
	local := llm.NewLocalAdapter(&http.Client{Timeout: cfg.OllamaTimeout}, cfg.OllamaEndpoint, cfg.OllamaModel)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	routes.SetupRoutes(router, cfg, store, hosted, local)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		utils.Zlog.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Zlog.Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Zlog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Zlog.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	utils.Zlog.Info("Server exited")
}
