// File: /main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"questbridge-api/bootstrap"
	"questbridge-api/config"
	"questbridge-api/middleware"
	"questbridge-api/routes"
	"questbridge-api/services"
)

func main() {
	inj := bootstrap.BuildContainer()

	cfg, err := do.Invoke[*config.Config](inj)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	logger := do.MustInvoke[*zap.Logger](inj)
	defer func() { _ = logger.Sync() }()

	db := do.MustInvoke[*gorm.DB](inj)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(middleware.CORS(cfg.CORS.AllowOrigins))
	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.ValidateJSON())

	routes.SetupRoutes(router, cfg, do.MustInvoke[services.AuthService](inj), do.MustInvoke[routes.Controllers](inj))

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting QuestBridge API", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if closer, ok := do.MustInvoke[services.EventPublisher](inj).(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if rdb := do.MustInvoke[*redis.Client](inj); rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
