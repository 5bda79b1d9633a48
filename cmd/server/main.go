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
	"go.uber.org/zap"

	"alcyxob/trainer-scheduler/internal/api"
	"alcyxob/trainer-scheduler/internal/config"
	"alcyxob/trainer-scheduler/internal/logging"
	"alcyxob/trainer-scheduler/internal/repository/backend"
	"alcyxob/trainer-scheduler/internal/schedule"
	"alcyxob/trainer-scheduler/internal/service"
	"alcyxob/trainer-scheduler/internal/storage"
)

// @title Trainer Scheduler API
// @version 1.0
// @description Recurring training sessions, status tracking and calendars for trainers and admins.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	configPath := "."
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.JWT.Secret == "" {
		logger.Fatal("jwt.secret must be set")
	}
	loc, err := cfg.Schedule.Location()
	if err != nil {
		logger.Fatal("Invalid schedule timezone", zap.Error(err))
	}
	logger.Info("Starting Trainer Scheduler",
		zap.String("driver", cfg.Database.Driver),
		zap.String("timezone", loc.String()),
		zap.Bool("cleanup", cfg.Schedule.Cleanup.Enabled))

	// --- Database Connection ---
	stores, err := backend.Open(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Fatal("Could not open database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Error("Failed to close database", zap.Error(err))
		}
	}()
	userRepo, sessionRepo := stores.Users, stores.Sessions

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3, logger)
		if err != nil {
			logger.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
	} else {
		logger.Info("S3 bucket not configured, calendar export disabled")
	}

	// --- Initialize Services ---
	policy := schedule.CleanupPolicy{Enabled: cfg.Schedule.Cleanup.Enabled}
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	sessionService := service.NewSessionService(sessionRepo, policy, loc, logger)
	adminService := service.NewAdminService(userRepo, sessionRepo, loc)
	exportService := service.NewExportService(sessionRepo, fileStorage, cfg.S3.ExportExpiry, loc, logger)

	var sweeps api.SweepTasks
	var scheduler *service.SweepScheduler
	if policy.Enabled {
		scheduler = service.NewSweepScheduler(sessionService, cfg.Schedule.Cleanup.Interval, logger)
		sweeps = scheduler
	}

	// --- Initialize Gin Engine ---
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(logger))

	api.SetupRoutes(router, cfg.JWT.Secret, logger, api.Services{
		Auth:     authService,
		Sessions: sessionService,
		Admin:    adminService,
		Export:   exportService,
		Sweeps:   sweeps,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ListenAndServe failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// In-flight logins may still have started tasks until Shutdown returned.
	if scheduler != nil {
		scheduler.StopAll()
	}
	logger.Info("Server exiting.")
}
