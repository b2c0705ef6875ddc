package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	database "github.com/FACorreiaa/go-group-trip-planner/app/db"
	appLogger "github.com/FACorreiaa/go-group-trip-planner/app/logger"
	appMiddleware "github.com/FACorreiaa/go-group-trip-planner/app/middleware"
	"github.com/FACorreiaa/go-group-trip-planner/app/tracer"
	"github.com/FACorreiaa/go-group-trip-planner/config"
	_ "github.com/FACorreiaa/go-group-trip-planner/docs"
	"github.com/FACorreiaa/go-group-trip-planner/internal/container"
	"github.com/FACorreiaa/go-group-trip-planner/internal/router"
)

// @title						Group Trip Planner API
// @version					1.0
// @description				Builds group knowledge from member personas and turns it into recommendations and trip plans.
// @BasePath					/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := appLogger.New(cfg.Mode, cfg.Debug)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metricsPort := ""
	if cfg.Handlers.Prometheus.Enabled {
		metricsPort = cfg.Handlers.Prometheus.Port
	}
	otelProvider, err := tracer.Init(metricsPort, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			logger.Error("Telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Run migrations *before* initializing the main pool
	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	c, err := container.NewContainer(ctx, &cfg, logger)
	if err != nil {
		logger.Error("Failed to build application container", slog.Any("error", err))
		os.Exit(1)
	}
	defer c.Close()

	if !database.WaitForDB(ctx, c.Pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	var authenticate func(http.Handler) http.Handler
	if cfg.Server.JWTSecret != "" {
		authenticate = appMiddleware.Authenticate([]byte(cfg.Server.JWTSecret), "", logger)
	} else {
		logger.Warn("JWT_SECRET is empty, API routes are served without authentication")
	}

	handler := router.SetupRouter(&router.Config{
		UserHandler:            c.UserHandler,
		GroupHandler:           c.GroupHandler,
		PlanHandler:            c.PlanHandler,
		RecommendationHandler:  c.RecommendationHandler,
		AuthenticateMiddleware: authenticate,
		AllowedOrigins:         cfg.Server.AllowedOrigins,
		RequestTimeout:         cfg.Server.Timeout,
		Logger:                 logger,
	})

	// Model calls dominate request time, so the write deadline follows the request timeout.
	writeTimeout := cfg.Server.Timeout + 10*time.Second
	if cfg.Server.Timeout <= 0 {
		writeTimeout = 3 * time.Minute
	}

	serverAddress := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:              serverAddress,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}
	logger.Info("Application shut down complete.")
}
