package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/RianNegreiros/ai-powered-task-app/internal/app"
	"github.com/RianNegreiros/ai-powered-task-app/internal/auth"
	"github.com/RianNegreiros/ai-powered-task-app/internal/observability"
	"github.com/RianNegreiros/ai-powered-task-app/internal/platform/cache"
	"github.com/RianNegreiros/ai-powered-task-app/internal/platform/db"
	"github.com/RianNegreiros/ai-powered-task-app/internal/tags"
	"github.com/RianNegreiros/ai-powered-task-app/internal/tasks"
	"github.com/RianNegreiros/ai-powered-task-app/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, tag list cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	codec := auth.NewCodec([]byte(cfg.JWTSecret), cfg.JWTIssuer, nil)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, auth.NewPasswordHasher(), codec, auth.ServiceConfig{
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	}, logger, metrics)
	authHandler := auth.NewHandler(logger, authService)
	authMiddleware := auth.NewMiddleware(codec, logger, metrics)

	taskRepo := tasks.NewRepository(pool)
	taskService := tasks.NewService(taskRepo, logger)
	taskHandler := tasks.NewHandler(logger, taskService)

	tagRepo := tags.NewRepository(pool)
	tagCache := tags.NewListCache(redisClient, 10*time.Minute)
	tagService := tags.NewService(tagRepo, tagCache, logger)
	tagHandler := tags.NewHandler(logger, tagService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		TaskHandler:    taskHandler,
		TagHandler:     tagHandler,
		JobHandler:     jobHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
