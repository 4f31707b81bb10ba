package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/foliohq/folio/internal/app"
	"github.com/foliohq/folio/internal/auth"
	"github.com/foliohq/folio/internal/messages"
	"github.com/foliohq/folio/internal/platform/cache"
	"github.com/foliohq/folio/internal/platform/db"
	"github.com/foliohq/folio/internal/users"
	"github.com/foliohq/folio/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

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

	tokens := auth.NewTokens(cfg.TokenSecret, cfg.LegacyTokenSecret, cfg.TokenTTL)

	var notifier messages.Notifier
	if cfg.RedisAddr != "" {
		redisClient, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, revocation and jobs disabled", slog.Any("error", err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
			tokens.WithRevocationList(auth.NewRedisRevocations(redisClient))

			jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
			defer func() {
				if err := jobClient.Close(); err != nil {
					logger.Warn("jobs client close", slog.Any("error", err))
				}
			}()
			notifier = jobs.NewMessageNotifier(jobClient, cfg.NotifyEmail)
		}
	}

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, tokens)
	authHandler := auth.NewHandler(logger, authService, cfg.TokenCookieName)
	authMiddleware := auth.Middleware{Tokens: tokens, CookieName: cfg.TokenCookieName, Logger: logger}

	messagesRepo := messages.NewRepository(pool)
	messagesService := messages.NewService(messagesRepo, notifier, logger)
	messagesHandler := messages.NewHandler(logger, messagesService)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
		MessagesHandler: messagesHandler,
		UsersHandler:    usersHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
