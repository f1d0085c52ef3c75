package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	backend "github.com/vanek-ai/backend"
	"github.com/vanek-ai/backend/internal/config"
	"github.com/vanek-ai/backend/internal/handler"
	"github.com/vanek-ai/backend/internal/middleware"
	"github.com/vanek-ai/backend/internal/repository"
	"github.com/vanek-ai/backend/internal/service"
	"golang.org/x/time/rate"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database when configured. The service still serves
	// the chat and image routes without one; the message store then
	// answers 500 per request.
	var store repository.Store
	if cfg.HasDatabase() {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if cfg.RunMigrations {
			migrationsFS, err := fs.Sub(backend.MigrationsFS, "migrations")
			if err != nil {
				slog.Error("failed to load embedded migrations", "error", err)
				os.Exit(1)
			}
			if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
				slog.Error("failed to run migrations", "error", err)
				os.Exit(1)
			}
		}

		store = repository.NewMessageStore(pool)
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set, message store disabled")
	}

	// Initialize services
	completion := service.NewCompletionService(cfg.TextGenURL)
	imagen := service.NewImageService(cfg.ImageGenURL)
	var assistant *service.AssistantService
	if cfg.HasOpenAI() {
		assistant = service.NewAssistantService(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	} else {
		slog.Warn("OPENAI_API_KEY not set, gated chat disabled")
	}

	// Initialize handler
	h := handler.New(handler.Deps{
		Cfg:        cfg,
		Completion: completion,
		Assistant:  assistant,
		Imagen:     imagen,
		Store:      store,
	})

	r := chi.NewRouter()
	r.Use(middleware.Recover)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS)
	r.Use(middleware.RateLimit(rate.Limit(config.RateLimitPerSecond), config.RateLimitBurst))

	// Each API route dispatches on method itself, including the
	// OPTIONS preflight, matching the original serverless contract.
	r.HandleFunc("/api/ai-chat", h.AIChat)
	r.HandleFunc("/api/chat", h.Chat)
	r.HandleFunc("/api/ai-image", h.AIImage)
	r.HandleFunc("/api/messages", h.Messages)
	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}

	slog.Info("server stopped gracefully")
}
