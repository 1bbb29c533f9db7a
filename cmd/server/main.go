package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"chat-relay-backend/internal/config"
	"chat-relay-backend/internal/database"
	"chat-relay-backend/internal/handlers"
	"chat-relay-backend/internal/logx"
	"chat-relay-backend/internal/metrics"
	"chat-relay-backend/internal/middleware"
	"chat-relay-backend/internal/router"
	"chat-relay-backend/internal/services"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	logx.Configure(cfg.LogLevel, cfg.IsDevelopment())
	logx.Log.Info().Msg("🚀 Starting chat relay...")
	logx.Log.Info().Msg("✓ Environment variables loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, cfg)
	stop()
	if err != nil {
		logx.Log.Error().Err(err).Msg("✗ Server stopped")
		os.Exit(1)
	}
}

// run serves until ctx is canceled or the listener fails. Everything it opens
// is closed before it returns.
func run(ctx context.Context, cfg *config.Config) error {
	// ──── Step 2: Metrics Registry ────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)

	// ──── Step 3: Rate Limiter (optional) ────
	var limiter middleware.Limiter
	if cfg.RateLimitPerMinute > 0 {
		if cfg.RedisURL != "" {
			client, err := database.NewRedisClient(ctx, cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("redis connection failed: %w", err)
			}
			defer client.Close()
			limiter = middleware.NewRedisRateLimiter(client, cfg.RateLimitPerMinute, time.Minute)
			logx.Log.Info().Int("per_minute", cfg.RateLimitPerMinute).Msg("✓ Redis rate limiter enabled")
		} else {
			rl := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
			defer rl.Stop()
			limiter = rl
			logx.Log.Info().Int("per_minute", cfg.RateLimitPerMinute).Msg("✓ In-memory rate limiter enabled")
		}
	}

	// ──── Step 4: Upstream Client ────
	chatService := services.NewChatService(services.ChatOptions{
		APIKey:        cfg.OpenAIAPIKey,
		URL:           cfg.UpstreamURL,
		Model:         cfg.Model,
		MaxTokens:     cfg.MaxTokens,
		SystemPrompt:  cfg.SystemPrompt,
		Timeout:       cfg.UpstreamTimeout,
		MaxConcurrent: cfg.UpstreamMaxConcurrent,
	})
	logx.Log.Info().Str("model", cfg.Model).Str("upstream", cfg.UpstreamURL).Msg("✓ Chat completions client initialized")

	// ──── Step 5: Start HTTP Server ────
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router.New(handlers.NewChatHandler(chatService), limiter, reg, cfg.PublicDir),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logx.Log.Info().Msgf("✓ Server is running on http://localhost:%s", cfg.Port)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	logx.Log.Info().Msg("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
