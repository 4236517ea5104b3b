package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/caiobertoldo/living-portfolio/internal/api"
	"github.com/caiobertoldo/living-portfolio/internal/config"
	"github.com/caiobertoldo/living-portfolio/internal/github"
	"github.com/caiobertoldo/living-portfolio/internal/portfolio"
	"github.com/caiobertoldo/living-portfolio/internal/settings"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	setupLogging(cfg)

	if cfg.GitHubToken == "" {
		slog.Warn("GITHUB_TOKEN not set, using unauthenticated GitHub API (rate limited)")
	}

	githubClient := github.NewClient(github.Options{
		Token:   cfg.GitHubToken,
		BaseURL: cfg.GitHubAPIURL,
		Timeout: cfg.GitHubTimeout,
	})

	routerResult := api.NewRouter(&api.RouterConfig{
		Source:         portfolio.NewSource(githubClient, cfg.GitHubUsername),
		Store:          settings.NopStore{},
		Baseline:       portfolio.DefaultBaseline,
		Upstream:       githubClient,
		CORSOrigins:    cfg.CORSOrigins,
		AllowAllOrigin: cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     routerResult.Router,
		ReadTimeout: 15 * time.Second,
		// The page makes three sequential upstream calls before rendering
		WriteTimeout: 3*cfg.GitHubTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port, "account", cfg.GitHubUsername, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	routerResult.RateLimiters.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Server exited")
}

func setupLogging(cfg *config.Config) {
	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}
