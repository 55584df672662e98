package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/qraftyhq/api/docs"
	"github.com/qraftyhq/api/internal/config"
	"github.com/qraftyhq/api/internal/rest"
	"github.com/qraftyhq/api/internal/store"
	postgresStore "github.com/qraftyhq/api/internal/store/postgres"
	"github.com/qraftyhq/api/internal/telemetry"

	"github.com/joho/godotenv"
)

// @title          Qrafty API
// @version        1.0
// @description    API for QR profiles, interaction tracking, and the business marketplace
// @host           api.qrafty.app
// @BasePath       /
// @securityDefinitions.apikey CookieAuth
// @in             cookie
// @name           qrafty_session
func main() {
	// Load .env if present (no error if missing - production uses real env vars)
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	redactedDB := cfg.Database.URL
	if u, err := url.Parse(cfg.Database.URL); err == nil && u.User != nil {
		u.User = url.UserPassword("***", "***")
		redactedDB = u.String()
	}

	logger.Info("starting qrafty API",
		"addr", cfg.API.Addr,
		"env", cfg.Environment,
		"db", redactedDB,
	)

	st, err := postgresStore.New(ctx, store.Config{
		DatabaseURL:     cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		AutoMigrate:     cfg.Database.AutoMigrate,
	})
	if err != nil {
		logger.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close store", "error", cerr)
		}
	}()

	tel := telemetry.New(cfg.PostHog.APIKey, cfg.PostHog.Endpoint)
	defer tel.Close()

	srv := rest.NewServer(st, cfg, tel, docs.OpenAPIYAML)

	httpSrv := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           srv.Router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       cfg.API.ReadTimeout,
		WriteTimeout:      cfg.API.WriteTimeout,
		IdleTimeout:       cfg.API.IdleTimeout,
	}

	// Expired session rows accumulate forever otherwise.
	go sessionJanitor(ctx, st, logger)

	httpErrCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.API.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			httpErrCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-httpErrCh:
		logger.Error("HTTP server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		_ = httpSrv.Close()
	} else {
		logger.Info("HTTP server shut down gracefully")
	}
}

func sessionJanitor(ctx context.Context, st store.Store, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := st.DeleteExpiredSessions(ctx); err != nil {
				logger.Warn("failed to prune expired sessions", "error", err)
			}
		}
	}
}

func setupLogger(levelStr, format string) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}
