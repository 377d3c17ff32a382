package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mosaic14/mosaic/internal/api"
	"github.com/mosaic14/mosaic/internal/auth"
	"github.com/mosaic14/mosaic/internal/config"
	"github.com/mosaic14/mosaic/internal/conversation"
	"github.com/mosaic14/mosaic/internal/file"
	"github.com/mosaic14/mosaic/internal/memory"
	"github.com/mosaic14/mosaic/internal/migrations"
	"github.com/mosaic14/mosaic/internal/page"
	"github.com/mosaic14/mosaic/internal/storage"
	"github.com/mosaic14/mosaic/internal/tools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx := context.Background()

	if err := migrations.Up(ctx, cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create connection pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	objects, err := storage.NewObjectStore(ctx, storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		slog.Error("failed to create object store", "error", err)
		os.Exit(1)
	}

	userRepo := auth.NewUserRepository(pool)
	refreshRepo := auth.NewRefreshTokenRepository(pool)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := auth.NewService(userRepo, refreshRepo, tokens, cfg.BcryptCost)

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go purgeExpiredRefreshTokens(cleanupCtx, authService)

	router := api.NewRouter(api.RouterDeps{
		AuthService:      authService,
		Tokens:           tokens,
		UserRepo:         userRepo,
		ConversationRepo: conversation.NewRepository(pool),
		MemoryStore:      memory.NewStore(pool),
		PageRepo:         page.NewRepository(pool),
		FileRepo:         file.NewRepository(pool),
		Objects:          objects,
		Tools:            tools.Builtin(),
		DBPinger:         pool,
		Version:          cfg.Version,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting mosaic server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// purgeExpiredRefreshTokens removes expired refresh token rows at startup and
// then hourly, so consumed-and-forgotten tokens do not accumulate.
func purgeExpiredRefreshTokens(ctx context.Context, svc *auth.Service) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		deleted, err := svc.PurgeExpiredRefreshTokens(ctx)
		if err != nil {
			slog.Error("failed to purge expired refresh tokens", "error", err)
		} else if deleted > 0 {
			slog.Info("purged expired refresh tokens", "deleted", deleted)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
