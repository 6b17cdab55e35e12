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

	"github.com/joho/godotenv"

	"github.com/postboard/postboard-go/internal/config"
	"github.com/postboard/postboard-go/internal/crypto"
	"github.com/postboard/postboard-go/internal/handler"
	"github.com/postboard/postboard-go/internal/repository"
	"github.com/postboard/postboard-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg))

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func run(cfg config.Config) error {
	dialect, err := repository.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}

	openCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := repository.Open(openCtx, dialect, cfg.DatabaseDSN)
	cancel()
	if err != nil {
		return err
	}
	defer store.Close()

	hasher := crypto.NewHasher(crypto.DefaultHashParams())
	tokens := crypto.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	router := handler.NewRouter(handler.Services{
		Auth:      service.NewAuthService(store, hasher, tokens),
		Accounts:  service.NewAccountService(store),
		Posts:     service.NewPostService(store),
		Likes:     service.NewLikeService(store),
		Analytics: service.NewAnalyticsService(store),
	}, handler.RouterConfig{
		AuthRateLimitRPS:   cfg.AuthRateRPS,
		AuthRateLimitBurst: cfg.AuthRateBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "db", dialect)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}
