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

	redisv9 "github.com/redis/go-redis/v9"

	"invest_backend/internal/app/di"
	"invest_backend/internal/app/router"
	dictadapters "invest_backend/internal/feature/symboldictionary/adapters"
	"invest_backend/internal/platform/config"
	infradb "invest_backend/internal/platform/db"
	"invest_backend/internal/platform/http/handler"
	jwtmw "invest_backend/internal/platform/jwt"
	infraredis "invest_backend/internal/platform/redis"
)

func main() {
	config.LoadEnv()
	config.SetupLogger()

	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.OpenDB()
	if err != nil {
		return err
	}

	// Redis
	var rdb *redisv9.Client
	if rcfg := infraredis.LoadConfigFromEnv(); rcfg.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, rcfg); err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	catalog, err := dictadapters.LoadCatalog(config.SourcesConfigPath())
	if err != nil {
		return err
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}

	app, err := di.NewApp(db, rdb, catalog, secret)
	if err != nil {
		return err
	}

	checks := []handler.Check{handler.DBCheck(db)}
	if rc := handler.RedisCheck(rdb); rc != nil {
		checks = append(checks, *rc)
	}

	// ルータ生成
	r := router.NewRouter(app.Auth, app.Symbols, app.Dictionary,
		handler.Ready(2*time.Second, checks...), app.Metrics.Handler(), config.AllowedOrigins())

	srv := &http.Server{
		Addr:              config.ServerAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "sources", app.Register.KnownSources())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
