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

	"finditnow_backend/internal/app/config"
	"finditnow_backend/internal/app/di"
	"finditnow_backend/internal/app/router"
	"finditnow_backend/internal/platform/env"
	"finditnow_backend/internal/platform/logging"
	"finditnow_backend/internal/platform/objectstore"
	infraredis "finditnow_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	env.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis（任意）
	rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable. Running without label cache.", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	awsCfg, err := di.NewAWSConfig(ctx, cfg)
	if err != nil {
		return err
	}
	store := objectstore.NewFromConfig(awsCfg, cfg.Store)

	provider, closeProvider, err := di.NewLabelProvider(ctx, cfg, awsCfg, rdb)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeProvider(); err != nil {
			slog.Error("failed to close label provider", "error", err)
		}
	}()

	// ハンドラー
	searchH := di.NewSearchHandler(cfg, store, provider)
	itemsH := di.NewFoundItemsHandler(cfg, store)
	ready := func(ctx context.Context) error {
		_, err := store.ListObjects(ctx, "")
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.NewRouter(searchH, itemsH, ready),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "bucket", store.Bucket(), "provider", cfg.Provider.Name)
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

	slog.Info("shutting down server", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
