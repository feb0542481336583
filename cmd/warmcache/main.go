package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finditnow_backend/internal/app/config"
	"finditnow_backend/internal/app/di"
	"finditnow_backend/internal/platform/env"
	"finditnow_backend/internal/platform/logging"
	"finditnow_backend/internal/platform/objectstore"
	infraredis "finditnow_backend/internal/platform/redis"
)

var errCacheDisabled = errors.New("label cache is disabled: set REDIS_HOST and LABEL_CACHE_TTL")

func main() {
	purge := flag.Bool("purge", false, "delete cached labels before indexing")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall deadline for the warm-up")
	flag.Parse()

	env.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, *purge, *timeout); err != nil {
		slog.Error("warm-up failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, purge bool, timeout time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb == nil {
		return errCacheDisabled
	}
	defer func() { _ = rdb.Close() }()

	awsCfg, err := di.NewAWSConfig(ctx, cfg)
	if err != nil {
		return err
	}
	provider, closeProvider, err := di.NewLabelProvider(ctx, cfg, awsCfg, rdb)
	if err != nil {
		return err
	}
	defer func() { _ = closeProvider() }()
	if !provider.Enabled() {
		return errCacheDisabled
	}

	if purge {
		n, err := provider.Purge(ctx)
		if err != nil {
			return err
		}
		slog.Info("purged cached labels", "deleted", n)
	}

	store := objectstore.NewFromConfig(awsCfg, cfg.Store)
	scanner := di.NewCorpusScanner(cfg, store, provider, di.NewProviderLimiter(cfg))
	report := scanner.Index(ctx)

	slog.Info("warm-up finished",
		"bucket", store.Bucket(),
		"pages", report.Pages,
		"visited", report.Visited,
		"detected", report.Detected,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"aborted", report.Aborted,
	)
	if report.Aborted {
		return errors.New("corpus listing aborted before completion")
	}
	return nil
}
