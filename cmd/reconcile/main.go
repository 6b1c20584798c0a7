package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/stylecheck/reconciler/config"
	"github.com/stylecheck/reconciler/internal/domain"
	"github.com/stylecheck/reconciler/internal/infrastructure/cache"
	"github.com/stylecheck/reconciler/internal/infrastructure/catalog"
	"github.com/stylecheck/reconciler/internal/infrastructure/dataset"
	"github.com/stylecheck/reconciler/internal/infrastructure/logger"
	"github.com/stylecheck/reconciler/internal/infrastructure/ratelimit"
	"github.com/stylecheck/reconciler/internal/infrastructure/report"
	"github.com/stylecheck/reconciler/internal/usecase"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := config.NewFlagSet("reconcile")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	// Load configuration
	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     "stderr",
		TimeFormat: logger.DefaultConfig().TimeFormat,
	})
	defer log.Sync()

	profile, err := domain.LookupProfile(cfg.App.Profile)
	if err != nil {
		log.Error("invalid profile", zap.Error(err))
		return 1
	}

	log.Info("starting reconciliation",
		zap.String("profile", profile.Name),
		zap.String("environment", cfg.App.Environment),
		zap.String("catalog", cfg.Catalog.BaseURL),
		zap.Int("concurrency", cfg.Batch.Concurrency),
		zap.Int("rate_limit", cfg.RateLimit.RequestsPerWindow),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	var resultCache *cache.MemoryCache
	if cfg.Cache.Capacity > 0 {
		resultCache = cache.NewBoundedMemoryCache(cfg.Cache.Capacity)
	} else {
		resultCache = cache.NewMemoryCache()
	}

	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL,
		catalog.WithTimeout(cfg.Catalog.RequestTimeout),
		catalog.WithUserAgent(cfg.Catalog.UserAgent),
		catalog.WithLogger(log.Named("catalog")),
	)

	limiter := ratelimit.NewWindowLimiter(cfg.RateLimit.RequestsPerWindow,
		ratelimit.WithWindow(cfg.RateLimit.Window),
		ratelimit.WithResetAfterWait(cfg.RateLimit.ResetAfterWait),
		ratelimit.WithLogger(log.Named("ratelimit")),
	)

	// Initialize usecase layer
	validator := usecase.NewValidationService(resultCache, catalogClient, limiter,
		usecase.ValidationServiceConfig{
			Mode:                profile.Mode,
			MaxRateLimitRetries: cfg.Retry.MaxRateLimitRetries,
			RateLimitBackoff:    cfg.Retry.RateLimitBackoff,
			MaxTimeoutRetries:   cfg.Retry.MaxTimeoutRetries,
			TimeoutBackoff:      cfg.Retry.TimeoutBackoff,
		},
		usecase.WithValidationLogger(log.Named("validator")),
	)

	orchestrator := usecase.NewBatchOrchestrator(validator, usecase.BatchConfig{
		Concurrency: cfg.Batch.Concurrency,
		GroupPause:  cfg.Batch.GroupPause,
	}, log.Named("batch"))

	reconciler := usecase.NewReconciler(profile,
		dataset.NewLoader(cfg.Dataset.Path, log.Named("dataset")),
		orchestrator,
		report.NewFileWriter(cfg.Output.Dir,
			report.WithSQLTable(cfg.Output.SQLTable),
			report.WithLogger(log.Named("report")),
		),
		log,
	)

	result, files, err := reconciler.Run(ctx)
	if err != nil {
		log.Error("reconciliation failed", zap.Error(err))
		return 1
	}

	waits, waited := limiter.Stats()
	log.Info("catalog usage",
		zap.Int64("fetches", validator.Fetches()),
		zap.Int("cached", resultCache.Size()),
		zap.Int("limiter_waits", waits),
		zap.Duration("limiter_wait_total", waited),
	)

	report.PrintSummary(os.Stdout, result, files)
	return 0
}
