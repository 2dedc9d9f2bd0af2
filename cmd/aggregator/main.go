package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"pressfolio/internal/aggregator"
	"pressfolio/internal/api"
	"pressfolio/internal/auth"
	"pressfolio/internal/cache"
	"pressfolio/internal/config"
	"pressfolio/internal/logger"
	"pressfolio/internal/scraper"
	"pressfolio/internal/storage"
)

func main() {
	cfg := config.Load()

	output := "stdout"
	if cfg.LogFile != "" {
		output = cfg.LogFile
	}
	logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: output,
		Pretty: cfg.Env == "development",
	})

	log := logger.Get()
	log.Info().Msg("Starting aggregator...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gateway, err := storage.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Postgres")
	}
	defer gateway.Close()

	if err := gateway.Ensure(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	bodies := newBodyCache(cfg)
	defer bodies.Close()

	scrapers, err := scraper.FromConfig(cfg, bodies)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid scraper configuration")
	}
	if len(scrapers) == 0 {
		log.Warn().Msg("No scrapers configured; runs will only ensure the system owner")
	}

	agg := aggregator.New(gateway, auth.NewPasswordHasher(), cfg.AggregatorEmail, cfg.AggregatorPassword, scrapers)

	trigger := make(chan struct{}, 1)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
	})
	api.SetupRoutes(app, agg, trigger, cfg)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting ops API")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("Ops API stopped")
		}
	}()

	runLoop(ctx, agg, trigger, cfg.Interval)

	log.Info().Msg("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Ops API forced to shut down")
	}
	log.Info().Msg("Aggregator exited")
}

// runLoop runs one aggregation pass immediately, then on every scheduler tick
// and manual trigger until the context is cancelled. A failed run is logged
// and the next tick proceeds normally.
func runLoop(ctx context.Context, agg *aggregator.Aggregator, trigger <-chan struct{}, interval time.Duration) {
	log := logger.Get()
	log.Info().Dur("interval", interval).Msg("Scheduler started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := agg.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Aggregation run failed")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-trigger:
		}
	}
}

// newBodyCache prefers Redis when configured and falls back to the
// in-process cache otherwise.
func newBodyCache(cfg *config.Config) cache.BodyCache {
	if cfg.RedisURL == "" {
		return cache.NewMemory(cfg.CacheTTL)
	}
	redisCache, err := cache.NewRedis(cfg.RedisURL, cfg.RedisPrefix, cfg.CacheTTL)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("Redis unavailable, using in-process feed cache")
		return cache.NewMemory(cfg.CacheTTL)
	}
	return redisCache
}
