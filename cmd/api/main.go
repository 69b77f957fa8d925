// Command api is the CourtSync Data API server.
//
// Usage:
//
//	courtsync-api
//	API_PORT=8080 courtsync-api

// @title CourtSync Data API
// @version 1.0.0
// @description NBA data API with sync-on-miss reads: games, teams, players, and derived season/career statistics. Misses pull from the upstream providers under a rate-limit-aware client.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name CourtSync
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/courtsync/courtsync/internal/aggregate"
	"github.com/courtsync/courtsync/internal/api"
	"github.com/courtsync/courtsync/internal/cache"
	"github.com/courtsync/courtsync/internal/config"
	"github.com/courtsync/courtsync/internal/db"
	"github.com/courtsync/courtsync/internal/listener"
	"github.com/courtsync/courtsync/internal/normalize"
	"github.com/courtsync/courtsync/internal/provider/bdl"
	"github.com/courtsync/courtsync/internal/provider/espn"
	"github.com/courtsync/courtsync/internal/schedule"
	"github.com/courtsync/courtsync/internal/service"
	"github.com/courtsync/courtsync/internal/store"
	"github.com/courtsync/courtsync/internal/sync"

	_ "github.com/courtsync/courtsync/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger.Info("connecting to database")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	appCache := newCache(cfg, logger)

	// Wire the sync core.
	st := store.New(pool.Pool)
	scheduleClient := bdl.NewClient(cfg.ScheduleBaseURL, cfg.ScheduleAPIKey, scheduleOptions(cfg), logger)
	statsClient := espn.NewClient(cfg.StatsBaseURL, logger)
	normalizer := normalize.New(store.NewResolver(st), logger)
	engine := aggregate.New(st, logger)
	syncer := sync.New(scheduleClient, statsClient, st, normalizer, engine, appCache, logger)

	services := api.Services{
		Games:   service.NewGames(st, syncer, appCache, logger),
		Teams:   service.NewTeams(st, syncer, appCache, logger),
		Players: service.NewPlayers(st, syncer, appCache, logger),
		Stats:   service.NewStats(st, syncer, appCache, logger),
	}

	// Cross-process cache invalidation via LISTEN/NOTIFY.
	go listener.Start(ctx, cfg.DatabaseURL, st, appCache, logger)

	// Recurring sync jobs (live resync, backfill, nightly).
	if cfg.JobsEnabled {
		jobs, err := schedule.New(syncer, logger)
		if err != nil {
			logger.Error("failed to schedule sync jobs", "error", err)
			os.Exit(1)
		}
		jobs.Start()
		defer jobs.Stop()
	}

	router := api.NewRouter(pool, appCache, cfg, services)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting CourtSync Data API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("server stopped")
}

func newCache(cfg *config.Config, logger *slog.Logger) cache.Store {
	if cfg.CacheRedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		redisCache, err := cache.NewRedis(ctx, cfg.CacheRedisURL, logger)
		if err != nil {
			logger.Error("failed to connect to redis, falling back to in-process cache", "error", err)
		} else {
			logger.Info("cache initialized", "backend", "redis")
			return redisCache
		}
	}
	logger.Info("cache initialized", "backend", "memory", "enabled", cfg.CacheEnabled)
	return cache.NewMemory(cfg.CacheEnabled)
}

func scheduleOptions(cfg *config.Config) bdl.Options {
	opts := bdl.DefaultOptions()
	opts.MinInterval = cfg.ScheduleMinInterval
	opts.Cooldown = cfg.ScheduleCooldown
	return opts
}
