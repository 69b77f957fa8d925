// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/sync.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// CurrentSeason is the season year new syncs default to. A season is named
// by its starting calendar year (the 2025-26 season is 2025).
const CurrentSeason = 2025

// --------------------------------------------------------------------------
// Table names — single source of truth, matches schema.sql
// --------------------------------------------------------------------------

const (
	GamesTable        = "games"
	TeamsTable        = "teams"
	PlayersTable      = "players"
	PlayerGameTable   = "player_game_stats"
	PlayerSeasonTable = "player_season_stats"
	PlayerCareerTable = "player_career_stats"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Inbound rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Schedule/roster provider (quota-limited)
	ScheduleAPIKey      string
	ScheduleBaseURL     string
	ScheduleMinInterval time.Duration
	ScheduleCooldown    time.Duration

	// Statistics provider (unmetered but slow and inconsistently shaped)
	StatsBaseURL string

	// Cache
	CacheEnabled  bool
	CacheRedisURL string // empty = in-process cache

	// Background jobs (cmd/api)
	JobsEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,

		ScheduleAPIKey:      envOr("SCHEDULE_API_KEY", ""),
		ScheduleBaseURL:     envOr("SCHEDULE_API_BASE_URL", "https://api.balldontlie.io/v1"),
		ScheduleMinInterval: time.Duration(envInt("SCHEDULE_API_MIN_INTERVAL_SECONDS", 2)) * time.Second,
		ScheduleCooldown:    time.Duration(envInt("SCHEDULE_API_COOLDOWN_SECONDS", 70)) * time.Second,

		StatsBaseURL: envOr("STATS_API_BASE_URL", "https://site.api.espn.com/apis/site/v2/sports/basketball/nba"),

		CacheEnabled:  envBool("CACHE_ENABLED", true),
		CacheRedisURL: envOr("CACHE_REDIS_URL", ""),

		JobsEnabled: envBool("JOBS_ENABLED", true),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
