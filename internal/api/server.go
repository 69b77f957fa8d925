// Package api wires the HTTP surface: router, middleware, and handlers.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/courtsync/courtsync/internal/api/handler"
	"github.com/courtsync/courtsync/internal/cache"
	"github.com/courtsync/courtsync/internal/config"
	"github.com/courtsync/courtsync/internal/db"
	"github.com/courtsync/courtsync/internal/service"
)

// Services groups the read-path services the router exposes.
type Services struct {
	Games   *service.Games
	Teams   *service.Teams
	Players *service.Players
	Stats   *service.Stats
}

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(pool *db.Pool, c cache.Store, cfg *config.Config, svc Services) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	cors := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "Retry-After"},
		AllowCredentials: false,
	})
	r.Use(cors.Handler)

	// Inbound rate limiting (distinct from the outbound provider gate)
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(pool, c, cfg, svc.Games, svc.Teams, svc.Players, svc.Stats)

	// --- Routes ---

	r.Get("/", h.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		// Games
		r.Get("/games/today", h.GetTodayGames)
		r.Get("/games/date/{date}", h.GetGamesByDate)
		r.Get("/games/{gameID}", h.GetGame)

		// Teams
		r.Get("/teams", h.ListTeams)
		r.Get("/teams/{teamID}", h.GetTeam)

		// Players
		r.Get("/players/search", h.SearchPlayers)
		r.Get("/players/{playerID}", h.GetPlayer)
		r.Get("/players/{playerID}/stats", h.GetSeasonStats)
		r.Get("/players/{playerID}/recent", h.GetRecentGames)
		r.Get("/players/{playerID}/career", h.GetCareerStats)

		// Sync
		r.Post("/sync/date/{date}", h.SyncGamesDate)
	})

	return r
}
