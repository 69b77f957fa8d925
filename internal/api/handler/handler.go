// Package handler provides HTTP handlers for all API endpoints. Handlers
// are thin: parse parameters, call the service, map domain errors to status
// codes. Sync-on-miss behavior lives in the service layer.
package handler

import (
	"net/http"
	"time"

	"github.com/courtsync/courtsync/internal/api/respond"
	"github.com/courtsync/courtsync/internal/cache"
	"github.com/courtsync/courtsync/internal/config"
	"github.com/courtsync/courtsync/internal/db"
	"github.com/courtsync/courtsync/internal/service"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool    *db.Pool
	cache   cache.Store
	cfg     *config.Config
	games   *service.Games
	teams   *service.Teams
	players *service.Players
	stats   *service.Stats
}

// New creates a Handler with shared dependencies.
func New(
	pool *db.Pool,
	c cache.Store,
	cfg *config.Config,
	games *service.Games,
	teams *service.Teams,
	players *service.Players,
	stats *service.Stats,
) *Handler {
	return &Handler{
		pool:    pool,
		cache:   c,
		cfg:     cfg,
		games:   games,
		teams:   teams,
		players: players,
		stats:   stats,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "CourtSync Data API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} respond.ErrorResponse
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "database unreachable")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
}

// HealthCheckCache reports cache statistics.
// @Summary Cache health check
// @Description Returns cache statistics when the in-process cache is active.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	if mem, ok := h.cache.(*cache.Memory); ok {
		respond.WriteJSON(w, http.StatusOK, mem.Stats())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"backend": "redis"})
}
