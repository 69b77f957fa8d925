package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/courtsync/courtsync/internal/api/respond"
	"github.com/courtsync/courtsync/internal/config"
)

// GetSeasonStats returns a player's season rows for one season.
// @Summary Player season stats
// @Description Returns the player's aggregated rows for a season, one per (season type, team).
// @Tags stats
// @Produce json
// @Param playerID path int true "Player ID"
// @Param season query int false "Season starting year (default current)"
// @Success 200 {array} domain.PlayerSeasonStats
// @Failure 404 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/players/{playerID}/stats [get]
func (h *Handler) GetSeasonStats(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "playerID"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_ID", "player ID must be an integer")
		return
	}
	season := queryInt(r, "season", config.CurrentSeason)

	rows, err := h.stats.GetSeasonStats(r.Context(), id, season)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, rows)
}

// GetRecentGames returns a player's most recent per-game lines.
// @Summary Player recent games
// @Description Returns the player's n most recent box-score lines, newest first.
// @Tags stats
// @Produce json
// @Param playerID path int true "Player ID"
// @Param n query int false "Window size (default 10)"
// @Success 200 {array} domain.PlayerGameStats
// @Failure 404 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/players/{playerID}/recent [get]
func (h *Handler) GetRecentGames(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "playerID"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_ID", "player ID must be an integer")
		return
	}
	n := queryInt(r, "n", 0)

	rows, err := h.stats.GetRecentGames(r.Context(), id, n, config.CurrentSeason)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, rows)
}

// GetCareerStats returns a player's career row.
// @Summary Player career stats
// @Description Returns the player's career totals and best-season maxima, pulling the full history on first request.
// @Tags stats
// @Produce json
// @Param playerID path int true "Player ID"
// @Success 200 {object} domain.PlayerCareerStats
// @Failure 404 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/players/{playerID}/career [get]
func (h *Handler) GetCareerStats(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "playerID"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_ID", "player ID must be an integer")
		return
	}

	career, err := h.stats.GetCareerStats(r.Context(), id)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, career)
}
