package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/courtsync/courtsync/internal/api/respond"
)

// GetTodayGames returns today's slate.
// @Summary Today's games
// @Description Returns all games on today's date (UTC), syncing from the provider on first request.
// @Tags games
// @Produce json
// @Success 200 {array} domain.Game
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/games/today [get]
func (h *Handler) GetTodayGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.GetToday(r.Context())
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, games)
}

// GetGamesByDate returns all games on a date.
// @Summary Games by date
// @Description Returns all games on a calendar date (YYYY-MM-DD).
// @Tags games
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {array} domain.Game
// @Failure 400 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/games/date/{date} [get]
func (h *Handler) GetGamesByDate(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_DATE", "date must be YYYY-MM-DD")
		return
	}

	games, err := h.games.GetByDate(r.Context(), date)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, games)
}

// GetGame returns one game.
// @Summary Game by ID
// @Description Returns a single game by internal ID.
// @Tags games
// @Produce json
// @Param gameID path int true "Game ID"
// @Success 200 {object} domain.Game
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/games/{gameID} [get]
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "gameID"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_ID", "game ID must be an integer")
		return
	}

	game, err := h.games.GetByID(r.Context(), id)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, game)
}

// SyncGamesDate forces a provider pull for a date.
// @Summary Force-sync a date
// @Description Pulls the given date's games from the provider immediately, bypassing the cache.
// @Tags sync
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/sync/date/{date} [post]
func (h *Handler) SyncGamesDate(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_DATE", "date must be YYYY-MM-DD")
		return
	}

	result, err := h.games.SyncDate(r.Context(), date)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":  result.RunID,
		"games":   result.GamesUpserted,
		"teams":   result.TeamsUpserted,
		"errors":  result.Errors,
		"elapsed": result.Duration.String(),
	})
}
