package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/courtsync/courtsync/internal/api/respond"
)

// GetPlayer returns one player.
// @Summary Player by ID
// @Description Returns a single player by internal ID.
// @Tags players
// @Produce json
// @Param playerID path int true "Player ID"
// @Success 200 {object} domain.Player
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/players/{playerID} [get]
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "playerID"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_ID", "player ID must be an integer")
		return
	}

	player, err := h.players.GetByID(r.Context(), id)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, player)
}

// SearchPlayers searches players by name.
// @Summary Search players
// @Description Returns one page of players matching a name fragment, falling back to the provider's search for unknown names.
// @Tags players
// @Produce json
// @Param q query string true "Name fragment"
// @Param page query int false "Page (default 1)"
// @Param per_page query int false "Page size (default 25)"
// @Success 200 {array} domain.Player
// @Failure 400 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/players/search [get]
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		respond.WriteError(w, http.StatusBadRequest, "BAD_QUERY", "q parameter is required")
		return
	}

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 25)

	players, err := h.players.Search(r.Context(), term, page, perPage)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, players)
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
