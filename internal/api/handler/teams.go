package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/courtsync/courtsync/internal/api/respond"
)

// ListTeams returns all teams.
// @Summary List teams
// @Description Returns all teams, seeding from the provider on first use.
// @Tags teams
// @Produce json
// @Success 200 {array} domain.Team
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/teams [get]
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.List(r.Context())
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, teams)
}

// GetTeam returns one team.
// @Summary Team by ID
// @Description Returns a single team by internal ID.
// @Tags teams
// @Produce json
// @Param teamID path int true "Team ID"
// @Success 200 {object} domain.Team
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/teams/{teamID} [get]
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "teamID"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_ID", "team ID must be an integer")
		return
	}

	team, err := h.teams.GetByID(r.Context(), id)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, team)
}
