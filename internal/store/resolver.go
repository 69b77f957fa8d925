package store

import (
	"context"
	"errors"
	"time"

	"github.com/courtsync/courtsync/internal/domain"
)

// Resolver maps provider-side identifiers from raw payloads onto stored
// records. It satisfies the normalizer's lookup interface.
type Resolver struct {
	store *Store
}

// NewResolver creates a Resolver backed by the store.
func NewResolver(s *Store) *Resolver {
	return &Resolver{store: s}
}

// ResolveTeam finds a stored team by abbreviation.
func (r *Resolver) ResolveTeam(ctx context.Context, abbreviation string) (domain.Team, bool) {
	t, err := r.store.GetTeamByAbbreviation(ctx, abbreviation)
	if err != nil {
		return domain.Team{}, false
	}
	return t, true
}

// ResolvePlayer finds a stored player by stats-provider ID, falling back to
// an exact full-name match. A successful name match caches the stats ID on
// the player row so subsequent lookups hit the indexed path.
func (r *Resolver) ResolvePlayer(ctx context.Context, statsID int, fullName string) (domain.Player, bool) {
	if statsID > 0 {
		if p, err := r.store.GetPlayerByStatsID(ctx, statsID); err == nil {
			return p, true
		} else if !errors.Is(err, domain.ErrNotFound) {
			return domain.Player{}, false
		}
	}

	p, err := r.store.FindPlayerByName(ctx, fullName)
	if err != nil {
		return domain.Player{}, false
	}
	if statsID > 0 && p.StatsID == nil {
		if err := r.store.SetPlayerStatsID(ctx, p.ID, statsID); err == nil {
			p.StatsID = &statsID
		}
	}
	return p, true
}

// ResolveGame finds the stored game on a date involving a team.
func (r *Resolver) ResolveGame(ctx context.Context, date time.Time, teamID int) (domain.Game, bool) {
	g, err := r.store.GetGameOnDateForTeam(ctx, date, teamID)
	if err != nil {
		return domain.Game{}, false
	}
	return g, true
}
