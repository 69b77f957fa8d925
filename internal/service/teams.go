package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/courtsync/courtsync/internal/cache"
	"github.com/courtsync/courtsync/internal/domain"
	"github.com/courtsync/courtsync/internal/synccache"
)

// TeamsStore is the slice of the store the teams service reads.
type TeamsStore interface {
	GetTeam(ctx context.Context, id int) (domain.Team, error)
	ListTeams(ctx context.Context) ([]domain.Team, error)
}

// Teams serves team lookups.
type Teams struct {
	store  TeamsStore
	syncer Syncer
	cache  cache.Store
	logger *slog.Logger
}

// NewTeams creates the teams service.
func NewTeams(store TeamsStore, syncer Syncer, c cache.Store, logger *slog.Logger) *Teams {
	if logger == nil {
		logger = slog.Default()
	}
	return &Teams{store: store, syncer: syncer, cache: c, logger: logger}
}

// GetByID returns a team by internal ID, pulling the full team list from
// the provider if the store has never been seeded.
func (s *Teams) GetByID(ctx context.Context, id int) (domain.Team, error) {
	return synccache.Load(ctx, synccache.Options[domain.Team]{
		Cache:     s.cache,
		Key:       cache.TeamKey(id),
		TTL:       cache.TTLTeams,
		FromStore: func(ctx context.Context) (domain.Team, error) { return s.store.GetTeam(ctx, id) },
		Sync: func(ctx context.Context) error {
			_, err := s.syncer.SyncTeams(ctx)
			return err
		},
		Logger: s.logger,
	})
}

// List returns all teams, seeding the store on first use.
func (s *Teams) List(ctx context.Context) ([]domain.Team, error) {
	if data, ok := s.cache.Get(ctx, cache.TeamsAllKey); ok {
		var teams []domain.Team
		if err := json.Unmarshal(data, &teams); err == nil {
			return teams, nil
		}
		s.cache.Delete(ctx, cache.TeamsAllKey)
	}

	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		if _, err := s.syncer.SyncTeams(ctx); err != nil {
			return nil, fmt.Errorf("sync teams: %w", err)
		}
		if teams, err = s.store.ListTeams(ctx); err != nil {
			return nil, err
		}
	}

	if data, err := json.Marshal(teams); err == nil {
		s.cache.Set(ctx, cache.TeamsAllKey, data, cache.TTLTeams)
	}
	return teams, nil
}
