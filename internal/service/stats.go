package service

import (
	"context"
	"log/slog"

	"github.com/courtsync/courtsync/internal/cache"
	"github.com/courtsync/courtsync/internal/domain"
	"github.com/courtsync/courtsync/internal/synccache"
)

// StatsStore is the slice of the store the stats service reads.
type StatsStore interface {
	GetPlayer(ctx context.Context, id int) (domain.Player, error)
	SeasonStatsForPlayer(ctx context.Context, playerID, season int) ([]domain.PlayerSeasonStats, error)
	RecentGameStats(ctx context.Context, playerID, n int) ([]domain.PlayerGameStats, error)
	GetCareerStats(ctx context.Context, playerID int) (domain.PlayerCareerStats, error)
}

// Stats serves derived statistics lookups.
type Stats struct {
	store  StatsStore
	syncer Syncer
	cache  cache.Store
	logger *slog.Logger
}

// NewStats creates the stats service.
func NewStats(store StatsStore, syncer Syncer, c cache.Store, logger *slog.Logger) *Stats {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stats{store: store, syncer: syncer, cache: c, logger: logger}
}

// GetSeasonStats returns a player's season rows for one season, pulling the
// provider's splits on first miss. A traded player gets one row per team.
func (s *Stats) GetSeasonStats(ctx context.Context, playerID, season int) ([]domain.PlayerSeasonStats, error) {
	player, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return synccache.Load(ctx, synccache.Options[[]domain.PlayerSeasonStats]{
		Cache: s.cache,
		Key:   cache.SeasonStatsKey(playerID, season),
		TTL:   cache.TTLSeasonStats,
		FromStore: func(ctx context.Context) ([]domain.PlayerSeasonStats, error) {
			rows, err := s.store.SeasonStatsForPlayer(ctx, playerID, season)
			if err != nil {
				return nil, err
			}
			if len(rows) == 0 {
				return nil, domain.ErrNotFound
			}
			return rows, nil
		},
		Sync: func(ctx context.Context) error {
			_, err := s.syncer.SyncSeasonStats(ctx, player, season)
			return err
		},
		Logger: s.logger,
	})
}

// GetRecentGames returns a player's n most recent per-game lines, pulling
// the current season's game log on first miss.
func (s *Stats) GetRecentGames(ctx context.Context, playerID, n, currentSeason int) ([]domain.PlayerGameStats, error) {
	if n <= 0 {
		n = cache.DefaultRecentGames
	}
	player, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return synccache.Load(ctx, synccache.Options[[]domain.PlayerGameStats]{
		Cache: s.cache,
		Key:   cache.RecentGamesKey(playerID, n),
		TTL:   cache.TTLSeasonStats,
		FromStore: func(ctx context.Context) ([]domain.PlayerGameStats, error) {
			rows, err := s.store.RecentGameStats(ctx, playerID, n)
			if err != nil {
				return nil, err
			}
			if len(rows) == 0 {
				return nil, domain.ErrNotFound
			}
			return rows, nil
		},
		Sync: func(ctx context.Context) error {
			_, err := s.syncer.SyncGameLog(ctx, player, currentSeason)
			return err
		},
		Logger: s.logger,
	})
}

// GetCareerStats returns a player's career row, pulling and persisting the
// full season-by-season history on first miss.
func (s *Stats) GetCareerStats(ctx context.Context, playerID int) (domain.PlayerCareerStats, error) {
	player, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return domain.PlayerCareerStats{}, err
	}

	return synccache.Load(ctx, synccache.Options[domain.PlayerCareerStats]{
		Cache: s.cache,
		Key:   cache.CareerStatsKey(playerID),
		TTL:   cache.TTLSeasonStats,
		FromStore: func(ctx context.Context) (domain.PlayerCareerStats, error) {
			return s.store.GetCareerStats(ctx, playerID)
		},
		Sync: func(ctx context.Context) error {
			_, err := s.syncer.SyncCareer(ctx, player)
			return err
		},
		Logger: s.logger,
	})
}
