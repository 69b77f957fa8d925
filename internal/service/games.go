package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtsync/courtsync/internal/cache"
	"github.com/courtsync/courtsync/internal/domain"
	"github.com/courtsync/courtsync/internal/sync"
	"github.com/courtsync/courtsync/internal/synccache"
)

// GamesStore is the slice of the store the games service reads.
type GamesStore interface {
	GetGame(ctx context.Context, id int) (domain.Game, error)
	GetGamesByDate(ctx context.Context, date time.Time) ([]domain.Game, error)
}

// Games serves game lookups.
type Games struct {
	store  GamesStore
	syncer Syncer
	cache  cache.Store
	logger *slog.Logger
}

// NewGames creates the games service.
func NewGames(store GamesStore, syncer Syncer, c cache.Store, logger *slog.Logger) *Games {
	if logger == nil {
		logger = slog.Default()
	}
	return &Games{store: store, syncer: syncer, cache: c, logger: logger}
}

// GetToday returns today's slate (UTC).
func (s *Games) GetToday(ctx context.Context) ([]domain.Game, error) {
	return s.GetByDate(ctx, time.Now().UTC())
}

// GetByDate returns all games on a date, syncing it from the provider the
// first time it is asked for. An off-day's empty slate is a valid response
// and is cached like any other.
func (s *Games) GetByDate(ctx context.Context, date time.Time) ([]domain.Game, error) {
	key := cache.GamesByDateKey(date)
	if data, ok := s.cache.Get(ctx, key); ok {
		var games []domain.Game
		if err := json.Unmarshal(data, &games); err == nil {
			return games, nil
		}
		s.cache.Delete(ctx, key)
	}

	games, err := s.store.GetGamesByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		if _, err := s.syncer.SyncDate(ctx, date); err != nil {
			return nil, fmt.Errorf("sync date: %w", err)
		}
		if games, err = s.store.GetGamesByDate(ctx, date); err != nil {
			return nil, err
		}
	}

	if data, err := json.Marshal(games); err == nil {
		s.cache.Set(ctx, key, data, slateTTL(games))
	}
	return games, nil
}

// GetByID returns a game by internal ID. Internal IDs only exist for stored
// rows, so a store miss is definitive and no provider sync is attempted.
func (s *Games) GetByID(ctx context.Context, id int) (domain.Game, error) {
	return synccache.Load(ctx, synccache.Options[domain.Game]{
		Cache:     s.cache,
		Key:       cache.GameKey(id),
		TTLFor:    gameTTL,
		FromStore: func(ctx context.Context) (domain.Game, error) { return s.store.GetGame(ctx, id) },
		Sync:      func(context.Context) error { return nil },
		Logger:    s.logger,
	})
}

// SyncDate forces a provider pull for a date, bypassing the cache chain.
func (s *Games) SyncDate(ctx context.Context, date time.Time) (sync.Result, error) {
	return s.syncer.SyncDate(ctx, date)
}

// gameTTL caches live games barely at all and settled ones for hours.
func gameTTL(g domain.Game) time.Duration {
	if g.Status == domain.StatusLive {
		return cache.TTLGameLive
	}
	return cache.TTLGameFinal
}

// slateTTL follows the most volatile game on the slate. An empty slate
// caches long enough that off-day requests do not hammer the rate-limited
// provider.
func slateTTL(games []domain.Game) time.Duration {
	if len(games) == 0 {
		return cache.TTLEmptySlate
	}
	ttl := cache.TTLGameFinal
	for _, g := range games {
		switch g.Status {
		case domain.StatusLive:
			return cache.TTLGameLive
		case domain.StatusScheduled, domain.StatusPostponed:
			ttl = cache.TTLSeasonStats
		}
	}
	return ttl
}
