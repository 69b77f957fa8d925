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

// PlayersStore is the slice of the store the players service reads.
type PlayersStore interface {
	GetPlayer(ctx context.Context, id int) (domain.Player, error)
	SearchPlayers(ctx context.Context, term string, page, perPage int) ([]domain.Player, error)
}

// Players serves player lookups.
type Players struct {
	store  PlayersStore
	syncer Syncer
	cache  cache.Store
	logger *slog.Logger
}

// NewPlayers creates the players service.
func NewPlayers(store PlayersStore, syncer Syncer, c cache.Store, logger *slog.Logger) *Players {
	if logger == nil {
		logger = slog.Default()
	}
	return &Players{store: store, syncer: syncer, cache: c, logger: logger}
}

// GetByID returns a player by internal ID. Internal IDs only exist for
// stored rows, so a miss is definitive.
func (s *Players) GetByID(ctx context.Context, id int) (domain.Player, error) {
	return synccache.Load(ctx, synccache.Options[domain.Player]{
		Cache:     s.cache,
		Key:       cache.PlayerKey(id),
		TTL:       cache.TTLPlayer,
		FromStore: func(ctx context.Context) (domain.Player, error) { return s.store.GetPlayer(ctx, id) },
		Sync:      func(context.Context) error { return nil },
		Logger:    s.logger,
	})
}

// Search returns one page of players matching a name fragment. A store miss
// falls through to the provider's search so players the roster sync has not
// reached yet still resolve.
func (s *Players) Search(ctx context.Context, term string, page, perPage int) ([]domain.Player, error) {
	if perPage <= 0 {
		perPage = 25
	}
	key := cache.SearchKey(term, page)
	if data, ok := s.cache.Get(ctx, key); ok {
		var players []domain.Player
		if err := json.Unmarshal(data, &players); err == nil {
			return players, nil
		}
		s.cache.Delete(ctx, key)
	}

	players, err := s.store.SearchPlayers(ctx, term, page, perPage)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		if _, err := s.syncer.SyncPlayerSearch(ctx, term, page, perPage); err != nil {
			return nil, fmt.Errorf("sync player search: %w", err)
		}
		if players, err = s.store.SearchPlayers(ctx, term, page, perPage); err != nil {
			return nil, err
		}
	}

	if data, err := json.Marshal(players); err == nil {
		s.cache.Set(ctx, key, data, cache.TTLSearch)
	}
	return players, nil
}
