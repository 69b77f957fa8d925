// Package listener consumes Postgres LISTEN/NOTIFY change events and evicts
// the cache keys a write made stale. It holds a dedicated pgx connection
// (not from the pool): a pooled connection would return to the pool between
// notifications and silently stop listening.
//
// Single-process deployments invalidate in-line during sync and do not need
// this; it exists so additional API replicas sharing a database converge
// without sharing memory.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/courtsync/courtsync/internal/cache"
	"github.com/courtsync/courtsync/internal/config"
	"github.com/courtsync/courtsync/internal/store"
)

const (
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// changeEvent is the JSON payload published by store.NotifyChange.
type changeEvent struct {
	Entity string `json:"entity"`
	ID     int    `json:"id"`
}

// Start opens a dedicated connection and listens for change events,
// reconnecting with backoff on connection loss. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, st *store.Store, c cache.Store, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, st, c, logger)
		if ctx.Err() != nil {
			logger.Info("change listener stopped")
			return
		}

		logger.Error("change listener disconnected, reconnecting", "error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, st *store.Store, c cache.Store, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+store.NotifyChannel); err != nil {
		return fmt.Errorf("LISTEN %s: %w", store.NotifyChannel, err)
	}
	logger.Info("change listener connected", "channel", store.NotifyChannel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		var event changeEvent
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			logger.Warn("unparseable change event", "payload", notification.Payload, "error", err)
			continue
		}
		invalidate(ctx, st, c, event, logger)
	}
}

// invalidate reconstructs and deletes the cache keys the event made stale.
func invalidate(ctx context.Context, st *store.Store, c cache.Store, event changeEvent, logger *slog.Logger) {
	switch event.Entity {
	case "game", "game_stats":
		keys := []string{cache.GameKey(event.ID)}
		if game, err := st.GetGame(ctx, event.ID); err == nil {
			keys = append(keys, cache.GamesByDateKey(game.Date))
		}
		c.Delete(ctx, keys...)

	case "player":
		c.Delete(ctx, cache.PlayerKey(event.ID))

	case "player_stats":
		c.Delete(ctx,
			cache.SeasonStatsKey(event.ID, config.CurrentSeason),
			cache.RecentGamesKey(event.ID, cache.DefaultRecentGames),
			cache.CareerStatsKey(event.ID),
		)

	case "career":
		c.Delete(ctx, cache.CareerStatsKey(event.ID))

	case "team":
		c.Delete(ctx, cache.TeamKey(event.ID), cache.TeamsAllKey)

	default:
		logger.Debug("ignoring change event", "entity", event.Entity, "id", event.ID)
	}
}
