// Package store persists canonical records to Postgres. Every write is a
// parameterized upsert keyed by the record's uniqueness constraint, so
// re-synchronization is idempotent: the second sync's field values win and
// no duplicate rows appear. Writes are individually atomic per row; the
// sync → aggregate → invalidate chain is deliberately not transactional
// (a crash leaves self-consistent-but-stale rows that the next sync repairs).
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NotifyChannel is the LISTEN/NOTIFY channel carrying change events to
// other processes' cache-invalidation listeners.
const NotifyChannel = "courtsync_events"

// Store wraps the connection pool with typed persistence helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// NotifyChange publishes a change event for cross-process cache
// invalidation. Failures are returned, not fatal — single-process
// deployments invalidate in-line and do not depend on the channel.
func (s *Store) NotifyChange(ctx context.Context, entity string, id int) error {
	payload := fmt.Sprintf(`{"entity": %q, "id": %d}`, entity, id)
	if _, err := s.pool.Exec(ctx, "SELECT pg_notify($1, $2)", NotifyChannel, payload); err != nil {
		return fmt.Errorf("notify %s change: %w", entity, err)
	}
	return nil
}

// nilEmpty returns nil for empty strings (maps to SQL NULL).
func nilEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
