// Package synccache implements the sync-on-miss read path shared by every
// service lookup: serve from cache, fall back to the store, and only then
// pull from the provider and re-read. Results are cached on the way out;
// absence and provider failures never are.
package synccache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtsync/courtsync/internal/cache"
	"github.com/courtsync/courtsync/internal/domain"
)

// Options configures one Load call.
type Options[T any] struct {
	Cache cache.Store
	Key   string

	// TTL for the cached value. TTLFor, when set, overrides it with a
	// value-dependent duration (live games cache shorter than final ones).
	TTL    time.Duration
	TTLFor func(T) time.Duration

	// FromStore reads the canonical record, returning domain.ErrNotFound on
	// absence. Sync pulls the record's scope from the provider; after a
	// successful sync the store is read once more.
	FromStore func(ctx context.Context) (T, error)
	Sync      func(ctx context.Context) error

	Logger *slog.Logger
}

// Load resolves a record through the cache → store → sync → store chain.
// A miss after a successful sync is a definitive domain.ErrNotFound. Sync
// failures surface to the caller untouched so rate-limit and availability
// errors keep their identity.
func Load[T any](ctx context.Context, opts Options[T]) (T, error) {
	var zero T

	if data, ok := opts.Cache.Get(ctx, opts.Key); ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		// Undecodable entries degrade to a miss and get evicted.
		opts.Logger.Warn("dropping undecodable cache entry", "key", opts.Key)
		opts.Cache.Delete(ctx, opts.Key)
	}

	v, err := opts.FromStore(ctx)
	if err == nil {
		store(ctx, opts, v)
		return v, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return zero, err
	}

	if err := opts.Sync(ctx); err != nil {
		return zero, fmt.Errorf("sync %s: %w", opts.Key, err)
	}

	v, err = opts.FromStore(ctx)
	if err != nil {
		// Includes ErrNotFound: the provider had nothing either.
		return zero, err
	}
	store(ctx, opts, v)
	return v, nil
}

func store[T any](ctx context.Context, opts Options[T], v T) {
	data, err := json.Marshal(v)
	if err != nil {
		opts.Logger.Warn("skipping cache write", "key", opts.Key, "error", err)
		return
	}
	ttl := opts.TTL
	if opts.TTLFor != nil {
		ttl = opts.TTLFor(v)
	}
	opts.Cache.Set(ctx, opts.Key, data, ttl)
}
