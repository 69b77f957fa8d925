// Package cache provides the fast tier of the read path: a flat string key
// space holding serialized domain responses. Two implementations share one
// interface — an in-process TTL map for single-instance deployments and a
// Redis-backed store for multi-process ones.
package cache

import (
	"context"
	"sync"
	"time"
)

// Domain TTL policy. These are policy knobs, not invariants: near-static
// data caches for hours, live data barely at all.
const (
	TTLTeams       = 24 * time.Hour
	TTLPlayer      = 1 * time.Hour
	TTLGameFinal   = 6 * time.Hour
	TTLGameLive    = 1 * time.Minute
	TTLSeasonStats = 30 * time.Minute
	TTLSearch      = 15 * time.Minute
	TTLEmptySlate  = 10 * time.Minute
)

// Store is the fast-cache contract used by the sync-on-miss read path.
// Implementations never cache absence: a missing key simply returns ok=false.
type Store interface {
	Get(ctx context.Context, key string) (data []byte, ok bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is a thread-safe in-process TTL cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	enabled bool
}

// NewMemory creates an in-process cache. Pass enabled=false for a no-op
// cache (every Get misses).
func NewMemory(enabled bool) *Memory {
	c := &Memory{
		entries: make(map[string]entry),
		enabled: enabled,
	}
	if enabled {
		go c.evictLoop()
	}
	return c
}

// Get retrieves a cached value.
func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, exists := c.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

// Set stores a value with a TTL.
func (c *Memory) Set(_ context.Context, key string, data []byte, ttl time.Duration) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{data: data, expiresAt: time.Now().Add(ttl)}
}

// Delete removes keys. Invalidation always deletes rather than updating in
// place so stale derived aggregates are never served.
func (c *Memory) Delete(_ context.Context, keys ...string) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}

// Stats returns cache statistics for the health endpoint.
func (c *Memory) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	active := 0
	now := time.Now()
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			active++
		}
	}
	return map[string]interface{}{
		"enabled":      c.enabled,
		"total_keys":   len(c.entries),
		"active_keys":  active,
		"expired_keys": len(c.entries) - active,
	}
}

// evictLoop periodically removes expired entries.
func (c *Memory) evictLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		c.evict()
	}
}

func (c *Memory) evict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
