package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryGetSetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(true)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.Set(ctx, "k", []byte("v"), time.Minute)
	data, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), data)

	c.Delete(ctx, "k")
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(true)

	c.Set(ctx, "k", []byte("v"), 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.evict()
	assert.Equal(t, 0, c.Stats()["total_keys"])
}

func TestMemoryDisabled(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(false)

	c.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestKeysDeterministic(t *testing.T) {
	assert.Equal(t, "game:7", GameKey(7))
	assert.Equal(t, "games:date:2026-01-15",
		GamesByDateKey(time.Date(2026, 1, 15, 19, 30, 0, 0, time.UTC)))
	assert.Equal(t, "player:3:season:2025", SeasonStatsKey(3, 2025))

	// Search terms normalize: case and extra whitespace collapse.
	assert.Equal(t, SearchKey("LeBron  James", 1), SearchKey("lebron james", 1))
}
