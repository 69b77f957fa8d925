package synccache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtsync/courtsync/internal/cache"
	"github.com/courtsync/courtsync/internal/domain"
)

type record struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type harness struct {
	cache      *cache.Memory
	storeCalls int
	syncCalls  int
	stored     *record
	syncErr    error
	// onSync runs before sync returns, letting tests make the record appear.
	onSync func()
}

func (h *harness) options() Options[record] {
	return Options[record]{
		Cache:  h.cache,
		Key:    "test:record:1",
		TTL:    time.Minute,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		FromStore: func(context.Context) (record, error) {
			h.storeCalls++
			if h.stored == nil {
				return record{}, domain.ErrNotFound
			}
			return *h.stored, nil
		},
		Sync: func(context.Context) error {
			h.syncCalls++
			if h.onSync != nil {
				h.onSync()
			}
			return h.syncErr
		},
	}
}

func newHarness() *harness {
	return &harness{cache: cache.NewMemory(true)}
}

func TestLoadCacheHitSkipsStoreAndSync(t *testing.T) {
	h := newHarness()
	h.cache.Set(context.Background(), "test:record:1", []byte(`{"id":1,"name":"cached"}`), time.Minute)

	got, err := Load(context.Background(), h.options())
	require.NoError(t, err)
	assert.Equal(t, "cached", got.Name)
	assert.Zero(t, h.storeCalls)
	assert.Zero(t, h.syncCalls)
}

func TestLoadStoreHitPopulatesCache(t *testing.T) {
	h := newHarness()
	h.stored = &record{ID: 1, Name: "stored"}

	got, err := Load(context.Background(), h.options())
	require.NoError(t, err)
	assert.Equal(t, "stored", got.Name)
	assert.Equal(t, 1, h.storeCalls)
	assert.Zero(t, h.syncCalls)

	data, ok := h.cache.Get(context.Background(), "test:record:1")
	require.True(t, ok)
	assert.JSONEq(t, `{"id":1,"name":"stored"}`, string(data))
}

func TestLoadMissTriggersSyncThenRereads(t *testing.T) {
	h := newHarness()
	h.onSync = func() { h.stored = &record{ID: 1, Name: "synced"} }

	got, err := Load(context.Background(), h.options())
	require.NoError(t, err)
	assert.Equal(t, "synced", got.Name)
	assert.Equal(t, 1, h.syncCalls)
	assert.Equal(t, 2, h.storeCalls)
}

func TestLoadSecondMissIsNotFound(t *testing.T) {
	h := newHarness()

	_, err := Load(context.Background(), h.options())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, h.syncCalls)

	// Absence is never cached: the next call goes through the chain again.
	_, err = Load(context.Background(), h.options())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, h.syncCalls)
}

func TestLoadSyncFailureSurfacesWithIdentity(t *testing.T) {
	h := newHarness()
	h.syncErr = domain.ErrQuotaExceeded

	_, err := Load(context.Background(), h.options())
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)

	_, ok := h.cache.Get(context.Background(), "test:record:1")
	assert.False(t, ok)
}

func TestLoadUndecodableEntryFallsThrough(t *testing.T) {
	h := newHarness()
	h.cache.Set(context.Background(), "test:record:1", []byte("{garbage"), time.Minute)
	h.stored = &record{ID: 1, Name: "stored"}

	got, err := Load(context.Background(), h.options())
	require.NoError(t, err)
	assert.Equal(t, "stored", got.Name)
	assert.Equal(t, 1, h.storeCalls)
}

func TestLoadTTLForOverridesTTL(t *testing.T) {
	h := newHarness()
	h.stored = &record{ID: 1, Name: "stored"}
	opts := h.options()
	opts.TTLFor = func(record) time.Duration { return time.Nanosecond }

	_, err := Load(context.Background(), opts)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	_, ok := h.cache.Get(context.Background(), "test:record:1")
	assert.False(t, ok)
}
