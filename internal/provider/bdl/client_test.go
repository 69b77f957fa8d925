package bdl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtsync/courtsync/internal/domain"
)

// testOptions compresses the production pacing profile so tests run in
// milliseconds. The ratios match production (cooldown >> spacing).
func testOptions() Options {
	return Options{
		MinInterval:  10 * time.Millisecond,
		Cooldown:     150 * time.Millisecond,
		Penalty:      0,
		MaxAttempts:  1,
		RetryBackoff: []time.Duration{10 * time.Millisecond},
	}
}

// recordingServer captures the wall-clock time of every request it serves.
type recordingServer struct {
	mu       sync.Mutex
	hits     []time.Time
	statuses []int // per-hit status; last entry repeats
	*httptest.Server
}

func newRecordingServer(body string, statuses ...int) *recordingServer {
	rs := &recordingServer{statuses: statuses}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		n := len(rs.hits)
		rs.hits = append(rs.hits, time.Now())
		status := rs.statuses[min(n, len(rs.statuses)-1)]
		rs.mu.Unlock()

		w.WriteHeader(status)
		if status == http.StatusOK {
			w.Write([]byte(body))
		}
	}))
	return rs
}

func (rs *recordingServer) hitTimes() []time.Time {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]time.Time(nil), rs.hits...)
}

func TestMinimumSpacing(t *testing.T) {
	srv := newRecordingServer(`{"data": []}`, http.StatusOK)
	defer srv.Close()

	opts := testOptions()
	opts.MinInterval = 50 * time.Millisecond
	c := NewClient(srv.URL, "key", opts, nil)

	ctx := context.Background()
	_, err := c.GetTeams(ctx)
	require.NoError(t, err)
	_, err = c.GetTeams(ctx)
	require.NoError(t, err)

	hits := srv.hitTimes()
	require.Len(t, hits, 2)
	assert.GreaterOrEqual(t, hits[1].Sub(hits[0]), 45*time.Millisecond,
		"second request must wait out the minimum spacing")
}

func TestQuotaCooldownBlocksAllCallers(t *testing.T) {
	srv := newRecordingServer(`{"data": []}`, http.StatusTooManyRequests, http.StatusOK)
	defer srv.Close()

	c := NewClient(srv.URL, "key", testOptions(), nil)
	ctx := context.Background()

	_, err := c.GetTeams(ctx)
	require.ErrorIs(t, err, domain.ErrProviderUnavailable)

	deadline := c.CooldownUntil()
	require.False(t, deadline.IsZero(), "429 must set the shared cooldown")

	// The next call — issued immediately — must not reach the provider
	// before the cooldown elapses.
	_, err = c.GetTeams(ctx)
	require.NoError(t, err)

	hits := srv.hitTimes()
	require.Len(t, hits, 2)
	assert.False(t, hits[1].Before(deadline),
		"request reached provider %s before cooldown deadline", deadline.Sub(hits[1]))
}

func TestRetryRecoversFromTransientFailure(t *testing.T) {
	srv := newRecordingServer(`{"data": []}`, http.StatusInternalServerError, http.StatusOK)
	defer srv.Close()

	opts := testOptions()
	opts.MaxAttempts = 2
	c := NewClient(srv.URL, "key", opts, nil)

	teams, err := c.GetTeams(context.Background())
	require.NoError(t, err)
	assert.Empty(t, teams)
	assert.Len(t, srv.hitTimes(), 2)
}

func TestRetriesExhaustedExtendCooldown(t *testing.T) {
	srv := newRecordingServer("", http.StatusInternalServerError)
	defer srv.Close()

	opts := testOptions()
	opts.MaxAttempts = 2
	opts.Penalty = 500 * time.Millisecond
	c := NewClient(srv.URL, "key", opts, nil)

	_, err := c.GetTeams(context.Background())
	require.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.Len(t, srv.hitTimes(), 2, "bounded retry means exactly MaxAttempts requests")

	assert.False(t, c.CooldownUntil().IsZero(),
		"exhausted retries extend the cooldown as a circuit-breaker penalty")
}

func TestNonRetryableFailureLeavesCooldownAlone(t *testing.T) {
	srv := newRecordingServer("", http.StatusBadRequest)
	defer srv.Close()

	opts := testOptions()
	opts.MaxAttempts = 2
	opts.Penalty = time.Minute
	c := NewClient(srv.URL, "key", opts, nil)

	_, err := c.GetTeams(context.Background())
	require.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.Len(t, srv.hitTimes(), 1, "a 400 is not retried")
	assert.True(t, c.CooldownUntil().IsZero(), "a 400 is not a capacity signal")
}

func TestDeadlineSurfacesWithoutCooldown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", testOptions(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.GetTeams(ctx)
	require.Error(t, err)
	assert.True(t, c.CooldownUntil().IsZero(),
		"timeouts are retryable but never trigger the quota cooldown")
}

func TestCursorPagination(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			assert.Empty(t, r.URL.Query().Get("cursor"))
			w.Write([]byte(`{"data": [{"id": 1, "first_name": "A", "last_name": "One"}], "meta": {"next_cursor": 100}}`))
			return
		}
		assert.Equal(t, "100", r.URL.Query().Get("cursor"))
		w.Write([]byte(`{"data": [{"id": 2, "first_name": "B", "last_name": "Two"}], "meta": {}}`))
	}))
	defer srv.Close()

	opts := testOptions()
	opts.MinInterval = time.Millisecond
	c := NewClient(srv.URL, "key", opts, nil)

	var ids []int
	err := c.GetPlayers(context.Background(), func(p Player) error {
		ids = append(ids, p.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids)
}
