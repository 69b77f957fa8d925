// Package bdl is the client for the schedule/roster provider (teams, games,
// players, player search).
//
// The provider enforces a hard global quota, so every outbound call goes
// through a width-1 admission gate with minimum inter-request spacing, a
// shared cooldown set on quota violations, and a bounded retry wrapper.
// The gate is deliberately conservative: throughput is traded for zero risk
// of burst violations, and latency under load degrades linearly rather than
// failing.
package bdl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/courtsync/courtsync/internal/domain"
)

// errTransient marks network and 5xx failures: retried like quota errors but
// without touching the cooldown.
var errTransient = errors.New("transient provider failure")

// Options tunes the pacing and penalty behavior. The zero value is unusable;
// use DefaultOptions and override fields in tests.
type Options struct {
	MinInterval  time.Duration   // minimum spacing between any two requests
	Cooldown     time.Duration   // quota-violation penalty
	Penalty      time.Duration   // extra cooldown when retries exhaust
	MaxAttempts  int             // logical attempts per call
	RetryBackoff []time.Duration // sleep before attempt n+1
}

// DefaultOptions returns the production pacing profile.
func DefaultOptions() Options {
	return Options{
		MinInterval:  2 * time.Second,
		Cooldown:     70 * time.Second,
		Penalty:      2 * time.Minute,
		MaxAttempts:  2,
		RetryBackoff: []time.Duration{30 * time.Second, 60 * time.Second},
	}
}

// Client is the rate-limited HTTP client. All cooldown and pacing state is
// owned by the instance — share one Client per process so the global quota
// is respected across all callers.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	opts       Options
	logger     *slog.Logger

	// gate serializes outbound calls; limiter (burst 1) enforces spacing.
	gate    sync.Mutex
	limiter *rate.Limiter

	// mu guards cooldownUntil, which every caller observes before sending.
	mu            sync.Mutex
	cooldownUntil time.Time

	// Injectable clock for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client for the given base URL and API key.
func NewClient(baseURL, apiKey string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		opts:       opts,
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Every(opts.MinInterval), 1),
		now:        time.Now,
		sleep:      sleepCtx,
	}
}

// envelope is the provider's common response wrapper.
type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta struct {
		NextCursor *int `json:"next_cursor"`
	} `json:"meta"`
}

// get performs one logical GET with bounded retry. Terminal failures surface
// as domain.ErrProviderUnavailable and extend the cooldown as a
// circuit-breaker-like penalty.
func (c *Client) get(ctx context.Context, path string, params url.Values) (*envelope, error) {
	var lastErr error
	for attempt := 0; attempt < c.opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := c.opts.RetryBackoff[min(attempt-1, len(c.opts.RetryBackoff)-1)]
			c.logger.Warn("retrying provider call", "path", path, "attempt", attempt+1, "backoff", backoff)
			if err := c.sleep(ctx, backoff); err != nil {
				return nil, fmt.Errorf("%s: %w", path, domain.ErrTimeout)
			}
		}

		resp, err := c.attempt(ctx, path, params)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}

	// The penalty applies only when quota or transient failures exhausted
	// the retries. A 400 is not a capacity signal, and per the cancellation
	// policy timeouts never touch the cooldown.
	if errors.Is(lastErr, domain.ErrQuotaExceeded) || errors.Is(lastErr, errTransient) {
		c.extendCooldown(c.opts.Penalty)
	}
	c.logger.Error("provider call failed after retries", "path", path, "error", lastErr)
	return nil, fmt.Errorf("%s: %v: %w", path, lastErr, domain.ErrProviderUnavailable)
}

// attempt performs a single paced HTTP request.
func (c *Client) attempt(ctx context.Context, path string, params url.Values) (*envelope, error) {
	c.gate.Lock()
	defer c.gate.Unlock()

	if err := c.waitCooldown(ctx); err != nil {
		return nil, fmt.Errorf("cooldown wait: %w", err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("spacing wait: %w", domain.ErrTimeout)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("request %s: %w", path, domain.ErrTimeout)
		}
		return nil, fmt.Errorf("request %s: %v: %w", path, err, errTransient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %v: %w", err, errTransient)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.setCooldown(c.opts.Cooldown)
		c.logger.Warn("provider quota exceeded", "path", path, "cooldown", c.opts.Cooldown)
		return nil, fmt.Errorf("%s: %w", path, domain.ErrQuotaExceeded)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%s returned %d: %w", path, resp.StatusCode, errTransient)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, truncate(body, 200))
	}

	var result envelope
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %v: %w", err, errTransient)
	}
	return &result, nil
}

// waitCooldown blocks until any active cooldown elapses. Re-checks after
// sleeping because a concurrent 429 may have pushed the deadline out.
func (c *Client) waitCooldown(ctx context.Context) error {
	for {
		c.mu.Lock()
		until := c.cooldownUntil
		c.mu.Unlock()

		d := until.Sub(c.now())
		if d <= 0 {
			return nil
		}
		if err := c.sleep(ctx, d); err != nil {
			return domain.ErrTimeout
		}
	}
}

func (c *Client) setCooldown(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	until := c.now().Add(d)
	if until.After(c.cooldownUntil) {
		c.cooldownUntil = until
	}
}

func (c *Client) extendCooldown(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	base := c.cooldownUntil
	if now := c.now(); base.Before(now) {
		base = now
	}
	c.cooldownUntil = base.Add(d)
}

// CooldownUntil exposes the shared cooldown deadline (zero when inactive).
func (c *Client) CooldownUntil() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cooldownUntil
}

func retryable(err error) bool {
	return errors.Is(err, domain.ErrQuotaExceeded) ||
		errors.Is(err, domain.ErrTimeout) ||
		errors.Is(err, errTransient)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
