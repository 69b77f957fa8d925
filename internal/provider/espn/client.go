// Package espn is the client for the statistics provider (box scores, game
// logs, season and career splits, athlete search).
//
// This provider is not quota-limited, but it is slow and fails in bursts, so
// calls run behind a circuit breaker instead of the schedule provider's
// admission gate. Payload shapes vary per endpoint; this package returns raw
// JSON and leaves interpretation to the normalize package.
package espn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/courtsync/courtsync/internal/domain"
)

const clientTimeout = 20 * time.Second

// Client fetches raw statistics payloads.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates a statistics-provider client.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	settings := gobreaker.Settings{
		Name:        "stats-provider",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && counts.TotalFailures*2 >= counts.Requests
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &Client{
		httpClient: &http.Client{Timeout: clientTimeout},
		baseURL:    baseURL,
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
	}
}

// get performs a GET through the circuit breaker and returns the raw body.
func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	body, err := c.breaker.Execute(func() (interface{}, error) {
		u := c.baseURL + path
		if len(params) > 0 {
			u += "?" + params.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("request %s: %w", path, domain.ErrTimeout)
			}
			return nil, fmt.Errorf("request %s: %w", path, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%s returned %d", path, resp.StatusCode)
		}

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		return json.RawMessage(raw), nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: circuit open: %w", path, domain.ErrProviderUnavailable)
		}
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%v: %w", err, domain.ErrProviderUnavailable)
	}
	return body.(json.RawMessage), nil
}

// --------------------------------------------------------------------------
// Endpoints
// --------------------------------------------------------------------------

// BoxScore fetches the box score payload for an event.
func (c *Client) BoxScore(ctx context.Context, eventID int) (json.RawMessage, error) {
	return c.get(ctx, "/summary", url.Values{"event": {strconv.Itoa(eventID)}})
}

// GameLog fetches a player's per-game log for a season. The payload is a
// positionally-indexed array format pinned by schema version.
func (c *Client) GameLog(ctx context.Context, athleteID, season int) (json.RawMessage, error) {
	return c.get(ctx, "/athletes/"+strconv.Itoa(athleteID)+"/gamelog",
		url.Values{"season": {strconv.Itoa(season)}})
}

// SeasonStats fetches a player's splits for one season and season type.
func (c *Client) SeasonStats(ctx context.Context, athleteID, season int, seasonType string) (json.RawMessage, error) {
	return c.get(ctx, "/athletes/"+strconv.Itoa(athleteID)+"/stats", url.Values{
		"season":     {strconv.Itoa(season)},
		"seasontype": {seasonType},
	})
}

// CareerStats fetches a player's full season-by-season history for one
// season type. Career views are assembled from repeated per-type calls.
func (c *Client) CareerStats(ctx context.Context, athleteID int, seasonType string) (json.RawMessage, error) {
	return c.get(ctx, "/athletes/"+strconv.Itoa(athleteID)+"/stats", url.Values{
		"seasontype": {seasonType},
		"history":    {"true"},
	})
}

// Athlete is the minimal athlete shape returned by search, used to resolve
// this provider's IDs for players known only by the schedule provider.
type Athlete struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
}

// FindAthlete searches athletes by name and returns the first match.
func (c *Client) FindAthlete(ctx context.Context, name string) (*Athlete, error) {
	raw, err := c.get(ctx, "/athletes", url.Values{"search": {name}, "limit": {"1"}})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Athletes []Athlete `json:"athletes"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode athlete search: %w", err)
	}
	if len(payload.Athletes) == 0 {
		return nil, fmt.Errorf("athlete %q: %w", name, domain.ErrNotFound)
	}
	return &payload.Athletes[0], nil
}
