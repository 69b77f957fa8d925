package domain

import "errors"

// Sentinel errors shared across the sync core. Callers distinguish "this does
// not exist" (ErrNotFound) from "we could not check right now"
// (ErrProviderUnavailable) — the two are never conflated.
var (
	// ErrNotFound means the entity is absent even after a sync attempt.
	ErrNotFound = errors.New("not found")

	// ErrProviderUnavailable means a provider call failed after retries
	// (network error, 5xx, unparseable response, open circuit).
	ErrProviderUnavailable = errors.New("provider temporarily unavailable")

	// ErrQuotaExceeded is the retryable signal for a 429-equivalent response.
	// It triggers the client-wide cooldown; after retries exhaust it is
	// surfaced as ErrProviderUnavailable.
	ErrQuotaExceeded = errors.New("provider quota exceeded")
)

// ErrTimeout marks a provider call that exceeded its caller-supplied
// deadline. Retryable, but unlike ErrQuotaExceeded it never extends the
// cooldown — only explicit quota signals do.
var ErrTimeout = errors.New("provider call timed out")
