// Package domain defines the canonical records the sync core reads and
// writes. These structs are the contract between providers, the store, and
// the aggregation engine — providers normalize into them, the store persists
// them, aggregation derives from them. Columns align 1:1 with these fields.
package domain

import "time"

// GameStatus enumerates the lifecycle of a game.
type GameStatus string

const (
	StatusScheduled GameStatus = "scheduled"
	StatusLive      GameStatus = "live"
	StatusFinal     GameStatus = "final"
	StatusPostponed GameStatus = "postponed"
	StatusCancelled GameStatus = "cancelled"
)

// Terminal reports whether a game in this status is never re-synced.
func (s GameStatus) Terminal() bool {
	return s == StatusFinal || s == StatusCancelled
}

// statusRank orders statuses for monotonic transitions. Pre-start statuses
// (scheduled/postponed/cancelled) share rank 0 and may flip freely among
// themselves; once a game is live it only moves forward.
func (s GameStatus) rank() int {
	switch s {
	case StatusLive:
		return 1
	case StatusFinal:
		return 2
	default:
		return 0
	}
}

// CanTransition reports whether a stored status may be replaced by next.
// Scheduled↔Postponed↔Cancelled are interchangeable before tip-off; after
// that, transitions are monotonic and terminal statuses are sticky.
func (s GameStatus) CanTransition(next GameStatus) bool {
	if s == next {
		return true
	}
	if s.Terminal() && s.rank() > 0 {
		return false
	}
	if s.rank() == 0 && next.rank() == 0 {
		return true
	}
	return next.rank() >= s.rank()
}

// Game identifies a single contest. Created on first sync observation,
// mutated on every re-sync while not terminal, never deleted.
type Game struct {
	ID            int        `json:"id"`
	ExternalID    int        `json:"external_id"` // provider-assigned, immutable once observed
	Date          time.Time  `json:"date"`
	HomeTeamID    int        `json:"home_team_id"`
	VisitorTeamID int        `json:"visitor_team_id"`
	HomeScore     int        `json:"home_score"`
	VisitorScore  int        `json:"visitor_score"`
	Status        GameStatus `json:"status"`
	Period        int        `json:"period"`
	Clock         string     `json:"clock,omitempty"`
	Season        int        `json:"season"`
	Postseason    bool       `json:"postseason"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
