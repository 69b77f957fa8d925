package domain

// Position enumerates roster positions. Unmapped provider strings are stored
// as nil rather than guessed.
type Position string

const (
	PositionGuard         Position = "G"
	PositionForward       Position = "F"
	PositionCenter        Position = "C"
	PositionGuardForward  Position = "G-F"
	PositionForwardGuard  Position = "F-G"
	PositionForwardCenter Position = "F-C"
	PositionCenterForward Position = "C-F"
)

var validPositions = map[Position]bool{
	PositionGuard:         true,
	PositionForward:       true,
	PositionCenter:        true,
	PositionGuardForward:  true,
	PositionForwardGuard:  true,
	PositionForwardCenter: true,
	PositionCenterForward: true,
}

// ParsePosition maps a provider position string to the enum. ok is false for
// anything unmapped.
func ParsePosition(s string) (Position, bool) {
	p := Position(s)
	if validPositions[p] {
		return p, true
	}
	return "", false
}

// Player carries two external IDs because the providers use disjoint
// identifier spaces: ExternalID is assigned by the schedule/roster provider,
// StatsID by the statistics provider. StatsID is resolved lazily and cached
// permanently on the record so cross-provider lookups happen at most once.
type Player struct {
	ID           int       `json:"id"`
	ExternalID   int       `json:"external_id"`
	StatsID      *int      `json:"stats_id,omitempty"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Position     *Position `json:"position,omitempty"`
	TeamID       *int      `json:"team_id,omitempty"` // nil for free agents
	HeightInches *int      `json:"height_inches,omitempty"`
	WeightPounds *int      `json:"weight_pounds,omitempty"`
}

// FullName returns "First Last".
func (p Player) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
