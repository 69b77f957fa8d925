package sync

import (
	"strconv"
	"strings"
	"time"

	"github.com/courtsync/courtsync/internal/domain"
	"github.com/courtsync/courtsync/internal/provider/bdl"
)

// mapTeam converts a schedule-provider team into the canonical shape.
// Conference and division are filled from the static lookup at upsert time.
func mapTeam(t bdl.Team) domain.Team {
	return domain.Team{
		ExternalID:   t.ID,
		Name:         t.Name,
		City:         t.City,
		Abbreviation: strings.ToUpper(t.Abbreviation),
	}
}

// mapPlayer converts a schedule-provider player. Height ("6-8") and weight
// ("215") arrive as strings and map to nil when absent or malformed.
func mapPlayer(p bdl.Player, teamID *int) domain.Player {
	out := domain.Player{
		ExternalID: p.ID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		TeamID:     teamID,
	}
	if pos, ok := domain.ParsePosition(p.Position); ok {
		out.Position = &pos
	}
	if inches, ok := parseHeight(p.Height); ok {
		out.HeightInches = &inches
	}
	if lbs, err := strconv.Atoi(strings.TrimSpace(p.Weight)); err == nil && lbs > 0 {
		out.WeightPounds = &lbs
	}
	return out
}

func parseHeight(s string) (int, bool) {
	feet, inches, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found {
		return 0, false
	}
	f, err1 := strconv.Atoi(feet)
	i, err2 := strconv.Atoi(inches)
	if err1 != nil || err2 != nil || f <= 0 || i < 0 || i > 11 {
		return 0, false
	}
	return f*12 + i, true
}

// mapGame converts a schedule-provider game. Team IDs are the internal ones
// resolved by the caller; the provider's embedded team objects carry only
// external IDs.
func mapGame(g bdl.Game, homeTeamID, visitorTeamID int) domain.Game {
	return domain.Game{
		ExternalID:    g.ID,
		Date:          parseGameDate(g),
		HomeTeamID:    homeTeamID,
		VisitorTeamID: visitorTeamID,
		HomeScore:     g.HomeTeamScore,
		VisitorScore:  g.VisitorTeamScore,
		Status:        parseGameStatus(g.Status),
		Period:        g.Period,
		Clock:         g.Time,
		Season:        g.Season,
		Postseason:    g.Postseason,
	}
}

func parseGameDate(g bdl.Game) time.Time {
	for _, raw := range []string{g.Datetime, g.Date} {
		if raw == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}

// parseGameStatus maps the provider's free-form status field. Scheduled games
// carry a tip-off timestamp in the status field, live games a quarter label,
// finished games the literal "Final".
func parseGameStatus(s string) domain.GameStatus {
	switch trimmed := strings.TrimSpace(s); {
	case strings.EqualFold(trimmed, "Final"):
		return domain.StatusFinal
	case strings.EqualFold(trimmed, "Postponed"):
		return domain.StatusPostponed
	case strings.EqualFold(trimmed, "Cancelled"), strings.EqualFold(trimmed, "Canceled"):
		return domain.StatusCancelled
	case trimmed == "":
		return domain.StatusScheduled
	default:
		if _, err := time.Parse(time.RFC3339, trimmed); err == nil {
			return domain.StatusScheduled
		}
		// Quarter, halftime and overtime labels all mean in progress.
		return domain.StatusLive
	}
}
