package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtsync/courtsync/internal/domain"
	"github.com/courtsync/courtsync/internal/provider/bdl"
)

func TestParseGameStatus(t *testing.T) {
	cases := []struct {
		in   string
		want domain.GameStatus
	}{
		{"Final", domain.StatusFinal},
		{"final", domain.StatusFinal},
		{"1st Qtr", domain.StatusLive},
		{"Halftime", domain.StatusLive},
		{"OT", domain.StatusLive},
		{"Postponed", domain.StatusPostponed},
		{"Cancelled", domain.StatusCancelled},
		{"Canceled", domain.StatusCancelled},
		{"2026-01-15T19:30:00Z", domain.StatusScheduled},
		{"", domain.StatusScheduled},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseGameStatus(tc.in), "status %q", tc.in)
	}
}

func TestParseHeight(t *testing.T) {
	inches, ok := parseHeight("6-8")
	require.True(t, ok)
	assert.Equal(t, 80, inches)

	_, ok = parseHeight("")
	assert.False(t, ok)
	_, ok = parseHeight("tall")
	assert.False(t, ok)
	_, ok = parseHeight("6-15")
	assert.False(t, ok)
}

func TestMapPlayer(t *testing.T) {
	teamID := 7
	p := mapPlayer(bdl.Player{
		ID: 115, FirstName: "Jayson", LastName: "Tatum",
		Position: "F", Height: "6-8", Weight: "210",
	}, &teamID)

	assert.Equal(t, 115, p.ExternalID)
	require.NotNil(t, p.Position)
	assert.Equal(t, domain.PositionForward, *p.Position)
	require.NotNil(t, p.HeightInches)
	assert.Equal(t, 80, *p.HeightInches)
	require.NotNil(t, p.WeightPounds)
	assert.Equal(t, 210, *p.WeightPounds)
	assert.Equal(t, &teamID, p.TeamID)
}

func TestMapPlayerMissingMeasurements(t *testing.T) {
	p := mapPlayer(bdl.Player{ID: 115, FirstName: "A", LastName: "B"}, nil)
	assert.Nil(t, p.Position)
	assert.Nil(t, p.HeightInches)
	assert.Nil(t, p.WeightPounds)
}

func TestMapGame(t *testing.T) {
	g := mapGame(bdl.Game{
		ID: 401, Date: "2026-01-15", Season: 2025, Status: "Final",
		Period: 4, HomeTeamScore: 121, VisitorTeamScore: 114, Postseason: false,
	}, 2, 14)

	assert.Equal(t, 401, g.ExternalID)
	assert.Equal(t, domain.StatusFinal, g.Status)
	assert.Equal(t, 2, g.HomeTeamID)
	assert.Equal(t, 14, g.VisitorTeamID)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), g.Date)
}

func TestParseGameDatePrefersDatetime(t *testing.T) {
	g := parseGameDate(bdl.Game{
		Date:     "2026-01-15",
		Datetime: "2026-01-16T00:30:00Z",
	})
	assert.Equal(t, time.Date(2026, 1, 16, 0, 30, 0, 0, time.UTC), g)
}
