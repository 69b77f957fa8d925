package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to GameStatus
		want     bool
	}{
		{StatusScheduled, StatusLive, true},
		{StatusScheduled, StatusPostponed, true},
		{StatusPostponed, StatusCancelled, true},
		{StatusCancelled, StatusScheduled, true}, // pre-start statuses flip freely
		{StatusLive, StatusFinal, true},
		{StatusLive, StatusScheduled, false},
		{StatusFinal, StatusLive, false},
		{StatusFinal, StatusScheduled, false},
		{StatusFinal, StatusFinal, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestPct(t *testing.T) {
	t.Run("zero attempts is nil, not NaN", func(t *testing.T) {
		assert.Nil(t, Pct(0, 0))
		assert.Nil(t, Pct(5, 0))
	})

	t.Run("normal", func(t *testing.T) {
		p := Pct(8, 16)
		require.NotNil(t, p)
		assert.InDelta(t, 50.0, *p, 1e-9)
	})

	t.Run("clamped to storage precision", func(t *testing.T) {
		p := Pct(1, 1)
		require.NotNil(t, p)
		assert.Equal(t, MaxPercent, *p)
	})
}

func TestTeamGeography(t *testing.T) {
	conf, div, ok := TeamGeography("BOS")
	require.True(t, ok)
	assert.Equal(t, ConferenceEast, conf)
	assert.Equal(t, DivisionAtlantic, div)

	_, _, ok = TeamGeography("SEA")
	assert.False(t, ok)

	// All 30 franchises are present.
	assert.Len(t, teamGeographyByAbbreviation, 30)
}

func TestParsePosition(t *testing.T) {
	p, ok := ParsePosition("G-F")
	require.True(t, ok)
	assert.Equal(t, PositionGuardForward, p)

	_, ok = ParsePosition("Point Guard") // unmapped strings stay unmapped
	assert.False(t, ok)
}

func TestParseSeasonType(t *testing.T) {
	st, ok := ParseSeasonType("Playoffs")
	require.True(t, ok)
	assert.Equal(t, SeasonPostseason, st)

	_, ok = ParseSeasonType("preseason")
	assert.False(t, ok)
}
