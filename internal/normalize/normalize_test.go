package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtsync/courtsync/internal/domain"
)

// fakeResolver resolves against fixed in-memory tables.
type fakeResolver struct {
	teams   map[string]domain.Team
	players map[int]domain.Player // keyed by stats ID
	games   map[string]domain.Game
}

func (r *fakeResolver) ResolveTeam(_ context.Context, abbr string) (domain.Team, bool) {
	t, ok := r.teams[abbr]
	return t, ok
}

func (r *fakeResolver) ResolvePlayer(_ context.Context, statsID int, _ string) (domain.Player, bool) {
	p, ok := r.players[statsID]
	return p, ok
}

func (r *fakeResolver) ResolveGame(_ context.Context, date time.Time, teamID int) (domain.Game, bool) {
	g, ok := r.games[fmt.Sprintf("%s/%d", date.Format("2006-01-02"), teamID)]
	return g, ok
}

func testResolver() *fakeResolver {
	return &fakeResolver{
		teams: map[string]domain.Team{
			"BOS": {ID: 2, Abbreviation: "BOS"},
			"LAL": {ID: 14, Abbreviation: "LAL"},
		},
		players: map[int]domain.Player{
			3917376: {ID: 101, ExternalID: 434, FirstName: "Jayson", LastName: "Tatum"},
		},
		games: map[string]domain.Game{
			"2026-01-15/14": {ID: 55, Season: 2025, HomeTeamID: 2, VisitorTeamID: 14},
		},
	}
}

func TestCanonicalFieldAliasTolerance(t *testing.T) {
	// Historically-used spellings of the same concept normalize identically.
	spellings := []string{"fieldGoalPercentage", "fgPercentage", "FG%", "field_goal_pct", "fgPct"}
	for _, s := range spellings {
		field, ok := CanonicalField(s)
		require.True(t, ok, "spelling %q", s)
		assert.Equal(t, FieldFGPct, field, "spelling %q", s)
	}

	_, ok := CanonicalField("completely made up stat")
	assert.False(t, ok)
}

func TestParseSplit(t *testing.T) {
	tests := []struct {
		in        string
		made, att int
		ok        bool
	}{
		{"10-21", 10, 21, true},
		{" 0-0 ", 0, 0, true},
		{"8-15", 8, 15, true},
		{"15-8", 0, 0, false}, // made > attempted
		{"10/21", 0, 0, false},
		{"ten-21", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		made, att, ok := ParseSplit(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.Equal(t, tt.made, made)
			assert.Equal(t, tt.att, att)
		}
	}
}

func TestParseClock(t *testing.T) {
	secs, ok := ParseClock("34:27")
	require.True(t, ok)
	assert.Equal(t, 34*60+27, secs)

	secs, ok = ParseClock("34") // bare minutes
	require.True(t, ok)
	assert.Equal(t, 34*60, secs)

	for _, bad := range []string{"", "12:75", "-5:00", "DNP"} {
		_, ok := ParseClock(bad)
		assert.False(t, ok, "input %q", bad)
	}
}

const boxScorePayload = `{
	"boxscore": {
		"players": [
			{
				"team": {"abbreviation": "BOS"},
				"statistics": [{
					"labels": ["MIN", "FG", "3PT", "FT", "OREB", "DREB", "AST", "STL", "BLK", "TO", "PF", "+/-", "PTS"],
					"athletes": [
						{
							"athlete": {"id": "3917376", "displayName": "Jayson Tatum"},
							"stats": ["36:12", "10-21", "3-8", "5-6", "1", "7", "4", "1", "0", "3", "2", "+12", "28"]
						},
						{
							"athlete": {"id": "9999999", "displayName": "Unknown Rookie"},
							"stats": ["12:00", "1-2", "0-0", "0-0", "0", "1", "0", "0", "0", "1", "2", "-3", "2"]
						},
						{
							"athlete": {"id": "3917376", "displayName": "Jayson Tatum"},
							"didNotPlay": true,
							"stats": []
						}
					]
				}]
			},
			{
				"team": {"abbreviation": "SEA"},
				"statistics": [{"labels": [], "athletes": []}]
			}
		]
	}
}`

func TestBoxScoreNormalization(t *testing.T) {
	n := New(testResolver(), nil)
	game := domain.Game{ID: 55, Season: 2025, Postseason: false}

	records, err := n.BoxScore(context.Background(), json.RawMessage(boxScorePayload), game)
	require.NoError(t, err)

	// The unresolvable athlete and the unresolvable team block are dropped;
	// the DNP line is skipped.
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, 101, rec.PlayerID)
	assert.Equal(t, 55, rec.GameID)
	assert.Equal(t, 2, rec.TeamID)
	assert.Equal(t, 2025, rec.Season)
	assert.Equal(t, 36*60+12, rec.SecondsPlayed)
	assert.Equal(t, 10, rec.FGM)
	assert.Equal(t, 21, rec.FGA)
	assert.Equal(t, 3, rec.TPM)
	assert.Equal(t, 8, rec.TPA)
	assert.Equal(t, 5, rec.FTM)
	assert.Equal(t, 6, rec.FTA)
	assert.Equal(t, 1, rec.OffRebounds)
	assert.Equal(t, 7, rec.DefRebounds)
	assert.Equal(t, 8, rec.Rebounds())
	assert.Equal(t, 4, rec.Assists)
	assert.Equal(t, 12, rec.PlusMinus)
	assert.Equal(t, 28, rec.Points)
}

func TestBoxScoreMalformedValueIsSkippedNotFatal(t *testing.T) {
	payload := `{
		"boxscore": {"players": [{
			"team": {"abbreviation": "BOS"},
			"statistics": [{
				"labels": ["MIN", "PTS", "AST"],
				"athletes": [{
					"athlete": {"id": "3917376", "displayName": "Jayson Tatum"},
					"stats": ["garbage", "28", "4"]
				}]
			}]
		}]}
	}`

	n := New(testResolver(), nil)
	records, err := n.BoxScore(context.Background(), json.RawMessage(payload), domain.Game{ID: 55, Season: 2025})
	require.NoError(t, err)
	require.Len(t, records, 1)

	// The bad minutes value is skipped; the rest of the record survives.
	assert.Equal(t, 0, records[0].SecondsPlayed)
	assert.Equal(t, 28, records[0].Points)
	assert.Equal(t, 4, records[0].Assists)
}

func TestBoxScoreCountMismatchDropsLine(t *testing.T) {
	payload := `{
		"boxscore": {"players": [{
			"team": {"abbreviation": "BOS"},
			"statistics": [{
				"labels": ["MIN", "PTS"],
				"athletes": [{
					"athlete": {"id": "3917376", "displayName": "Jayson Tatum"},
					"stats": ["34:00", "28", "4"]
				}]
			}]
		}]}
	}`

	n := New(testResolver(), nil)
	records, err := n.BoxScore(context.Background(), json.RawMessage(payload), domain.Game{ID: 55})
	require.NoError(t, err)
	assert.Empty(t, records, "misaligned lines are dropped, never misread")
}

func TestGameLogNormalization(t *testing.T) {
	payload := `{
		"version": "gamelog.v2",
		"rows": [
			["2026-01-15", "LAL", "W 120-112", "36:12", "10-21", "3-8", "5-6", "1", "7", "4", "1", "0", "3", "2", "+12", "28"],
			["2026-01-15", "LAL", "W 120-112", "36:12", "10-21", "3-8", "5-6", "1", "7", "4", "1", "0", "3", "2", "+12"],
			["2026-01-17", "SEA", "L 99-110", "30:00", "8-15", "2-6", "4-4", "0", "5", "6", "2", "1", "2", "3", "-8", "22"]
		]
	}`

	n := New(testResolver(), nil)
	player := domain.Player{ID: 101}

	records, err := n.GameLog(context.Background(), json.RawMessage(payload), player)
	require.NoError(t, err)

	// Row 2 has a short column count (parse error), row 3 an unresolvable
	// opponent; only row 1 normalizes.
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, 101, rec.PlayerID)
	assert.Equal(t, 55, rec.GameID)
	assert.Equal(t, 2, rec.TeamID, "player team is the game's other side")
	assert.Equal(t, 28, rec.Points)
}

func TestGameLogUnknownVersion(t *testing.T) {
	n := New(testResolver(), nil)
	_, err := n.GameLog(context.Background(),
		json.RawMessage(`{"version": "gamelog.v99", "rows": []}`), domain.Player{ID: 101})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version")
}

func seasonPayload(seasons string) json.RawMessage {
	return json.RawMessage(`{"seasonType": "Regular Season", "seasons": [` + seasons + `]}`)
}

func TestSeasonSplitsAliasesProduceIdenticalOutput(t *testing.T) {
	n := New(testResolver(), nil)
	ctx := context.Background()

	a, err := n.SeasonSplits(ctx, seasonPayload(
		`{"season": 2024, "team": "LAL", "stats": {"gamesPlayed": 70, "points": 1820, "fieldGoalsMade": 700, "fieldGoalsAttempted": 1400}}`), 101)
	require.NoError(t, err)

	b, err := n.SeasonSplits(ctx, seasonPayload(
		`{"season": 2024, "team": "LAL", "stats": {"GP": 70, "PTS": 1820, "FGM": 700, "FGA": 1400}}`), 101)
	require.NoError(t, err)

	require.Len(t, a, 1)
	assert.Equal(t, a, b, "alias spellings must produce identical canonical output")

	require.NotNil(t, a[0].FGPct)
	assert.InDelta(t, 50.0, *a[0].FGPct, 1e-9)
	assert.InDelta(t, 26.0, a[0].PointsAvg, 1e-9)
}

func TestSeasonSplitsZeroAttemptsYieldNilPct(t *testing.T) {
	n := New(testResolver(), nil)
	rows, err := n.SeasonSplits(context.Background(), seasonPayload(
		`{"season": 2024, "team": "LAL", "stats": {"gamesPlayed": 3, "points": 12, "fga": 0, "fgm": 0}}`), 101)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].FGPct)
}

func TestSeasonSetDeduplicatesOverlappingFetches(t *testing.T) {
	n := New(testResolver(), nil)
	ctx := context.Background()

	// Two overlapping career-history fetches both contain 2024/regular/LAL.
	first, err := n.SeasonSplits(ctx, seasonPayload(
		`{"season": 2023, "team": "BOS", "stats": {"gamesPlayed": 60, "points": 1500}},
		 {"season": 2024, "team": "LAL", "stats": {"gamesPlayed": 70, "points": 1800}}`), 101)
	require.NoError(t, err)

	second, err := n.SeasonSplits(ctx, seasonPayload(
		`{"season": 2024, "team": "LAL", "stats": {"gamesPlayed": 71, "points": 1820}}`), 101)
	require.NoError(t, err)

	set := NewSeasonSet()
	set.Add(first...)
	set.Add(second...)

	rows := set.Rows()
	require.Len(t, rows, 2, "exactly one row per (season, type, team)")
	assert.Equal(t, 2023, rows[0].Key.Season)
	assert.Equal(t, 2024, rows[1].Key.Season)
	assert.Equal(t, 71, rows[1].GamesPlayed, "the later fetch wins")
}
