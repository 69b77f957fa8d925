package aggregate

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtsync/courtsync/internal/domain"
)

type fakeStorage struct {
	games      []domain.PlayerGameStats
	seasonRows map[domain.SeasonKey]domain.PlayerSeasonStats
	regular    []domain.PlayerSeasonStats
	career     map[int]domain.PlayerCareerStats
	writes     int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		seasonRows: make(map[domain.SeasonKey]domain.PlayerSeasonStats),
		career:     make(map[int]domain.PlayerCareerStats),
	}
}

func (f *fakeStorage) GameStatsForSeason(_ context.Context, playerID, season int, postseason bool) ([]domain.PlayerGameStats, error) {
	var out []domain.PlayerGameStats
	for _, g := range f.games {
		if g.PlayerID == playerID && g.Season == season && g.Postseason == postseason {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStorage) UpsertSeasonStats(_ context.Context, r domain.PlayerSeasonStats) error {
	f.seasonRows[r.Key] = r
	f.writes++
	return nil
}

func (f *fakeStorage) RegularSeasonStats(_ context.Context, playerID int) ([]domain.PlayerSeasonStats, error) {
	var out []domain.PlayerSeasonStats
	for _, r := range f.regular {
		if r.Key.PlayerID == playerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStorage) UpsertCareerStats(_ context.Context, r domain.PlayerCareerStats) error {
	f.career[r.PlayerID] = r
	f.writes++
	return nil
}

func testEngine(f *fakeStorage) *Engine {
	return New(f, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func gameLine(playerID, teamID, points, fgm, fga int) domain.PlayerGameStats {
	return domain.PlayerGameStats{
		PlayerID: playerID, TeamID: teamID, Season: 2025,
		Points: points, OffRebounds: 1, DefRebounds: 4, Assists: 6,
		FGM: fgm, FGA: fga, FTM: 4, FTA: 5, SecondsPlayed: 2000,
	}
}

func TestRecomputeSeasonTotalsAndAverages(t *testing.T) {
	f := newFakeStorage()
	f.games = []domain.PlayerGameStats{
		gameLine(7, 2, 30, 11, 20),
		gameLine(7, 2, 20, 8, 18),
	}

	require.NoError(t, testEngine(f).RecomputeSeason(context.Background(), 7, 2025, domain.SeasonRegular))

	key := domain.SeasonKey{PlayerID: 7, Season: 2025, SeasonType: domain.SeasonRegular, TeamID: 2}
	row, ok := f.seasonRows[key]
	require.True(t, ok)

	assert.Equal(t, 2, row.GamesPlayed)
	assert.Equal(t, 50, row.Points)
	assert.Equal(t, 25.0, row.PointsAvg)
	assert.Equal(t, 5.0, row.ReboundsAvg)
	assert.Equal(t, 19, row.FGM)
	require.NotNil(t, row.FGPct)
	assert.InDelta(t, 50.0, *row.FGPct, 0.001)
}

func TestRecomputeSeasonSplitsTradedPlayerByTeam(t *testing.T) {
	f := newFakeStorage()
	f.games = []domain.PlayerGameStats{
		gameLine(7, 2, 30, 11, 20),
		gameLine(7, 14, 12, 5, 11),
	}

	require.NoError(t, testEngine(f).RecomputeSeason(context.Background(), 7, 2025, domain.SeasonRegular))

	require.Len(t, f.seasonRows, 2)
	first := f.seasonRows[domain.SeasonKey{PlayerID: 7, Season: 2025, SeasonType: domain.SeasonRegular, TeamID: 2}]
	second := f.seasonRows[domain.SeasonKey{PlayerID: 7, Season: 2025, SeasonType: domain.SeasonRegular, TeamID: 14}]
	assert.Equal(t, 30, first.Points)
	assert.Equal(t, 12, second.Points)
}

func TestRecomputeSeasonIsIdempotent(t *testing.T) {
	f := newFakeStorage()
	f.games = []domain.PlayerGameStats{gameLine(7, 2, 30, 11, 20)}
	e := testEngine(f)

	require.NoError(t, e.RecomputeSeason(context.Background(), 7, 2025, domain.SeasonRegular))
	firstPass := f.seasonRows[domain.SeasonKey{PlayerID: 7, Season: 2025, SeasonType: domain.SeasonRegular, TeamID: 2}]

	require.NoError(t, e.RecomputeSeason(context.Background(), 7, 2025, domain.SeasonRegular))
	secondPass := f.seasonRows[domain.SeasonKey{PlayerID: 7, Season: 2025, SeasonType: domain.SeasonRegular, TeamID: 2}]

	assert.Equal(t, firstPass, secondPass)
	assert.Len(t, f.seasonRows, 1)
}

func TestRecomputeSeasonNilPercentageOnZeroAttempts(t *testing.T) {
	f := newFakeStorage()
	g := gameLine(7, 2, 10, 5, 9)
	g.TPM, g.TPA = 0, 0
	f.games = []domain.PlayerGameStats{g}

	require.NoError(t, testEngine(f).RecomputeSeason(context.Background(), 7, 2025, domain.SeasonRegular))

	row := f.seasonRows[domain.SeasonKey{PlayerID: 7, Season: 2025, SeasonType: domain.SeasonRegular, TeamID: 2}]
	assert.Nil(t, row.TPPct)
	assert.NotNil(t, row.FGPct)
}

func TestRecomputeSeasonNoGamesWritesNothing(t *testing.T) {
	f := newFakeStorage()
	require.NoError(t, testEngine(f).RecomputeSeason(context.Background(), 7, 2025, domain.SeasonRegular))
	assert.Zero(t, f.writes)
}

func seasonRow(playerID, season, teamID, points, rebounds, assists, games int) domain.PlayerSeasonStats {
	return domain.PlayerSeasonStats{
		Key:         domain.SeasonKey{PlayerID: playerID, Season: season, SeasonType: domain.SeasonRegular, TeamID: teamID},
		GamesPlayed: games,
		Points:      points,
		DefRebounds: rebounds,
		Assists:     assists,
	}
}

func TestRecomputeCareerSumsAndBestSeasons(t *testing.T) {
	f := newFakeStorage()
	f.regular = []domain.PlayerSeasonStats{
		seasonRow(7, 2023, 2, 1500, 400, 350, 70),
		seasonRow(7, 2024, 2, 1800, 420, 500, 75),
		seasonRow(7, 2025, 2, 1200, 380, 300, 60),
	}

	require.NoError(t, testEngine(f).RecomputeCareer(context.Background(), 7))

	c := f.career[7]
	assert.Equal(t, 3, c.Seasons)
	assert.Equal(t, 205, c.GamesPlayed)
	assert.Equal(t, 4500, c.Points)
	assert.Equal(t, 1800, c.BestSeasonPoints)
	assert.Equal(t, 420, c.BestSeasonRebounds)
	assert.Equal(t, 500, c.BestSeasonAssists)
}

func TestRecomputeCareerMergesTradedSeason(t *testing.T) {
	f := newFakeStorage()
	f.regular = []domain.PlayerSeasonStats{
		seasonRow(7, 2024, 2, 900, 200, 250, 40),
		seasonRow(7, 2024, 14, 700, 180, 200, 35),
		seasonRow(7, 2025, 14, 1400, 350, 400, 70),
	}

	require.NoError(t, testEngine(f).RecomputeCareer(context.Background(), 7))

	c := f.career[7]
	// Two calendar seasons even though three rows exist.
	assert.Equal(t, 2, c.Seasons)
	// 2024 totals combine both teams: 1600 points beats 2025's 1400.
	assert.Equal(t, 1600, c.BestSeasonPoints)
	assert.Equal(t, 450, c.BestSeasonAssists)
}

func TestRecomputeCareerNoSeasonsWritesNothing(t *testing.T) {
	f := newFakeStorage()
	require.NoError(t, testEngine(f).RecomputeCareer(context.Background(), 7))
	assert.Zero(t, f.writes)
}
