package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtsync/courtsync/internal/cache"
	"github.com/courtsync/courtsync/internal/domain"
	"github.com/courtsync/courtsync/internal/sync"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSyncer counts calls and lets tests make records appear as a side
// effect, mimicking a provider pull landing in the store.
type fakeSyncer struct {
	dateCalls   int
	teamCalls   int
	searchCalls int
	seasonCalls int
	logCalls    int
	careerCalls int
	err         error
	onSync      func()
}

func (f *fakeSyncer) fire() {
	if f.onSync != nil {
		f.onSync()
	}
}

func (f *fakeSyncer) SyncTeams(context.Context) (sync.Result, error) {
	f.teamCalls++
	f.fire()
	return sync.Result{}, f.err
}

func (f *fakeSyncer) SyncPlayerSearch(context.Context, string, int, int) (sync.Result, error) {
	f.searchCalls++
	f.fire()
	return sync.Result{}, f.err
}

func (f *fakeSyncer) SyncDate(context.Context, time.Time) (sync.Result, error) {
	f.dateCalls++
	f.fire()
	return sync.Result{}, f.err
}

func (f *fakeSyncer) SyncGameLog(context.Context, domain.Player, int) (sync.Result, error) {
	f.logCalls++
	f.fire()
	return sync.Result{}, f.err
}

func (f *fakeSyncer) SyncSeasonStats(context.Context, domain.Player, int) (sync.Result, error) {
	f.seasonCalls++
	f.fire()
	return sync.Result{}, f.err
}

func (f *fakeSyncer) SyncCareer(context.Context, domain.Player) (sync.Result, error) {
	f.careerCalls++
	f.fire()
	return sync.Result{}, f.err
}

// --------------------------------------------------------------------------
// Games
// --------------------------------------------------------------------------

type fakeGamesStore struct {
	games []domain.Game
}

func (f *fakeGamesStore) GetGame(_ context.Context, id int) (domain.Game, error) {
	for _, g := range f.games {
		if g.ID == id {
			return g, nil
		}
	}
	return domain.Game{}, domain.ErrNotFound
}

func (f *fakeGamesStore) GetGamesByDate(_ context.Context, date time.Time) ([]domain.Game, error) {
	var out []domain.Game
	for _, g := range f.games {
		if g.Date.Format("2006-01-02") == date.Format("2006-01-02") {
			out = append(out, g)
		}
	}
	return out, nil
}

var gameDate = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func TestGamesGetByDateStoreHitSkipsSync(t *testing.T) {
	st := &fakeGamesStore{games: []domain.Game{{ID: 1, Date: gameDate, Status: domain.StatusFinal}}}
	syn := &fakeSyncer{}
	svc := NewGames(st, syn, cache.NewMemory(true), testLogger())

	games, err := svc.GetByDate(context.Background(), gameDate)
	require.NoError(t, err)
	assert.Len(t, games, 1)
	assert.Zero(t, syn.dateCalls)
}

func TestGamesGetByDateSyncsOnEmpty(t *testing.T) {
	st := &fakeGamesStore{}
	syn := &fakeSyncer{}
	syn.onSync = func() {
		st.games = []domain.Game{{ID: 1, Date: gameDate, Status: domain.StatusFinal}}
	}
	svc := NewGames(st, syn, cache.NewMemory(true), testLogger())

	games, err := svc.GetByDate(context.Background(), gameDate)
	require.NoError(t, err)
	assert.Len(t, games, 1)
	assert.Equal(t, 1, syn.dateCalls)

	// Second call is served from cache.
	_, err = svc.GetByDate(context.Background(), gameDate)
	require.NoError(t, err)
	assert.Equal(t, 1, syn.dateCalls)
}

func TestGamesGetByDateEmptySlateIsValid(t *testing.T) {
	svc := NewGames(&fakeGamesStore{}, &fakeSyncer{}, cache.NewMemory(true), testLogger())

	games, err := svc.GetByDate(context.Background(), gameDate)
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestGamesGetByDateSurfacesSyncError(t *testing.T) {
	syn := &fakeSyncer{err: domain.ErrQuotaExceeded}
	svc := NewGames(&fakeGamesStore{}, syn, cache.NewMemory(true), testLogger())

	_, err := svc.GetByDate(context.Background(), gameDate)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestGamesGetByIDMissIsDefinitive(t *testing.T) {
	syn := &fakeSyncer{}
	svc := NewGames(&fakeGamesStore{}, syn, cache.NewMemory(true), testLogger())

	_, err := svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, syn.dateCalls)
}

// --------------------------------------------------------------------------
// Teams
// --------------------------------------------------------------------------

type fakeTeamsStore struct {
	teams []domain.Team
}

func (f *fakeTeamsStore) GetTeam(_ context.Context, id int) (domain.Team, error) {
	for _, t := range f.teams {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Team{}, domain.ErrNotFound
}

func (f *fakeTeamsStore) ListTeams(context.Context) ([]domain.Team, error) {
	return f.teams, nil
}

func TestTeamsListSeedsOnFirstUse(t *testing.T) {
	st := &fakeTeamsStore{}
	syn := &fakeSyncer{}
	syn.onSync = func() {
		st.teams = []domain.Team{{ID: 2, Abbreviation: "BOS"}}
	}
	svc := NewTeams(st, syn, cache.NewMemory(true), testLogger())

	teams, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, teams, 1)
	assert.Equal(t, 1, syn.teamCalls)
}

func TestTeamsGetByIDSyncsThenResolves(t *testing.T) {
	st := &fakeTeamsStore{}
	syn := &fakeSyncer{}
	syn.onSync = func() {
		st.teams = []domain.Team{{ID: 2, Abbreviation: "BOS"}}
	}
	svc := NewTeams(st, syn, cache.NewMemory(true), testLogger())

	team, err := svc.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "BOS", team.Abbreviation)
	assert.Equal(t, 1, syn.teamCalls)
}

// --------------------------------------------------------------------------
// Players
// --------------------------------------------------------------------------

type fakePlayersStore struct {
	players []domain.Player
}

func (f *fakePlayersStore) GetPlayer(_ context.Context, id int) (domain.Player, error) {
	for _, p := range f.players {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Player{}, domain.ErrNotFound
}

func (f *fakePlayersStore) SearchPlayers(_ context.Context, term string, _, _ int) ([]domain.Player, error) {
	var out []domain.Player
	for _, p := range f.players {
		if p.LastName == term {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestPlayersSearchFallsBackToProvider(t *testing.T) {
	st := &fakePlayersStore{}
	syn := &fakeSyncer{}
	syn.onSync = func() {
		st.players = []domain.Player{{ID: 101, FirstName: "Jayson", LastName: "Tatum"}}
	}
	svc := NewPlayers(st, syn, cache.NewMemory(true), testLogger())

	players, err := svc.Search(context.Background(), "Tatum", 1, 25)
	require.NoError(t, err)
	assert.Len(t, players, 1)
	assert.Equal(t, 1, syn.searchCalls)
}

func TestPlayersSearchCachesNormalizedTerm(t *testing.T) {
	st := &fakePlayersStore{players: []domain.Player{{ID: 101, LastName: "Tatum"}}}
	syn := &fakeSyncer{}
	svc := NewPlayers(st, syn, cache.NewMemory(true), testLogger())

	_, err := svc.Search(context.Background(), "Tatum", 1, 25)
	require.NoError(t, err)

	// Equivalent spellings share a cache entry.
	st.players = nil
	players, err := svc.Search(context.Background(), "  TATUM ", 1, 25)
	require.NoError(t, err)
	assert.Len(t, players, 1)
}

// --------------------------------------------------------------------------
// Stats
// --------------------------------------------------------------------------

type fakeStatsStore struct {
	players    []domain.Player
	seasonRows []domain.PlayerSeasonStats
	gameRows   []domain.PlayerGameStats
	career     *domain.PlayerCareerStats
}

func (f *fakeStatsStore) GetPlayer(_ context.Context, id int) (domain.Player, error) {
	for _, p := range f.players {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Player{}, domain.ErrNotFound
}

func (f *fakeStatsStore) SeasonStatsForPlayer(_ context.Context, playerID, season int) ([]domain.PlayerSeasonStats, error) {
	var out []domain.PlayerSeasonStats
	for _, r := range f.seasonRows {
		if r.Key.PlayerID == playerID && r.Key.Season == season {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStatsStore) RecentGameStats(_ context.Context, playerID, n int) ([]domain.PlayerGameStats, error) {
	var out []domain.PlayerGameStats
	for _, r := range f.gameRows {
		if r.PlayerID == playerID && len(out) < n {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStatsStore) GetCareerStats(_ context.Context, playerID int) (domain.PlayerCareerStats, error) {
	if f.career != nil && f.career.PlayerID == playerID {
		return *f.career, nil
	}
	return domain.PlayerCareerStats{}, domain.ErrNotFound
}

func TestStatsGetSeasonStatsSyncsOnMiss(t *testing.T) {
	st := &fakeStatsStore{players: []domain.Player{{ID: 101, FirstName: "Jayson", LastName: "Tatum"}}}
	syn := &fakeSyncer{}
	syn.onSync = func() {
		st.seasonRows = []domain.PlayerSeasonStats{{
			Key: domain.SeasonKey{PlayerID: 101, Season: 2025, SeasonType: domain.SeasonRegular, TeamID: 2},
		}}
	}
	svc := NewStats(st, syn, cache.NewMemory(true), testLogger())

	rows, err := svc.GetSeasonStats(context.Background(), 101, 2025)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 1, syn.seasonCalls)
}

func TestStatsGetSeasonStatsUnknownPlayer(t *testing.T) {
	svc := NewStats(&fakeStatsStore{}, &fakeSyncer{}, cache.NewMemory(true), testLogger())

	_, err := svc.GetSeasonStats(context.Background(), 999, 2025)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatsGetSeasonStatsProviderErrorSurfaces(t *testing.T) {
	st := &fakeStatsStore{players: []domain.Player{{ID: 101}}}
	syn := &fakeSyncer{err: domain.ErrProviderUnavailable}
	svc := NewStats(st, syn, cache.NewMemory(true), testLogger())

	_, err := svc.GetSeasonStats(context.Background(), 101, 2025)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestStatsGetRecentGamesPullsGameLog(t *testing.T) {
	st := &fakeStatsStore{players: []domain.Player{{ID: 101}}}
	syn := &fakeSyncer{}
	syn.onSync = func() {
		st.gameRows = []domain.PlayerGameStats{
			{PlayerID: 101, GameID: 1, Points: 30},
			{PlayerID: 101, GameID: 2, Points: 25},
		}
	}
	svc := NewStats(st, syn, cache.NewMemory(true), testLogger())

	rows, err := svc.GetRecentGames(context.Background(), 101, 10, 2025)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 1, syn.logCalls)
}

func TestStatsGetCareerStatsSyncsHistory(t *testing.T) {
	st := &fakeStatsStore{players: []domain.Player{{ID: 101}}}
	syn := &fakeSyncer{}
	syn.onSync = func() {
		st.career = &domain.PlayerCareerStats{PlayerID: 101, Seasons: 8, Points: 12000}
	}
	svc := NewStats(st, syn, cache.NewMemory(true), testLogger())

	career, err := svc.GetCareerStats(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, 8, career.Seasons)
	assert.Equal(t, 1, syn.careerCalls)
}
