// Package aggregate derives season and career rows from persisted per-game
// statistics. Derived rows are never independently authored: every recompute
// reads the full set of constituent rows and overwrites the derived row, so
// running it twice with no new data is a no-op.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/courtsync/courtsync/internal/domain"
)

// Storage is the slice of the store the engine reads and writes.
type Storage interface {
	GameStatsForSeason(ctx context.Context, playerID, season int, postseason bool) ([]domain.PlayerGameStats, error)
	UpsertSeasonStats(ctx context.Context, r domain.PlayerSeasonStats) error
	RegularSeasonStats(ctx context.Context, playerID int) ([]domain.PlayerSeasonStats, error)
	UpsertCareerStats(ctx context.Context, r domain.PlayerCareerStats) error
}

// Engine recomputes derived statistics.
type Engine struct {
	store  Storage
	logger *slog.Logger
}

// New creates an Engine.
func New(store Storage, logger *slog.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// RecomputeSeason rebuilds a player's season rows for one season and season
// type from the per-game rows. A traded player gets one row per team.
func (e *Engine) RecomputeSeason(ctx context.Context, playerID, season int, seasonType domain.SeasonType) error {
	games, err := e.store.GameStatsForSeason(ctx, playerID, season, seasonType == domain.SeasonPostseason)
	if err != nil {
		return fmt.Errorf("load per-game rows: %w", err)
	}
	if len(games) == 0 {
		return nil
	}

	byTeam := make(map[int][]domain.PlayerGameStats)
	for _, g := range games {
		byTeam[g.TeamID] = append(byTeam[g.TeamID], g)
	}

	// Deterministic upsert order keeps logs and tests stable.
	teamIDs := make([]int, 0, len(byTeam))
	for id := range byTeam {
		teamIDs = append(teamIDs, id)
	}
	sort.Ints(teamIDs)

	for _, teamID := range teamIDs {
		row := sumSeason(domain.SeasonKey{
			PlayerID:   playerID,
			Season:     season,
			SeasonType: seasonType,
			TeamID:     teamID,
		}, byTeam[teamID])
		if err := e.store.UpsertSeasonStats(ctx, row); err != nil {
			return fmt.Errorf("write season row %+v: %w", row.Key, err)
		}
	}

	e.logger.Debug("season recomputed",
		"player_id", playerID, "season", season,
		"season_type", seasonType, "rows", len(teamIDs))
	return nil
}

// RecomputeCareer rebuilds a player's career row from regular-season rows.
// Best-season maxima are season totals summed across teams, so a trade
// mid-season does not split a player's best year in two.
func (e *Engine) RecomputeCareer(ctx context.Context, playerID int) error {
	rows, err := e.store.RegularSeasonStats(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load season rows: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	type seasonTotals struct{ points, rebounds, assists int }
	bySeason := make(map[int]*seasonTotals)

	career := domain.PlayerCareerStats{PlayerID: playerID}
	for _, r := range rows {
		career.GamesPlayed += r.GamesPlayed
		career.Points += r.Points
		career.Rebounds += r.OffRebounds + r.DefRebounds
		career.Assists += r.Assists
		career.Steals += r.Steals
		career.Blocks += r.Blocks

		t := bySeason[r.Key.Season]
		if t == nil {
			t = &seasonTotals{}
			bySeason[r.Key.Season] = t
		}
		t.points += r.Points
		t.rebounds += r.OffRebounds + r.DefRebounds
		t.assists += r.Assists
	}

	career.Seasons = len(bySeason)
	for _, t := range bySeason {
		if t.points > career.BestSeasonPoints {
			career.BestSeasonPoints = t.points
		}
		if t.rebounds > career.BestSeasonRebounds {
			career.BestSeasonRebounds = t.rebounds
		}
		if t.assists > career.BestSeasonAssists {
			career.BestSeasonAssists = t.assists
		}
	}

	if err := e.store.UpsertCareerStats(ctx, career); err != nil {
		return fmt.Errorf("write career row for player %d: %w", playerID, err)
	}

	e.logger.Debug("career recomputed", "player_id", playerID, "seasons", career.Seasons)
	return nil
}

// sumSeason folds per-game rows into one season row.
func sumSeason(key domain.SeasonKey, games []domain.PlayerGameStats) domain.PlayerSeasonStats {
	row := domain.PlayerSeasonStats{Key: key, GamesPlayed: len(games)}
	for _, g := range games {
		row.Points += g.Points
		row.OffRebounds += g.OffRebounds
		row.DefRebounds += g.DefRebounds
		row.Assists += g.Assists
		row.Steals += g.Steals
		row.Blocks += g.Blocks
		row.Turnovers += g.Turnovers
		row.Fouls += g.Fouls
		row.FGM += g.FGM
		row.FGA += g.FGA
		row.TPM += g.TPM
		row.TPA += g.TPA
		row.FTM += g.FTM
		row.FTA += g.FTA
		row.Seconds += g.SecondsPlayed
	}

	n := float64(row.GamesPlayed)
	row.PointsAvg = float64(row.Points) / n
	row.ReboundsAvg = float64(row.OffRebounds+row.DefRebounds) / n
	row.AssistsAvg = float64(row.Assists) / n

	row.FGPct = domain.Pct(row.FGM, row.FGA)
	row.TPPct = domain.Pct(row.TPM, row.TPA)
	row.FTPct = domain.Pct(row.FTM, row.FTA)
	return row
}
