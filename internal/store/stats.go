package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/courtsync/courtsync/internal/config"
	"github.com/courtsync/courtsync/internal/domain"
)

// --------------------------------------------------------------------------
// Per-game stats
// --------------------------------------------------------------------------

func scanGameStats(row pgx.Row) (domain.PlayerGameStats, error) {
	var r domain.PlayerGameStats
	err := row.Scan(
		&r.PlayerID, &r.GameID, &r.TeamID, &r.Season, &r.Postseason,
		&r.Points, &r.OffRebounds, &r.DefRebounds, &r.Assists, &r.Steals,
		&r.Blocks, &r.Turnovers, &r.Fouls, &r.FGM, &r.FGA, &r.TPM, &r.TPA,
		&r.FTM, &r.FTA, &r.SecondsPlayed, &r.PlusMinus,
	)
	return r, err
}

// UpsertPlayerGameStats writes one box-score line keyed by (player, game).
func (s *Store) UpsertPlayerGameStats(ctx context.Context, r domain.PlayerGameStats) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+config.PlayerGameTable+` (
			player_id, game_id, team_id, season, postseason,
			points, off_rebounds, def_rebounds, assists, steals, blocks,
			turnovers, fouls, fgm, fga, tpm, tpa, ftm, fta,
			seconds_played, plus_minus
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		ON CONFLICT (player_id, game_id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			season = EXCLUDED.season,
			postseason = EXCLUDED.postseason,
			points = EXCLUDED.points,
			off_rebounds = EXCLUDED.off_rebounds,
			def_rebounds = EXCLUDED.def_rebounds,
			assists = EXCLUDED.assists,
			steals = EXCLUDED.steals,
			blocks = EXCLUDED.blocks,
			turnovers = EXCLUDED.turnovers,
			fouls = EXCLUDED.fouls,
			fgm = EXCLUDED.fgm,
			fga = EXCLUDED.fga,
			tpm = EXCLUDED.tpm,
			tpa = EXCLUDED.tpa,
			ftm = EXCLUDED.ftm,
			fta = EXCLUDED.fta,
			seconds_played = EXCLUDED.seconds_played,
			plus_minus = EXCLUDED.plus_minus,
			updated_at = NOW()`,
		r.PlayerID, r.GameID, r.TeamID, r.Season, r.Postseason,
		r.Points, r.OffRebounds, r.DefRebounds, r.Assists, r.Steals, r.Blocks,
		r.Turnovers, r.Fouls, r.FGM, r.FGA, r.TPM, r.TPA, r.FTM, r.FTA,
		r.SecondsPlayed, r.PlusMinus,
	)
	if err != nil {
		return fmt.Errorf("upsert game stats (player %d, game %d): %w", r.PlayerID, r.GameID, err)
	}
	return nil
}

// GameStatsForSeason returns a player's per-game lines for one season and
// season type.
func (s *Store) GameStatsForSeason(ctx context.Context, playerID, season int, postseason bool) ([]domain.PlayerGameStats, error) {
	rows, err := s.pool.Query(ctx, "game_stats_for_season", playerID, season, postseason)
	if err != nil {
		return nil, fmt.Errorf("game stats for season: %w", err)
	}
	defer rows.Close()
	return collectGameStats(rows)
}

// RecentGameStats returns a player's n most recent per-game lines, newest
// first.
func (s *Store) RecentGameStats(ctx context.Context, playerID, n int) ([]domain.PlayerGameStats, error) {
	rows, err := s.pool.Query(ctx, "recent_game_stats", playerID, n)
	if err != nil {
		return nil, fmt.Errorf("recent game stats: %w", err)
	}
	defer rows.Close()
	return collectGameStats(rows)
}

func collectGameStats(rows pgx.Rows) ([]domain.PlayerGameStats, error) {
	var records []domain.PlayerGameStats
	for rows.Next() {
		r, err := scanGameStats(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game stats: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// --------------------------------------------------------------------------
// Season stats (derived)
// --------------------------------------------------------------------------

func scanSeasonStats(row pgx.Row) (domain.PlayerSeasonStats, error) {
	var r domain.PlayerSeasonStats
	err := row.Scan(
		&r.Key.PlayerID, &r.Key.Season, &r.Key.SeasonType, &r.Key.TeamID,
		&r.GamesPlayed, &r.Points, &r.OffRebounds, &r.DefRebounds,
		&r.Assists, &r.Steals, &r.Blocks, &r.Turnovers, &r.Fouls,
		&r.FGM, &r.FGA, &r.TPM, &r.TPA, &r.FTM, &r.FTA, &r.Seconds,
		&r.PointsAvg, &r.ReboundsAvg, &r.AssistsAvg,
		&r.FGPct, &r.TPPct, &r.FTPct,
	)
	return r, err
}

// UpsertSeasonStats overwrites the single season row for its key.
func (s *Store) UpsertSeasonStats(ctx context.Context, r domain.PlayerSeasonStats) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+config.PlayerSeasonTable+` (
			player_id, season, season_type, team_id, games_played,
			points, off_rebounds, def_rebounds, assists, steals, blocks,
			turnovers, fouls, fgm, fga, tpm, tpa, ftm, fta, seconds,
			points_avg, rebounds_avg, assists_avg, fg_pct, tp_pct, ft_pct
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)
		ON CONFLICT (player_id, season, season_type, team_id) DO UPDATE SET
			games_played = EXCLUDED.games_played,
			points = EXCLUDED.points,
			off_rebounds = EXCLUDED.off_rebounds,
			def_rebounds = EXCLUDED.def_rebounds,
			assists = EXCLUDED.assists,
			steals = EXCLUDED.steals,
			blocks = EXCLUDED.blocks,
			turnovers = EXCLUDED.turnovers,
			fouls = EXCLUDED.fouls,
			fgm = EXCLUDED.fgm,
			fga = EXCLUDED.fga,
			tpm = EXCLUDED.tpm,
			tpa = EXCLUDED.tpa,
			ftm = EXCLUDED.ftm,
			fta = EXCLUDED.fta,
			seconds = EXCLUDED.seconds,
			points_avg = EXCLUDED.points_avg,
			rebounds_avg = EXCLUDED.rebounds_avg,
			assists_avg = EXCLUDED.assists_avg,
			fg_pct = EXCLUDED.fg_pct,
			tp_pct = EXCLUDED.tp_pct,
			ft_pct = EXCLUDED.ft_pct,
			updated_at = NOW()`,
		r.Key.PlayerID, r.Key.Season, r.Key.SeasonType, r.Key.TeamID, r.GamesPlayed,
		r.Points, r.OffRebounds, r.DefRebounds, r.Assists, r.Steals, r.Blocks,
		r.Turnovers, r.Fouls, r.FGM, r.FGA, r.TPM, r.TPA, r.FTM, r.FTA, r.Seconds,
		r.PointsAvg, r.ReboundsAvg, r.AssistsAvg, r.FGPct, r.TPPct, r.FTPct,
	)
	if err != nil {
		return fmt.Errorf("upsert season stats %+v: %w", r.Key, err)
	}
	return nil
}

// SeasonStatsForPlayer returns all season rows for a player and season.
func (s *Store) SeasonStatsForPlayer(ctx context.Context, playerID, season int) ([]domain.PlayerSeasonStats, error) {
	rows, err := s.pool.Query(ctx, "season_stats_for_player", playerID, season)
	if err != nil {
		return nil, fmt.Errorf("season stats: %w", err)
	}
	defer rows.Close()
	return collectSeasonStats(rows)
}

// RegularSeasonStats returns all regular-season rows across a player's
// career, ordered by season.
func (s *Store) RegularSeasonStats(ctx context.Context, playerID int) ([]domain.PlayerSeasonStats, error) {
	rows, err := s.pool.Query(ctx, "season_stats_regular", playerID)
	if err != nil {
		return nil, fmt.Errorf("regular season stats: %w", err)
	}
	defer rows.Close()
	return collectSeasonStats(rows)
}

func collectSeasonStats(rows pgx.Rows) ([]domain.PlayerSeasonStats, error) {
	var records []domain.PlayerSeasonStats
	for rows.Next() {
		r, err := scanSeasonStats(rows)
		if err != nil {
			return nil, fmt.Errorf("scan season stats: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// --------------------------------------------------------------------------
// Career stats (derived)
// --------------------------------------------------------------------------

// UpsertCareerStats overwrites a player's career row.
func (s *Store) UpsertCareerStats(ctx context.Context, r domain.PlayerCareerStats) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+config.PlayerCareerTable+` (
			player_id, seasons, games_played, points, rebounds, assists,
			steals, blocks, best_season_points, best_season_rebounds, best_season_assists
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (player_id) DO UPDATE SET
			seasons = EXCLUDED.seasons,
			games_played = EXCLUDED.games_played,
			points = EXCLUDED.points,
			rebounds = EXCLUDED.rebounds,
			assists = EXCLUDED.assists,
			steals = EXCLUDED.steals,
			blocks = EXCLUDED.blocks,
			best_season_points = EXCLUDED.best_season_points,
			best_season_rebounds = EXCLUDED.best_season_rebounds,
			best_season_assists = EXCLUDED.best_season_assists,
			updated_at = NOW()`,
		r.PlayerID, r.Seasons, r.GamesPlayed, r.Points, r.Rebounds, r.Assists,
		r.Steals, r.Blocks, r.BestSeasonPoints, r.BestSeasonRebounds, r.BestSeasonAssists,
	)
	if err != nil {
		return fmt.Errorf("upsert career stats for player %d: %w", r.PlayerID, err)
	}
	return nil
}

// GetCareerStats returns a player's career row.
func (s *Store) GetCareerStats(ctx context.Context, playerID int) (domain.PlayerCareerStats, error) {
	var r domain.PlayerCareerStats
	err := s.pool.QueryRow(ctx, "career_stats", playerID).Scan(
		&r.PlayerID, &r.Seasons, &r.GamesPlayed, &r.Points, &r.Rebounds,
		&r.Assists, &r.Steals, &r.Blocks,
		&r.BestSeasonPoints, &r.BestSeasonRebounds, &r.BestSeasonAssists,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PlayerCareerStats{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.PlayerCareerStats{}, fmt.Errorf("get career stats %d: %w", playerID, err)
	}
	return r, nil
}
