package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/courtsync/courtsync/internal/config"
	"github.com/courtsync/courtsync/internal/domain"
)

const gameColumns = "id, external_id, date, home_team_id, visitor_team_id, home_score, visitor_score, status, period, clock, season, postseason, updated_at"

func scanGame(row pgx.Row) (domain.Game, error) {
	var g domain.Game
	var clock *string
	err := row.Scan(
		&g.ID, &g.ExternalID, &g.Date, &g.HomeTeamID, &g.VisitorTeamID,
		&g.HomeScore, &g.VisitorScore, &g.Status, &g.Period, &clock,
		&g.Season, &g.Postseason, &g.UpdatedAt,
	)
	if clock != nil {
		g.Clock = *clock
	}
	return g, err
}

// UpsertGame writes a game keyed by its external ID and returns the stored
// row. Status transitions are monotonic: an incoming status the stored one
// cannot transition to is ignored while the rest of the row still updates.
func (s *Store) UpsertGame(ctx context.Context, g domain.Game) (domain.Game, error) {
	existing, err := s.GetGameByExternalID(ctx, g.ExternalID)
	switch {
	case err == nil:
		if !existing.Status.CanTransition(g.Status) {
			g.Status = existing.Status
		}
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Game{}, err
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO `+config.GamesTable+` (
			external_id, date, home_team_id, visitor_team_id,
			home_score, visitor_score, status, period, clock,
			season, postseason
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (external_id) DO UPDATE SET
			date = EXCLUDED.date,
			home_team_id = EXCLUDED.home_team_id,
			visitor_team_id = EXCLUDED.visitor_team_id,
			home_score = EXCLUDED.home_score,
			visitor_score = EXCLUDED.visitor_score,
			status = EXCLUDED.status,
			period = EXCLUDED.period,
			clock = EXCLUDED.clock,
			season = EXCLUDED.season,
			postseason = EXCLUDED.postseason,
			updated_at = NOW()
		RETURNING `+gameColumns,
		g.ExternalID, g.Date, g.HomeTeamID, g.VisitorTeamID,
		g.HomeScore, g.VisitorScore, g.Status, g.Period, nilEmpty(g.Clock),
		g.Season, g.Postseason,
	)
	stored, err := scanGame(row)
	if err != nil {
		return domain.Game{}, fmt.Errorf("upsert game %d: %w", g.ExternalID, err)
	}
	return stored, nil
}

// GetGame returns a game by internal ID.
func (s *Store) GetGame(ctx context.Context, id int) (domain.Game, error) {
	g, err := scanGame(s.pool.QueryRow(ctx, "game_by_id", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Game{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Game{}, fmt.Errorf("get game %d: %w", id, err)
	}
	return g, nil
}

// GetGameByExternalID returns a game by its provider ID.
func (s *Store) GetGameByExternalID(ctx context.Context, externalID int) (domain.Game, error) {
	g, err := scanGame(s.pool.QueryRow(ctx,
		"SELECT "+gameColumns+" FROM "+config.GamesTable+" WHERE external_id = $1", externalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Game{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Game{}, fmt.Errorf("get game by external id %d: %w", externalID, err)
	}
	return g, nil
}

// GetGamesByDate returns all games on a calendar date (UTC day bounds).
func (s *Store) GetGamesByDate(ctx context.Context, date time.Time) ([]domain.Game, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	rows, err := s.pool.Query(ctx, "games_by_date", dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("games by date: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// GetGameOnDateForTeam finds the game on a date involving a team. Used by
// game-log normalization to attach rows to stored games.
func (s *Store) GetGameOnDateForTeam(ctx context.Context, date time.Time, teamID int) (domain.Game, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	g, err := scanGame(s.pool.QueryRow(ctx,
		"SELECT "+gameColumns+" FROM "+config.GamesTable+
			" WHERE date >= $1 AND date < $2 AND (home_team_id = $3 OR visitor_team_id = $3)",
		dayStart, dayStart.AddDate(0, 0, 1), teamID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Game{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Game{}, fmt.Errorf("game on %s for team %d: %w", date.Format("2006-01-02"), teamID, err)
	}
	return g, nil
}

// GamesMissingStats returns Final games whose box score has not been
// persisted yet, skipping games that already failed maxAttempts times.
func (s *Store) GamesMissingStats(ctx context.Context, maxAttempts, limit int) ([]domain.Game, error) {
	rows, err := s.pool.Query(ctx, "games_missing_stats", maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("games missing stats: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// MarkStatsSynced records a successful box-score sync for a game.
func (s *Store) MarkStatsSynced(ctx context.Context, gameID int) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE `+config.GamesTable+`
		SET stats_synced_at = NOW(), updated_at = NOW()
		WHERE id = $1`, gameID)
	return err
}

// RecordStatsSyncFailure increments the attempt counter and stores the error.
func (s *Store) RecordStatsSyncFailure(ctx context.Context, gameID int, errMsg string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE `+config.GamesTable+`
		SET stats_sync_attempts = stats_sync_attempts + 1,
			last_stats_sync_error = $2,
			updated_at = NOW()
		WHERE id = $1`, gameID, errMsg)
	return err
}
