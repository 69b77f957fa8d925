// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtsync/courtsync/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers the hot read-path statements. Upserts
// stay inline in the store package — they run at sync cadence, not request
// cadence, and inline SQL keeps them next to their conflict targets.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Games
		"game_by_id": "SELECT id, external_id, date, home_team_id, visitor_team_id, home_score, visitor_score, status, period, clock, season, postseason, updated_at FROM " + config.GamesTable + " WHERE id = $1",
		"games_by_date": "SELECT id, external_id, date, home_team_id, visitor_team_id, home_score, visitor_score, status, period, clock, season, postseason, updated_at FROM " + config.GamesTable +
			" WHERE date >= $1 AND date < $2 ORDER BY date, id",

		// Teams
		"team_by_id":   "SELECT id, external_id, name, city, abbreviation, conference, division FROM " + config.TeamsTable + " WHERE id = $1",
		"teams_all":    "SELECT id, external_id, name, city, abbreviation, conference, division FROM " + config.TeamsTable + " ORDER BY id",
		"teams_count":  "SELECT count(*) FROM " + config.TeamsTable,
		"team_by_abbr": "SELECT id, external_id, name, city, abbreviation, conference, division FROM " + config.TeamsTable + " WHERE abbreviation = $1",

		// Players
		"player_by_id": "SELECT id, external_id, stats_id, first_name, last_name, position, team_id, height_inches, weight_pounds FROM " + config.PlayersTable + " WHERE id = $1",
		"player_search": "SELECT id, external_id, stats_id, first_name, last_name, position, team_id, height_inches, weight_pounds FROM " + config.PlayersTable +
			" WHERE lower(first_name || ' ' || last_name) LIKE $1 ORDER BY last_name, first_name LIMIT $2 OFFSET $3",
		"player_by_stats_id": "SELECT id, external_id, stats_id, first_name, last_name, position, team_id, height_inches, weight_pounds FROM " + config.PlayersTable + " WHERE stats_id = $1",

		// Per-game stats
		"game_stats_for_season": "SELECT player_id, game_id, team_id, season, postseason, points, off_rebounds, def_rebounds, assists, steals, blocks, turnovers, fouls, fgm, fga, tpm, tpa, ftm, fta, seconds_played, plus_minus FROM " +
			config.PlayerGameTable + " WHERE player_id = $1 AND season = $2 AND postseason = $3",
		"recent_game_stats": "SELECT s.player_id, s.game_id, s.team_id, s.season, s.postseason, s.points, s.off_rebounds, s.def_rebounds, s.assists, s.steals, s.blocks, s.turnovers, s.fouls, s.fgm, s.fga, s.tpm, s.tpa, s.ftm, s.fta, s.seconds_played, s.plus_minus FROM " +
			config.PlayerGameTable + " s JOIN " + config.GamesTable + " g ON g.id = s.game_id WHERE s.player_id = $1 ORDER BY g.date DESC LIMIT $2",

		// Season stats
		"season_stats_for_player": "SELECT player_id, season, season_type, team_id, games_played, points, off_rebounds, def_rebounds, assists, steals, blocks, turnovers, fouls, fgm, fga, tpm, tpa, ftm, fta, seconds, points_avg, rebounds_avg, assists_avg, fg_pct, tp_pct, ft_pct FROM " +
			config.PlayerSeasonTable + " WHERE player_id = $1 AND season = $2 ORDER BY season_type, team_id",
		"season_stats_regular": "SELECT player_id, season, season_type, team_id, games_played, points, off_rebounds, def_rebounds, assists, steals, blocks, turnovers, fouls, fgm, fga, tpm, tpa, ftm, fta, seconds, points_avg, rebounds_avg, assists_avg, fg_pct, tp_pct, ft_pct FROM " +
			config.PlayerSeasonTable + " WHERE player_id = $1 AND season_type = 'regular' ORDER BY season, team_id",

		// Career stats
		"career_stats": "SELECT player_id, seasons, games_played, points, rebounds, assists, steals, blocks, best_season_points, best_season_rebounds, best_season_assists FROM " +
			config.PlayerCareerTable + " WHERE player_id = $1",

		// Backfill: final games with no persisted box score yet
		"games_missing_stats": "SELECT g.id, g.external_id, g.date, g.home_team_id, g.visitor_team_id, g.home_score, g.visitor_score, g.status, g.period, g.clock, g.season, g.postseason, g.updated_at FROM " +
			config.GamesTable + " g WHERE g.status = 'final' AND g.stats_synced_at IS NULL AND g.stats_sync_attempts < $1 ORDER BY g.date LIMIT $2",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
