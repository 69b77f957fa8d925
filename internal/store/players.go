package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/courtsync/courtsync/internal/config"
	"github.com/courtsync/courtsync/internal/domain"
)

const playerColumns = "id, external_id, stats_id, first_name, last_name, position, team_id, height_inches, weight_pounds"

func scanPlayer(row pgx.Row) (domain.Player, error) {
	var p domain.Player
	var position *string
	err := row.Scan(
		&p.ID, &p.ExternalID, &p.StatsID, &p.FirstName, &p.LastName,
		&position, &p.TeamID, &p.HeightInches, &p.WeightPounds,
	)
	if position != nil {
		if pos, ok := domain.ParsePosition(*position); ok {
			p.Position = &pos
		}
	}
	return p, err
}

// UpsertPlayer writes a player keyed by the schedule provider's external ID.
// A previously-resolved stats-provider ID is never overwritten with null:
// the cross-provider resolution is cached permanently on the record.
func (s *Store) UpsertPlayer(ctx context.Context, p domain.Player) (domain.Player, error) {
	var position interface{}
	if p.Position != nil {
		position = string(*p.Position)
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO `+config.PlayersTable+` (
			external_id, stats_id, first_name, last_name, position,
			team_id, height_inches, weight_pounds
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (external_id) DO UPDATE SET
			stats_id = COALESCE(EXCLUDED.stats_id, `+config.PlayersTable+`.stats_id),
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			position = EXCLUDED.position,
			team_id = EXCLUDED.team_id,
			height_inches = COALESCE(EXCLUDED.height_inches, `+config.PlayersTable+`.height_inches),
			weight_pounds = COALESCE(EXCLUDED.weight_pounds, `+config.PlayersTable+`.weight_pounds)
		RETURNING `+playerColumns,
		p.ExternalID, p.StatsID, p.FirstName, p.LastName, position,
		p.TeamID, p.HeightInches, p.WeightPounds,
	)
	stored, err := scanPlayer(row)
	if err != nil {
		return domain.Player{}, fmt.Errorf("upsert player %d: %w", p.ExternalID, err)
	}
	return stored, nil
}

// GetPlayer returns a player by internal ID.
func (s *Store) GetPlayer(ctx context.Context, id int) (domain.Player, error) {
	p, err := scanPlayer(s.pool.QueryRow(ctx, "player_by_id", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Player{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Player{}, fmt.Errorf("get player %d: %w", id, err)
	}
	return p, nil
}

// GetPlayerByStatsID returns a player by the statistics provider's ID.
func (s *Store) GetPlayerByStatsID(ctx context.Context, statsID int) (domain.Player, error) {
	p, err := scanPlayer(s.pool.QueryRow(ctx, "player_by_stats_id", statsID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Player{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Player{}, fmt.Errorf("get player by stats id %d: %w", statsID, err)
	}
	return p, nil
}

// SetPlayerStatsID caches a resolved stats-provider ID on the player row.
func (s *Store) SetPlayerStatsID(ctx context.Context, playerID, statsID int) error {
	_, err := s.pool.Exec(ctx,
		"UPDATE "+config.PlayersTable+" SET stats_id = $2 WHERE id = $1 AND stats_id IS NULL",
		playerID, statsID)
	if err != nil {
		return fmt.Errorf("set stats id for player %d: %w", playerID, err)
	}
	return nil
}

// SearchPlayers returns one page of players whose name contains the term.
func (s *Store) SearchPlayers(ctx context.Context, term string, page, perPage int) ([]domain.Player, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 25
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"

	rows, err := s.pool.Query(ctx, "player_search", pattern, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("search players %q: %w", term, err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// FindPlayerByName returns the single player matching a full name exactly
// (case-insensitive). Used as the resolution fallback before a stats ID has
// been cached.
func (s *Store) FindPlayerByName(ctx context.Context, fullName string) (domain.Player, error) {
	p, err := scanPlayer(s.pool.QueryRow(ctx,
		"SELECT "+playerColumns+" FROM "+config.PlayersTable+
			" WHERE lower(first_name || ' ' || last_name) = $1 LIMIT 1",
		strings.ToLower(strings.TrimSpace(fullName))))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Player{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Player{}, fmt.Errorf("find player %q: %w", fullName, err)
	}
	return p, nil
}
