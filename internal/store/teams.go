package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/courtsync/courtsync/internal/config"
	"github.com/courtsync/courtsync/internal/domain"
)

const teamColumns = "id, external_id, name, city, abbreviation, conference, division"

func scanTeam(row pgx.Row) (domain.Team, error) {
	var t domain.Team
	err := row.Scan(&t.ID, &t.ExternalID, &t.Name, &t.City, &t.Abbreviation, &t.Conference, &t.Division)
	return t, err
}

// UpsertTeam writes a team keyed by its external ID. Conference and division
// come from the static abbreviation lookup, never from the provider payload.
func (s *Store) UpsertTeam(ctx context.Context, t domain.Team) (domain.Team, error) {
	if conf, div, ok := domain.TeamGeography(t.Abbreviation); ok {
		t.Conference, t.Division = conf, div
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO `+config.TeamsTable+` (
			external_id, name, city, abbreviation, conference, division
		) VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name,
			city = EXCLUDED.city,
			abbreviation = EXCLUDED.abbreviation,
			conference = EXCLUDED.conference,
			division = EXCLUDED.division
		RETURNING `+teamColumns,
		t.ExternalID, t.Name, t.City, t.Abbreviation, t.Conference, t.Division,
	)
	stored, err := scanTeam(row)
	if err != nil {
		return domain.Team{}, fmt.Errorf("upsert team %s: %w", t.Abbreviation, err)
	}
	return stored, nil
}

// GetTeam returns a team by internal ID.
func (s *Store) GetTeam(ctx context.Context, id int) (domain.Team, error) {
	t, err := scanTeam(s.pool.QueryRow(ctx, "team_by_id", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Team{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Team{}, fmt.Errorf("get team %d: %w", id, err)
	}
	return t, nil
}

// GetTeamByAbbreviation returns a team by its abbreviation.
func (s *Store) GetTeamByAbbreviation(ctx context.Context, abbr string) (domain.Team, error) {
	t, err := scanTeam(s.pool.QueryRow(ctx, "team_by_abbr", abbr))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Team{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Team{}, fmt.Errorf("get team %q: %w", abbr, err)
	}
	return t, nil
}

// ListTeams returns all teams.
func (s *Store) ListTeams(ctx context.Context) ([]domain.Team, error) {
	rows, err := s.pool.Query(ctx, "teams_all")
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// CountTeams returns the number of stored teams.
func (s *Store) CountTeams(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "teams_count").Scan(&n); err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	return n, nil
}
