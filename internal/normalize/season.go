package normalize

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/courtsync/courtsync/internal/domain"
)

// SeasonSplits normalizes a season/career statistics payload into season
// rows for one player. Entries are named stat maps whose keys vary across
// provider API revisions; the alias table absorbs the spellings.
//
// Rows with an unresolvable team are dropped with a warning. The returned
// rows are NOT deduplicated — callers assembling a career from several
// payload fetches feed them through a SeasonSet.
func (n *Normalizer) SeasonSplits(ctx context.Context, raw json.RawMessage, playerID int) ([]domain.PlayerSeasonStats, error) {
	var payload struct {
		SeasonType string `json:"seasonType"`
		Seasons    []struct {
			Season int                        `json:"season"`
			Team   string                     `json:"team"`
			Stats  map[string]json.RawMessage `json:"stats"`
		} `json:"seasons"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse season splits payload: %w", err)
	}

	seasonType, ok := domain.ParseSeasonType(payload.SeasonType)
	if !ok {
		return nil, fmt.Errorf("unknown season type %q", payload.SeasonType)
	}

	var rows []domain.PlayerSeasonStats
	for _, entry := range payload.Seasons {
		team, ok := n.resolver.ResolveTeam(ctx, entry.Team)
		if !ok {
			n.logger.Warn("dropping season row: unresolvable team",
				"team", entry.Team, "season", entry.Season, "player_id", playerID)
			continue
		}

		row := domain.PlayerSeasonStats{
			Key: domain.SeasonKey{
				PlayerID:   playerID,
				Season:     entry.Season,
				SeasonType: seasonType,
				TeamID:     team.ID,
			},
		}
		n.applySeasonStats(&row, entry.Stats)
		finalizeSeasonRow(&row)
		rows = append(rows, row)
	}
	return rows, nil
}

// applySeasonStats fills totals from a named stat map. Unknown names and
// unparseable values are skipped, never fatal.
func (n *Normalizer) applySeasonStats(row *domain.PlayerSeasonStats, stats map[string]json.RawMessage) {
	for name, rawVal := range stats {
		field, known := CanonicalField(name)
		if !known {
			n.logger.Debug("ignoring unknown season stat", "name", name)
			continue
		}

		var v interface{}
		if err := json.Unmarshal(rawVal, &v); err != nil {
			n.logger.Warn("skipping unparseable season stat", "name", name)
			continue
		}

		// Composite splits appear in historical payloads ("518-1104").
		if s, ok := v.(string); ok {
			if made, att, splitOK := ParseSplit(s); splitOK {
				switch field {
				case FieldFG:
					row.FGM, row.FGA = made, att
				case FieldTP:
					row.TPM, row.TPA = made, att
				case FieldFT:
					row.FTM, row.FTA = made, att
				}
				continue
			}
		}

		f, ok := numeric(v)
		if !ok {
			n.logger.Warn("skipping unparseable season stat value", "name", name)
			continue
		}

		switch field {
		case FieldGamesPlayed:
			row.GamesPlayed = int(f)
		case FieldMinutes:
			row.Seconds = int(f * 60)
		case FieldPoints:
			row.Points = int(f)
		case FieldOffRebounds:
			row.OffRebounds = int(f)
		case FieldDefRebounds:
			row.DefRebounds = int(f)
		case FieldRebounds:
			// Only totals split into off/def are stored; combined totals
			// backfill the defensive bucket when the split is absent.
			if row.OffRebounds == 0 && row.DefRebounds == 0 {
				row.DefRebounds = int(f)
			}
		case FieldAssists:
			row.Assists = int(f)
		case FieldSteals:
			row.Steals = int(f)
		case FieldBlocks:
			row.Blocks = int(f)
		case FieldTurnovers:
			row.Turnovers = int(f)
		case FieldFouls:
			row.Fouls = int(f)
		case FieldFGM:
			row.FGM = int(f)
		case FieldFGA:
			row.FGA = int(f)
		case FieldTPM:
			row.TPM = int(f)
		case FieldTPA:
			row.TPA = int(f)
		case FieldFTM:
			row.FTM = int(f)
		case FieldFTA:
			row.FTA = int(f)
		}
	}
}

// finalizeSeasonRow derives averages and percentages from totals, exactly as
// the aggregation engine does, so provider-sourced season rows and
// aggregated ones are byte-compatible.
func finalizeSeasonRow(row *domain.PlayerSeasonStats) {
	if row.GamesPlayed > 0 {
		gp := float64(row.GamesPlayed)
		row.PointsAvg = float64(row.Points) / gp
		row.ReboundsAvg = float64(row.OffRebounds+row.DefRebounds) / gp
		row.AssistsAvg = float64(row.Assists) / gp
	}
	row.FGPct = domain.Pct(row.FGM, row.FGA)
	row.TPPct = domain.Pct(row.TPM, row.TPA)
	row.FTPct = domain.Pct(row.FTM, row.FTA)
}

// SeasonSet deduplicates season rows on (season, season type, team) while
// preserving first-seen order. Provider-side pagination overlaps re-deliver
// rows; the latest delivery wins, matching upsert semantics.
type SeasonSet struct {
	rows  map[domain.SeasonKey]domain.PlayerSeasonStats
	order []domain.SeasonKey
}

// NewSeasonSet creates an empty SeasonSet.
func NewSeasonSet() *SeasonSet {
	return &SeasonSet{rows: make(map[domain.SeasonKey]domain.PlayerSeasonStats)}
}

// Add merges rows into the set.
func (s *SeasonSet) Add(rows ...domain.PlayerSeasonStats) {
	for _, row := range rows {
		if _, seen := s.rows[row.Key]; !seen {
			s.order = append(s.order, row.Key)
		}
		s.rows[row.Key] = row
	}
}

// Rows returns the deduplicated rows in first-seen order.
func (s *SeasonSet) Rows() []domain.PlayerSeasonStats {
	out := make([]domain.PlayerSeasonStats, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.rows[key])
	}
	return out
}
