package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/courtsync/courtsync/internal/domain"
)

// gamelogLayouts pins the index→field mapping of the provider's positional
// game-log rows, keyed by the schema version the payload declares. These
// mappings are fixed by test, never inferred from the data; a row whose
// length disagrees with its layout is a parse error, not a best-effort
// realignment.
var gamelogLayouts = map[string][]string{
	"gamelog.v2": {
		"date", "opponent", "result",
		"min", "fg", "3pt", "ft",
		"oreb", "dreb", "ast", "stl", "blk", "to", "pf", "+/-", "pts",
	},
	// v3 appended the result column's overtime marker as its own field.
	"gamelog.v3": {
		"date", "opponent", "result", "ot",
		"min", "fg", "3pt", "ft",
		"oreb", "dreb", "ast", "stl", "blk", "to", "pf", "+/-", "pts",
	},
}

const gamelogDateFormat = "2006-01-02"

// GameLog normalizes a player's positional game-log payload into per-game
// stat lines. Each row is matched to a stored game via its date and opponent;
// rows for games the schedule sync has not yet observed are dropped with a
// warning (a later sync pass picks them up).
func (n *Normalizer) GameLog(ctx context.Context, raw json.RawMessage, player domain.Player) ([]domain.PlayerGameStats, error) {
	var payload struct {
		Version string          `json:"version"`
		Rows    [][]interface{} `json:"rows"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse game log payload: %w", err)
	}

	layout, ok := gamelogLayouts[payload.Version]
	if !ok {
		return nil, fmt.Errorf("unsupported game log schema version %q", payload.Version)
	}

	var records []domain.PlayerGameStats
	for i, rawRow := range payload.Rows {
		row := stringArr(Node{v: rawRow})
		if len(row) != len(layout) {
			n.logger.Warn("dropping game log row: index count mismatch",
				"row", i, "got", len(row), "want", len(layout), "version", payload.Version)
			continue
		}

		rec, ok := n.normalizeGamelogRow(ctx, layout, row, player)
		if ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (n *Normalizer) normalizeGamelogRow(
	ctx context.Context,
	layout, row []string,
	player domain.Player,
) (domain.PlayerGameStats, bool) {
	var (
		date     time.Time
		opponent string
	)
	for i, field := range layout {
		switch field {
		case "date":
			d, err := time.Parse(gamelogDateFormat, row[i])
			if err != nil {
				n.logger.Warn("dropping game log row: bad date", "value", row[i])
				return domain.PlayerGameStats{}, false
			}
			date = d
		case "opponent":
			opponent = row[i]
		}
	}

	oppTeam, ok := n.resolver.ResolveTeam(ctx, opponent)
	if !ok {
		n.logger.Warn("dropping game log row: unresolvable opponent",
			"opponent", opponent, "player_id", player.ID)
		return domain.PlayerGameStats{}, false
	}
	game, ok := n.resolver.ResolveGame(ctx, date, oppTeam.ID)
	if !ok {
		n.logger.Warn("dropping game log row: no stored game",
			"date", date.Format(gamelogDateFormat), "opponent", opponent, "player_id", player.ID)
		return domain.PlayerGameStats{}, false
	}

	// The player's team that night is the game's other side.
	teamID := game.HomeTeamID
	if teamID == oppTeam.ID {
		teamID = game.VisitorTeamID
	}

	rec := domain.PlayerGameStats{
		PlayerID:   player.ID,
		GameID:     game.ID,
		TeamID:     teamID,
		Season:     game.Season,
		Postseason: game.Postseason,
	}
	for i, fieldName := range layout {
		switch fieldName {
		case "date", "opponent", "result", "ot":
			continue
		}
		field, known := CanonicalField(fieldName)
		if !known {
			continue
		}
		n.applyStat(&rec, field, row[i])
	}
	return rec, true
}
