package normalize

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/courtsync/courtsync/internal/domain"
)

// BoxScore normalizes a box-score payload for a known game into per-game
// stat lines. The payload carries, per team, a label array and per-athlete
// value arrays aligned positionally with it — effectively [statName, value]
// pairs once zipped.
//
// Athletes whose player record cannot be resolved, and team blocks whose
// team cannot be resolved, are dropped with a warning; everything else in
// the payload still normalizes.
func (n *Normalizer) BoxScore(ctx context.Context, raw json.RawMessage, game domain.Game) ([]domain.PlayerGameStats, error) {
	root, err := ParseNode(raw)
	if err != nil {
		return nil, fmt.Errorf("parse box score payload: %w", err)
	}

	teamBlocks := root.Get("boxscore").Get("players").Arr()
	if len(teamBlocks) == 0 {
		return nil, fmt.Errorf("box score payload has no team blocks")
	}

	var records []domain.PlayerGameStats
	for _, block := range teamBlocks {
		abbr := block.Get("team").Get("abbreviation").StrOr("")
		team, ok := n.resolver.ResolveTeam(ctx, abbr)
		if !ok {
			n.logger.Warn("dropping box score team block: unresolvable team",
				"abbreviation", abbr, "game_id", game.ID)
			continue
		}

		for _, group := range block.Get("statistics").Arr() {
			labels := stringArr(group.Get("labels"))
			if len(labels) == 0 {
				labels = stringArr(group.Get("names"))
			}

			for _, athlete := range group.Get("athletes").Arr() {
				if dnp, _ := athlete.Get("didNotPlay").Bool(); dnp {
					continue
				}

				rec, ok := n.normalizeAthleteLine(ctx, athlete, labels, game, team.ID)
				if ok {
					records = append(records, rec)
				}
			}
		}
	}
	return records, nil
}

func (n *Normalizer) normalizeAthleteLine(
	ctx context.Context,
	athlete Node,
	labels []string,
	game domain.Game,
	teamID int,
) (domain.PlayerGameStats, bool) {
	statsID, _ := athlete.Get("athlete").Get("id").Int()
	name := athlete.Get("athlete").Get("displayName").StrOr("")

	player, ok := n.resolver.ResolvePlayer(ctx, statsID, name)
	if !ok {
		n.logger.Warn("dropping box score line: unresolvable player",
			"stats_id", statsID, "name", name, "game_id", game.ID)
		return domain.PlayerGameStats{}, false
	}

	values := stringArr(athlete.Get("stats"))
	if len(values) != len(labels) {
		n.logger.Warn("dropping box score line: label/value count mismatch",
			"player_id", player.ID, "labels", len(labels), "values", len(values))
		return domain.PlayerGameStats{}, false
	}

	rec := domain.PlayerGameStats{
		PlayerID:   player.ID,
		GameID:     game.ID,
		TeamID:     teamID,
		Season:     game.Season,
		Postseason: game.Postseason,
	}
	for i, label := range labels {
		field, known := CanonicalField(label)
		if !known {
			n.logger.Debug("ignoring unknown stat label", "label", label)
			continue
		}
		n.applyStat(&rec, field, values[i])
	}
	return rec, true
}

// stringArr collects the string elements of an array node, stringifying
// numeric elements (providers mix the two in value arrays).
func stringArr(node Node) []string {
	elems := node.Arr()
	if len(elems) == 0 {
		return nil
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if s, ok := e.Str(); ok {
			out = append(out, s)
			continue
		}
		if f, ok := e.Float(); ok {
			out = append(out, trimFloat(f))
			continue
		}
		out = append(out, "")
	}
	return out
}

func trimFloat(f float64) string {
	if f == float64(int(f)) {
		return fmt.Sprintf("%d", int(f))
	}
	return fmt.Sprintf("%g", f)
}
