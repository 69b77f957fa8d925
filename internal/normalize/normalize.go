package normalize

import (
	"context"
	"log/slog"
	"time"

	"github.com/courtsync/courtsync/internal/domain"
)

// IDResolver maps provider-side references (statistics-provider athlete IDs,
// team abbreviations, game dates) onto internal records. The store-backed
// implementation caches resolved athlete IDs on the player row so each
// cross-provider lookup happens at most once.
type IDResolver interface {
	// ResolveTeam resolves a team abbreviation.
	ResolveTeam(ctx context.Context, abbreviation string) (domain.Team, bool)

	// ResolvePlayer resolves a statistics-provider athlete ID, falling back
	// to the full name when the ID has not been seen before.
	ResolvePlayer(ctx context.Context, statsID int, fullName string) (domain.Player, bool)

	// ResolveGame finds the game on the given date involving the given team.
	ResolveGame(ctx context.Context, date time.Time, teamID int) (domain.Game, bool)
}

// Normalizer turns raw statistics-provider payloads into canonical records.
type Normalizer struct {
	resolver IDResolver
	logger   *slog.Logger
}

// New creates a Normalizer.
func New(resolver IDResolver, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{resolver: resolver, logger: logger}
}

// applyStat writes one canonical [field, value] pair into a per-game stats
// record. Unparseable values are skipped — one malformed field never
// discards the record.
func (n *Normalizer) applyStat(rec *domain.PlayerGameStats, field, value string) {
	switch field {
	case FieldMinutes:
		if secs, ok := ParseClock(value); ok {
			rec.SecondsPlayed = secs
			return
		}
	case FieldFG:
		if made, att, ok := ParseSplit(value); ok {
			rec.FGM, rec.FGA = made, att
			return
		}
	case FieldTP:
		if made, att, ok := ParseSplit(value); ok {
			rec.TPM, rec.TPA = made, att
			return
		}
	case FieldFT:
		if made, att, ok := ParseSplit(value); ok {
			rec.FTM, rec.FTA = made, att
			return
		}
	case FieldPlusMinus:
		if v, ok := ParseSignedInt(value); ok {
			rec.PlusMinus = v
			return
		}
	case FieldFGPct, FieldTPPct, FieldFTPct, FieldRebounds:
		// Derivable; the per-game record stores only raw counts.
		return
	default:
		if v, ok := ParseSignedInt(value); ok && v >= 0 {
			switch field {
			case FieldPoints:
				rec.Points = v
			case FieldOffRebounds:
				rec.OffRebounds = v
			case FieldDefRebounds:
				rec.DefRebounds = v
			case FieldAssists:
				rec.Assists = v
			case FieldSteals:
				rec.Steals = v
			case FieldBlocks:
				rec.Blocks = v
			case FieldTurnovers:
				rec.Turnovers = v
			case FieldFouls:
				rec.Fouls = v
			case FieldFGM:
				rec.FGM = v
			case FieldFGA:
				rec.FGA = v
			case FieldTPM:
				rec.TPM = v
			case FieldTPA:
				rec.TPA = v
			case FieldFTM:
				rec.FTM = v
			case FieldFTA:
				rec.FTA = v
			}
			return
		}
	}
	n.logger.Warn("skipping unparseable stat value", "field", field, "value", value)
}
