package normalize

import "strings"

// Canonical stat field identifiers. Every provider spelling maps onto one of
// these through the explicit alias table below — matching is table lookup,
// never string similarity.
const (
	FieldGamesPlayed = "games_played"
	FieldMinutes     = "minutes"
	FieldPoints      = "points"
	FieldOffRebounds = "off_rebounds"
	FieldDefRebounds = "def_rebounds"
	FieldRebounds    = "rebounds"
	FieldAssists     = "assists"
	FieldSteals      = "steals"
	FieldBlocks      = "blocks"
	FieldTurnovers   = "turnovers"
	FieldFouls       = "fouls"
	FieldFG          = "fg" // composite "made-attempted"
	FieldTP          = "tp"
	FieldFT          = "ft"
	FieldFGM         = "fgm"
	FieldFGA         = "fga"
	FieldTPM         = "tpm"
	FieldTPA         = "tpa"
	FieldFTM         = "ftm"
	FieldFTA         = "fta"
	FieldFGPct       = "fg_pct"
	FieldTPPct       = "tp_pct"
	FieldFTPct       = "ft_pct"
	FieldPlusMinus   = "plus_minus"
)

// statAliases maps normalized provider spellings (see normalizeStatName) to
// canonical fields. Aliases accumulate as the provider renames fields across
// API revisions; entries are only ever added, never repurposed.
var statAliases = map[string]string{
	// Games played
	"gp": FieldGamesPlayed, "gamesplayed": FieldGamesPlayed, "games": FieldGamesPlayed,

	// Minutes
	"min": FieldMinutes, "minutes": FieldMinutes, "minutesplayed": FieldMinutes, "avgminutes": FieldMinutes,

	// Points
	"pts": FieldPoints, "points": FieldPoints, "totalpoints": FieldPoints,

	// Rebounds
	"oreb": FieldOffRebounds, "offensiverebounds": FieldOffRebounds, "offreb": FieldOffRebounds,
	"dreb": FieldDefRebounds, "defensiverebounds": FieldDefRebounds, "defreb": FieldDefRebounds,
	"reb": FieldRebounds, "rebounds": FieldRebounds, "totalrebounds": FieldRebounds, "trb": FieldRebounds,

	// Assists / defense
	"ast": FieldAssists, "assists": FieldAssists,
	"stl": FieldSteals, "steals": FieldSteals,
	"blk": FieldBlocks, "blocks": FieldBlocks, "blockedshots": FieldBlocks,

	// Turnovers / fouls
	"to": FieldTurnovers, "tov": FieldTurnovers, "turnovers": FieldTurnovers,
	"pf": FieldFouls, "fouls": FieldFouls, "personalfouls": FieldFouls,

	// Field goals (composite and split spellings)
	"fg": FieldFG, "fieldgoals": FieldFG, "fieldgoalsmade-attempted": FieldFG,
	"fgm": FieldFGM, "fieldgoalsmade": FieldFGM,
	"fga": FieldFGA, "fieldgoalsattempted": FieldFGA, "fieldgoalattempts": FieldFGA,
	"fg%": FieldFGPct, "fgpct": FieldFGPct, "fgpercentage": FieldFGPct,
	"fieldgoalpct": FieldFGPct, "fieldgoalpercentage": FieldFGPct,

	// Three-pointers
	"3pt": FieldTP, "3p": FieldTP, "threepointers": FieldTP, "threepointfieldgoals": FieldTP,
	"3pm": FieldTPM, "tpm": FieldTPM, "threepointersmade": FieldTPM, "threepointfieldgoalsmade": FieldTPM,
	"3pa": FieldTPA, "tpa": FieldTPA, "threepointersattempted": FieldTPA,
	"3p%": FieldTPPct, "3ppct": FieldTPPct, "threepointpct": FieldTPPct,
	"threepointpercentage": FieldTPPct, "threepointfieldgoalpercentage": FieldTPPct,

	// Free throws
	"ft": FieldFT, "freethrows": FieldFT,
	"ftm": FieldFTM, "freethrowsmade": FieldFTM,
	"fta": FieldFTA, "freethrowsattempted": FieldFTA,
	"ft%": FieldFTPct, "ftpct": FieldFTPct, "freethrowpct": FieldFTPct, "freethrowpercentage": FieldFTPct,

	// Plus-minus
	"+/-": FieldPlusMinus, "plusminus": FieldPlusMinus, "netpoints": FieldPlusMinus,
}

// normalizeStatName lowercases a provider stat name and strips separator
// noise so alias lookup is spelling-stable ("Field Goal %", "field_goal_pct",
// "fieldGoalPct" all normalize identically).
func normalizeStatName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "")
	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, ".", "")
	// "percent"/"percentage" spelled out vs "%" suffix
	name = strings.ReplaceAll(name, "percent", "percentage")
	name = strings.ReplaceAll(name, "percentageage", "percentage")
	return name
}

// CanonicalField resolves a provider stat name to its canonical field.
// ok is false for names with no table entry — callers skip those values.
func CanonicalField(name string) (string, bool) {
	canonical, ok := statAliases[normalizeStatName(name)]
	return canonical, ok
}
