package domain

// SeasonType distinguishes regular season from postseason.
type SeasonType string

const (
	SeasonRegular    SeasonType = "regular"
	SeasonPostseason SeasonType = "postseason"
)

// ParseSeasonType maps loose provider spellings onto the enum.
func ParseSeasonType(s string) (SeasonType, bool) {
	switch s {
	case "regular", "Regular Season", "REG", "reg":
		return SeasonRegular, true
	case "postseason", "Playoffs", "playoffs", "POST", "post":
		return SeasonPostseason, true
	}
	return "", false
}

// MaxPercent is the clamp applied to every stored percentage so values fit
// the store's NUMERIC(5,3) columns.
const MaxPercent = 99.999

// Pct returns made/attempted as a percentage, nil when attempted is zero.
// Never divides by zero and never exceeds MaxPercent.
func Pct(made, attempted int) *float64 {
	if attempted == 0 {
		return nil
	}
	p := float64(made) / float64(attempted) * 100
	if p > MaxPercent {
		p = MaxPercent
	}
	return &p
}

// PlayerGameStats is one player's box-score line for one game.
// Keyed by (PlayerID, GameID); a re-sync overwrites, never duplicates.
// Minutes are stored as whole seconds to avoid "34:27" string arithmetic.
type PlayerGameStats struct {
	PlayerID      int  `json:"player_id"`
	GameID        int  `json:"game_id"`
	TeamID        int  `json:"team_id"`
	Season        int  `json:"season"`
	Postseason    bool `json:"postseason"`
	Points        int  `json:"points"`
	OffRebounds   int  `json:"off_rebounds"`
	DefRebounds   int  `json:"def_rebounds"`
	Assists       int  `json:"assists"`
	Steals        int  `json:"steals"`
	Blocks        int  `json:"blocks"`
	Turnovers     int  `json:"turnovers"`
	Fouls         int  `json:"fouls"`
	FGM           int  `json:"fgm"`
	FGA           int  `json:"fga"`
	TPM           int  `json:"tpm"`
	TPA           int  `json:"tpa"`
	FTM           int  `json:"ftm"`
	FTA           int  `json:"fta"`
	SecondsPlayed int  `json:"seconds_played"`
	PlusMinus     int  `json:"plus_minus"`
}

// Rebounds returns the combined rebound count.
func (s PlayerGameStats) Rebounds() int { return s.OffRebounds + s.DefRebounds }

// SeasonKey identifies one derived season-stats row. The team component
// partitions a traded player's season across teams.
type SeasonKey struct {
	PlayerID   int        `json:"player_id"`
	Season     int        `json:"season"`
	SeasonType SeasonType `json:"season_type"`
	TeamID     int        `json:"team_id"`
}

// PlayerSeasonStats is derived, never independently authored: every field is
// the sum or average of the PlayerGameStats rows matching Key, recomputed by
// the aggregation engine whenever a constituent game changes.
type PlayerSeasonStats struct {
	Key         SeasonKey `json:"key"`
	GamesPlayed int       `json:"games_played"`

	// Totals
	Points      int `json:"points"`
	OffRebounds int `json:"off_rebounds"`
	DefRebounds int `json:"def_rebounds"`
	Assists     int `json:"assists"`
	Steals      int `json:"steals"`
	Blocks      int `json:"blocks"`
	Turnovers   int `json:"turnovers"`
	Fouls       int `json:"fouls"`
	FGM         int `json:"fgm"`
	FGA         int `json:"fga"`
	TPM         int `json:"tpm"`
	TPA         int `json:"tpa"`
	FTM         int `json:"ftm"`
	FTA         int `json:"fta"`
	Seconds     int `json:"seconds"`

	// Per-game averages
	PointsAvg   float64 `json:"points_avg"`
	ReboundsAvg float64 `json:"rebounds_avg"`
	AssistsAvg  float64 `json:"assists_avg"`

	// Shooting percentages; nil when the attempt denominator is zero.
	FGPct *float64 `json:"fg_pct,omitempty"`
	TPPct *float64 `json:"tp_pct,omitempty"`
	FTPct *float64 `json:"ft_pct,omitempty"`
}

// PlayerCareerStats is one row per player, summed from regular-season
// PlayerSeasonStats rows only. The Best* fields are single-season maxima —
// the best season total, not the best single game. Easily misread; keep the
// names explicit.
type PlayerCareerStats struct {
	PlayerID    int `json:"player_id"`
	Seasons     int `json:"seasons"`
	GamesPlayed int `json:"games_played"`
	Points      int `json:"points"`
	Rebounds    int `json:"rebounds"`
	Assists     int `json:"assists"`
	Steals      int `json:"steals"`
	Blocks      int `json:"blocks"`

	BestSeasonPoints   int `json:"best_season_points"`
	BestSeasonRebounds int `json:"best_season_rebounds"`
	BestSeasonAssists  int `json:"best_season_assists"`
}
