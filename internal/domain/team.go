package domain

// Team is a league franchise. Conference and division are derived from the
// abbreviation via the static table in teams_static.go, never trusted
// verbatim from a provider. Effectively immutable once the 30-team roster
// has been synced.
type Team struct {
	ID           int    `json:"id"`
	ExternalID   int    `json:"external_id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	Abbreviation string `json:"abbreviation"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
}

// FullName returns "City Name".
func (t Team) FullName() string {
	if t.City == "" {
		return t.Name
	}
	return t.City + " " + t.Name
}
