package domain

// Static conference/division lookup keyed by team abbreviation.
// Provider payloads carry these fields too, but inconsistently (historical
// divisions, blank values on preseason data), so the abbreviation is the
// source of truth.

// Divisions and conferences.
const (
	ConferenceEast = "East"
	ConferenceWest = "West"

	DivisionAtlantic  = "Atlantic"
	DivisionCentral   = "Central"
	DivisionSoutheast = "Southeast"
	DivisionNorthwest = "Northwest"
	DivisionPacific   = "Pacific"
	DivisionSouthwest = "Southwest"
)

type teamGeography struct {
	Conference string
	Division   string
}

var teamGeographyByAbbreviation = map[string]teamGeography{
	"BOS": {ConferenceEast, DivisionAtlantic},
	"BKN": {ConferenceEast, DivisionAtlantic},
	"NYK": {ConferenceEast, DivisionAtlantic},
	"PHI": {ConferenceEast, DivisionAtlantic},
	"TOR": {ConferenceEast, DivisionAtlantic},

	"CHI": {ConferenceEast, DivisionCentral},
	"CLE": {ConferenceEast, DivisionCentral},
	"DET": {ConferenceEast, DivisionCentral},
	"IND": {ConferenceEast, DivisionCentral},
	"MIL": {ConferenceEast, DivisionCentral},

	"ATL": {ConferenceEast, DivisionSoutheast},
	"CHA": {ConferenceEast, DivisionSoutheast},
	"MIA": {ConferenceEast, DivisionSoutheast},
	"ORL": {ConferenceEast, DivisionSoutheast},
	"WAS": {ConferenceEast, DivisionSoutheast},

	"DEN": {ConferenceWest, DivisionNorthwest},
	"MIN": {ConferenceWest, DivisionNorthwest},
	"OKC": {ConferenceWest, DivisionNorthwest},
	"POR": {ConferenceWest, DivisionNorthwest},
	"UTA": {ConferenceWest, DivisionNorthwest},

	"GSW": {ConferenceWest, DivisionPacific},
	"LAC": {ConferenceWest, DivisionPacific},
	"LAL": {ConferenceWest, DivisionPacific},
	"PHX": {ConferenceWest, DivisionPacific},
	"SAC": {ConferenceWest, DivisionPacific},

	"DAL": {ConferenceWest, DivisionSouthwest},
	"HOU": {ConferenceWest, DivisionSouthwest},
	"MEM": {ConferenceWest, DivisionSouthwest},
	"NOP": {ConferenceWest, DivisionSouthwest},
	"SAS": {ConferenceWest, DivisionSouthwest},
}

// TeamGeography returns the conference and division for an abbreviation.
// ok is false for unknown abbreviations (expansion teams, bad data).
func TeamGeography(abbreviation string) (conference, division string, ok bool) {
	g, ok := teamGeographyByAbbreviation[abbreviation]
	if !ok {
		return "", "", false
	}
	return g.Conference, g.Division, true
}
