package bdl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Provider-shaped records. The sync layer resolves external IDs to internal
// ones and maps these into domain records; this package stays a faithful
// view of the wire format.

// Team is the provider's team shape.
type Team struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
}

// Player is the provider's player shape.
type Player struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	Height    string `json:"height"` // "6-8"
	Weight    string `json:"weight"` // "215"
	Team      *Team  `json:"team"`
}

// Game is the provider's game shape.
type Game struct {
	ID               int    `json:"id"`
	Date             string `json:"date"` // "2026-01-15" or RFC3339
	Datetime         string `json:"datetime,omitempty"`
	Season           int    `json:"season"`
	Status           string `json:"status"` // "Final", "1st Qtr", ISO timestamp when scheduled
	Period           int    `json:"period"`
	Time             string `json:"time"` // game clock, e.g. "7:24"
	Postseason       bool   `json:"postseason"`
	HomeTeamScore    int    `json:"home_team_score"`
	VisitorTeamScore int    `json:"visitor_team_score"`
	HomeTeam         Team   `json:"home_team"`
	VisitorTeam      Team   `json:"visitor_team"`
}

// --------------------------------------------------------------------------
// Teams
// --------------------------------------------------------------------------

// GetTeams fetches all teams.
func (c *Client) GetTeams(ctx context.Context) ([]Team, error) {
	resp, err := c.get(ctx, "/teams", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch teams: %w", err)
	}
	var teams []Team
	if err := json.Unmarshal(resp.Data, &teams); err != nil {
		return nil, fmt.Errorf("decode teams: %w", err)
	}
	return teams, nil
}

// --------------------------------------------------------------------------
// Games
// --------------------------------------------------------------------------

// GetGamesByDate fetches all games on a date ("YYYY-MM-DD"), following
// cursor pagination to the end.
func (c *Client) GetGamesByDate(ctx context.Context, date string) ([]Game, error) {
	params := url.Values{
		"dates[]":  {date},
		"per_page": {"100"},
	}

	var games []Game
	for {
		resp, err := c.get(ctx, "/games", params)
		if err != nil {
			return nil, fmt.Errorf("fetch games for %s: %w", date, err)
		}
		var page []Game
		if err := json.Unmarshal(resp.Data, &page); err != nil {
			return nil, fmt.Errorf("decode games: %w", err)
		}
		games = append(games, page...)

		if resp.Meta.NextCursor == nil {
			break
		}
		params.Set("cursor", strconv.Itoa(*resp.Meta.NextCursor))
	}
	return games, nil
}

// GetGame fetches a single game by its provider ID.
func (c *Client) GetGame(ctx context.Context, externalID int) (*Game, error) {
	resp, err := c.get(ctx, "/games/"+strconv.Itoa(externalID), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch game %d: %w", externalID, err)
	}
	var game Game
	if err := json.Unmarshal(resp.Data, &game); err != nil {
		return nil, fmt.Errorf("decode game %d: %w", externalID, err)
	}
	return &game, nil
}

// --------------------------------------------------------------------------
// Players (cursor-paginated)
// --------------------------------------------------------------------------

// GetPlayers iterates all players via cursor pagination, calling fn for each.
func (c *Client) GetPlayers(ctx context.Context, fn func(Player) error) error {
	params := url.Values{"per_page": {"100"}}

	for {
		resp, err := c.get(ctx, "/players", params)
		if err != nil {
			return fmt.Errorf("fetch players: %w", err)
		}
		var page []Player
		if err := json.Unmarshal(resp.Data, &page); err != nil {
			return fmt.Errorf("decode players: %w", err)
		}
		for _, p := range page {
			if err := fn(p); err != nil {
				return err
			}
		}

		if resp.Meta.NextCursor == nil {
			break
		}
		params.Set("cursor", strconv.Itoa(*resp.Meta.NextCursor))
	}
	return nil
}

// SearchPlayers fetches one page of players matching a name fragment.
func (c *Client) SearchPlayers(ctx context.Context, term string, page, perPage int) ([]Player, error) {
	if perPage <= 0 {
		perPage = 25
	}
	params := url.Values{
		"search":   {term},
		"per_page": {strconv.Itoa(perPage)},
	}
	if page > 1 {
		// The provider paginates by cursor; page N starts after N-1 pages.
		params.Set("cursor", strconv.Itoa((page-1)*perPage))
	}

	resp, err := c.get(ctx, "/players", params)
	if err != nil {
		return nil, fmt.Errorf("search players %q: %w", term, err)
	}
	var players []Player
	if err := json.Unmarshal(resp.Data, &players); err != nil {
		return nil, fmt.Errorf("decode player search: %w", err)
	}
	return players, nil
}
