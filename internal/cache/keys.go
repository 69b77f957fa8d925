package cache

import (
	"fmt"
	"strings"
	"time"
)

// Deterministic key builders. Every cached response's key is a pure function
// of its query parameters so invalidation can reconstruct the exact keys a
// sync made stale.

func GameKey(id int) string { return fmt.Sprintf("game:%d", id) }

func GamesByDateKey(date time.Time) string {
	return "games:date:" + date.Format("2006-01-02")
}

func TeamKey(id int) string { return fmt.Sprintf("team:%d", id) }

const TeamsAllKey = "teams:all"

func PlayerKey(id int) string { return fmt.Sprintf("player:%d", id) }

// SearchKey normalizes the term (lowercase, collapsed spaces) so equivalent
// searches share an entry.
func SearchKey(term string, page int) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(term)), " ")
	return fmt.Sprintf("search:%s:%d", normalized, page)
}

func SeasonStatsKey(playerID, season int) string {
	return fmt.Sprintf("player:%d:season:%d", playerID, season)
}

// DefaultRecentGames is the window size the read path uses when the caller
// does not ask for one; invalidation targets this key, other sizes age out
// by TTL.
const DefaultRecentGames = 10

func RecentGamesKey(playerID, n int) string {
	return fmt.Sprintf("player:%d:recent:%d", playerID, n)
}

func CareerStatsKey(playerID int) string {
	return fmt.Sprintf("player:%d:career", playerID)
}
