package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/courtsync/courtsync/internal/aggregate"
	"github.com/courtsync/courtsync/internal/cache"
	"github.com/courtsync/courtsync/internal/domain"
	"github.com/courtsync/courtsync/internal/normalize"
	"github.com/courtsync/courtsync/internal/provider/bdl"
	"github.com/courtsync/courtsync/internal/provider/espn"
	"github.com/courtsync/courtsync/internal/store"
)

// Statistics-provider season type codes.
const (
	seasonTypeRegular    = "2"
	seasonTypePostseason = "3"
)

// Syncer pulls provider data into the store and keeps derived rows and the
// cache consistent with what it wrote.
type Syncer struct {
	schedule   *bdl.Client
	stats      *espn.Client
	store      *store.Store
	normalizer *normalize.Normalizer
	engine     *aggregate.Engine
	cache      cache.Store
	logger     *slog.Logger
}

// New creates a Syncer.
func New(
	schedule *bdl.Client,
	stats *espn.Client,
	st *store.Store,
	normalizer *normalize.Normalizer,
	engine *aggregate.Engine,
	c cache.Store,
	logger *slog.Logger,
) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		schedule:   schedule,
		stats:      stats,
		store:      st,
		normalizer: normalizer,
		engine:     engine,
		cache:      c,
		logger:     logger,
	}
}

// --------------------------------------------------------------------------
// Schedule provider: teams, players, games
// --------------------------------------------------------------------------

// SyncTeams pulls the full team list. Teams change roughly never, so this
// runs at startup and on demand only.
func (s *Syncer) SyncTeams(ctx context.Context) (Result, error) {
	start := time.Now()
	result := newResult()

	teams, err := s.schedule.GetTeams(ctx)
	if err != nil {
		return result, fmt.Errorf("sync teams: %w", err)
	}

	for _, t := range teams {
		stored, err := s.store.UpsertTeam(ctx, mapTeam(t))
		if err != nil {
			result.AddErrorf("team %s: %v", t.Abbreviation, err)
			continue
		}
		result.TeamsUpserted++
		s.cache.Delete(ctx, cache.TeamKey(stored.ID))
	}
	s.cache.Delete(ctx, cache.TeamsAllKey)

	result.Duration = time.Since(start)
	s.logger.Info("teams synced", "summary", result.Summary())
	return result, nil
}

// SyncPlayers walks the provider's full player list. Expensive: the roster
// is cursor-paginated a hundred players at a time under the rate limit.
func (s *Syncer) SyncPlayers(ctx context.Context) (Result, error) {
	start := time.Now()
	result := newResult()

	err := s.schedule.GetPlayers(ctx, func(p bdl.Player) error {
		var teamID *int
		if p.Team != nil {
			team, err := s.store.UpsertTeam(ctx, mapTeam(*p.Team))
			if err != nil {
				result.AddErrorf("player %d team: %v", p.ID, err)
			} else {
				teamID = &team.ID
			}
		}

		stored, err := s.store.UpsertPlayer(ctx, mapPlayer(p, teamID))
		if err != nil {
			result.AddErrorf("player %d: %v", p.ID, err)
			return nil
		}
		result.PlayersUpserted++
		s.cache.Delete(ctx, cache.PlayerKey(stored.ID))
		return nil
	})
	result.Duration = time.Since(start)
	if err != nil {
		return result, fmt.Errorf("sync players: %w", err)
	}

	s.logger.Info("players synced", "summary", result.Summary())
	return result, nil
}

// SyncPlayerSearch pulls one page of the provider's player search and
// upserts the results, so lookups for players the roster sync has not
// reached yet still resolve.
func (s *Syncer) SyncPlayerSearch(ctx context.Context, term string, page, perPage int) (Result, error) {
	start := time.Now()
	result := newResult()

	players, err := s.schedule.SearchPlayers(ctx, term, page, perPage)
	if err != nil {
		return result, fmt.Errorf("search players %q: %w", term, err)
	}

	for _, p := range players {
		var teamID *int
		if p.Team != nil {
			team, err := s.store.UpsertTeam(ctx, mapTeam(*p.Team))
			if err != nil {
				result.AddErrorf("player %d team: %v", p.ID, err)
			} else {
				teamID = &team.ID
			}
		}
		stored, err := s.store.UpsertPlayer(ctx, mapPlayer(p, teamID))
		if err != nil {
			result.AddErrorf("player %d: %v", p.ID, err)
			continue
		}
		result.PlayersUpserted++
		s.cache.Delete(ctx, cache.PlayerKey(stored.ID))
	}

	result.Duration = time.Since(start)
	return result, nil
}

// SyncDate pulls all games on a calendar date and upserts them. Embedded
// team payloads are upserted first so the game rows reference internal IDs.
func (s *Syncer) SyncDate(ctx context.Context, date time.Time) (Result, error) {
	start := time.Now()
	result := newResult()

	games, err := s.schedule.GetGamesByDate(ctx, date.Format("2006-01-02"))
	if err != nil {
		return result, fmt.Errorf("sync date %s: %w", date.Format("2006-01-02"), err)
	}

	for _, g := range games {
		home, err := s.store.UpsertTeam(ctx, mapTeam(g.HomeTeam))
		if err != nil {
			result.AddErrorf("game %d home team: %v", g.ID, err)
			continue
		}
		visitor, err := s.store.UpsertTeam(ctx, mapTeam(g.VisitorTeam))
		if err != nil {
			result.AddErrorf("game %d visitor team: %v", g.ID, err)
			continue
		}

		stored, err := s.store.UpsertGame(ctx, mapGame(g, home.ID, visitor.ID))
		if err != nil {
			result.AddErrorf("game %d: %v", g.ID, err)
			continue
		}
		result.GamesUpserted++

		s.cache.Delete(ctx, cache.GameKey(stored.ID))
		if err := s.store.NotifyChange(ctx, "game", stored.ID); err != nil {
			s.logger.Warn("notify failed", "game_id", stored.ID, "error", err)
		}
	}
	s.cache.Delete(ctx, cache.GamesByDateKey(date))

	result.Duration = time.Since(start)
	s.logger.Info("date synced", "date", date.Format("2006-01-02"), "summary", result.Summary())
	return result, nil
}

// --------------------------------------------------------------------------
// Statistics provider: box scores, game logs, season and career splits
// --------------------------------------------------------------------------

// SyncBoxScore pulls and persists the per-player lines for one game, then
// recomputes each affected player's season row. Sync bookkeeping on the game
// row feeds the backfill queue.
func (s *Syncer) SyncBoxScore(ctx context.Context, game domain.Game) (Result, error) {
	start := time.Now()
	result := newResult()

	raw, err := s.stats.BoxScore(ctx, game.ExternalID)
	if err != nil {
		s.recordStatsFailure(ctx, game.ID, err)
		return result, fmt.Errorf("box score for game %d: %w", game.ID, err)
	}

	lines, err := s.normalizer.BoxScore(ctx, raw, game)
	if err != nil {
		s.recordStatsFailure(ctx, game.ID, err)
		return result, fmt.Errorf("normalize box score for game %d: %w", game.ID, err)
	}

	players := make(map[int]struct{})
	for _, line := range lines {
		if err := s.store.UpsertPlayerGameStats(ctx, line); err != nil {
			result.AddErrorf("stat line player %d: %v", line.PlayerID, err)
			continue
		}
		result.StatLinesUpserted++
		players[line.PlayerID] = struct{}{}
	}

	if err := s.store.MarkStatsSynced(ctx, game.ID); err != nil {
		result.AddErrorf("mark synced game %d: %v", game.ID, err)
	}

	seasonType := domain.SeasonRegular
	if game.Postseason {
		seasonType = domain.SeasonPostseason
	}
	for _, playerID := range sortedKeys(players) {
		if err := s.engine.RecomputeSeason(ctx, playerID, game.Season, seasonType); err != nil {
			result.AddErrorf("recompute player %d season %d: %v", playerID, game.Season, err)
			continue
		}
		s.invalidatePlayerStats(ctx, playerID, game.Season)
	}

	s.cache.Delete(ctx, cache.GameKey(game.ID), cache.GamesByDateKey(game.Date))
	if err := s.store.NotifyChange(ctx, "game_stats", game.ID); err != nil {
		s.logger.Warn("notify failed", "game_id", game.ID, "error", err)
	}

	result.Duration = time.Since(start)
	s.logger.Info("box score synced", "game_id", game.ID, "summary", result.Summary())
	return result, nil
}

// SyncGameLog pulls a player's per-game log for a season. Rows whose game or
// opponent the store has never seen are dropped by the normalizer, so a
// schedule sync should cover the season first.
func (s *Syncer) SyncGameLog(ctx context.Context, player domain.Player, season int) (Result, error) {
	start := time.Now()
	result := newResult()

	statsID, err := s.ensureStatsID(ctx, &player)
	if err != nil {
		return result, err
	}

	raw, err := s.stats.GameLog(ctx, statsID, season)
	if err != nil {
		return result, fmt.Errorf("game log for player %d: %w", player.ID, err)
	}

	lines, err := s.normalizer.GameLog(ctx, raw, player)
	if err != nil {
		return result, fmt.Errorf("normalize game log for player %d: %w", player.ID, err)
	}

	seasonTypes := make(map[domain.SeasonType]struct{})
	for _, line := range lines {
		if err := s.store.UpsertPlayerGameStats(ctx, line); err != nil {
			result.AddErrorf("stat line game %d: %v", line.GameID, err)
			continue
		}
		result.StatLinesUpserted++
		if line.Postseason {
			seasonTypes[domain.SeasonPostseason] = struct{}{}
		} else {
			seasonTypes[domain.SeasonRegular] = struct{}{}
		}
	}

	for seasonType := range seasonTypes {
		if err := s.engine.RecomputeSeason(ctx, player.ID, season, seasonType); err != nil {
			result.AddErrorf("recompute season %d %s: %v", season, seasonType, err)
		}
	}
	if len(lines) > 0 {
		s.invalidatePlayerStats(ctx, player.ID, season)
	}

	result.Duration = time.Since(start)
	s.logger.Info("game log synced", "player_id", player.ID, "season", season, "summary", result.Summary())
	return result, nil
}

// SyncSeasonStats pulls a player's provider-computed splits for one season
// (both season types) and persists them directly. Used for seasons whose
// per-game rows were never ingested; the aggregation engine overwrites these
// rows once per-game data exists.
func (s *Syncer) SyncSeasonStats(ctx context.Context, player domain.Player, season int) (Result, error) {
	start := time.Now()
	result := newResult()

	statsID, err := s.ensureStatsID(ctx, &player)
	if err != nil {
		return result, err
	}

	set := normalize.NewSeasonSet()
	for _, code := range []string{seasonTypeRegular, seasonTypePostseason} {
		raw, err := s.stats.SeasonStats(ctx, statsID, season, code)
		if err != nil {
			result.AddErrorf("season stats type %s: %v", code, err)
			continue
		}
		rows, err := s.normalizer.SeasonSplits(ctx, raw, player.ID)
		if err != nil {
			result.AddErrorf("normalize season stats type %s: %v", code, err)
			continue
		}
		set.Add(rows...)
	}

	for _, row := range set.Rows() {
		if row.Key.Season != season {
			continue
		}
		if err := s.store.UpsertSeasonStats(ctx, row); err != nil {
			result.AddErrorf("season row %+v: %v", row.Key, err)
			continue
		}
		result.SeasonRowsUpserted++
	}
	if result.SeasonRowsUpserted > 0 {
		s.invalidatePlayerStats(ctx, player.ID, season)
	}

	result.Duration = time.Since(start)
	s.logger.Info("season stats synced", "player_id", player.ID, "season", season, "summary", result.Summary())
	return result, nil
}

// SyncCareer pulls a player's full season-by-season history, persists every
// season row the store does not already derive, and recomputes the career
// row.
func (s *Syncer) SyncCareer(ctx context.Context, player domain.Player) (Result, error) {
	start := time.Now()
	result := newResult()

	statsID, err := s.ensureStatsID(ctx, &player)
	if err != nil {
		return result, err
	}

	set := normalize.NewSeasonSet()
	for _, code := range []string{seasonTypeRegular, seasonTypePostseason} {
		raw, err := s.stats.CareerStats(ctx, statsID, code)
		if err != nil {
			result.AddErrorf("career history type %s: %v", code, err)
			continue
		}
		rows, err := s.normalizer.SeasonSplits(ctx, raw, player.ID)
		if err != nil {
			result.AddErrorf("normalize career history type %s: %v", code, err)
			continue
		}
		set.Add(rows...)
	}

	for _, row := range set.Rows() {
		if err := s.store.UpsertSeasonStats(ctx, row); err != nil {
			result.AddErrorf("season row %+v: %v", row.Key, err)
			continue
		}
		result.SeasonRowsUpserted++
	}

	if result.SeasonRowsUpserted > 0 {
		if err := s.engine.RecomputeCareer(ctx, player.ID); err != nil {
			result.AddErrorf("recompute career: %v", err)
		}
		s.cache.Delete(ctx, cache.CareerStatsKey(player.ID))
		if err := s.store.NotifyChange(ctx, "career", player.ID); err != nil {
			s.logger.Warn("notify failed", "player_id", player.ID, "error", err)
		}
	}

	result.Duration = time.Since(start)
	s.logger.Info("career synced", "player_id", player.ID, "summary", result.Summary())
	return result, nil
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// ensureStatsID returns the player's statistics-provider ID, resolving and
// caching it by name search on first use.
func (s *Syncer) ensureStatsID(ctx context.Context, player *domain.Player) (int, error) {
	if player.StatsID != nil {
		return *player.StatsID, nil
	}

	athlete, err := s.stats.FindAthlete(ctx, player.FullName())
	if err != nil {
		return 0, fmt.Errorf("resolve stats id for player %d (%s): %w", player.ID, player.FullName(), err)
	}

	if err := s.store.SetPlayerStatsID(ctx, player.ID, athlete.ID); err != nil {
		s.logger.Warn("caching stats id failed", "player_id", player.ID, "error", err)
	}
	player.StatsID = &athlete.ID
	return athlete.ID, nil
}

func (s *Syncer) recordStatsFailure(ctx context.Context, gameID int, cause error) {
	if err := s.store.RecordStatsSyncFailure(ctx, gameID, cause.Error()); err != nil {
		s.logger.Warn("recording sync failure failed", "game_id", gameID, "error", err)
	}
}

func (s *Syncer) invalidatePlayerStats(ctx context.Context, playerID, season int) {
	s.cache.Delete(ctx,
		cache.SeasonStatsKey(playerID, season),
		cache.RecentGamesKey(playerID, cache.DefaultRecentGames),
		cache.CareerStatsKey(playerID),
	)
	if err := s.store.NotifyChange(ctx, "player_stats", playerID); err != nil {
		s.logger.Warn("notify failed", "player_id", playerID, "error", err)
	}
}

func sortedKeys(m map[int]struct{}) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
