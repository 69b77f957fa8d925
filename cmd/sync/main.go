// Command sync is the CourtSync data synchronization CLI.
//
// Usage:
//
//	courtsync-sync date 2026-01-15
//	courtsync-sync teams
//	courtsync-sync players
//	courtsync-sync backfill --max 50 --workers 4
//	courtsync-sync career --player 101
//	courtsync-sync aggregate --player 101 --season 2025
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/courtsync/courtsync/internal/aggregate"
	"github.com/courtsync/courtsync/internal/cache"
	"github.com/courtsync/courtsync/internal/config"
	"github.com/courtsync/courtsync/internal/db"
	"github.com/courtsync/courtsync/internal/domain"
	"github.com/courtsync/courtsync/internal/normalize"
	"github.com/courtsync/courtsync/internal/provider/bdl"
	"github.com/courtsync/courtsync/internal/provider/espn"
	"github.com/courtsync/courtsync/internal/store"
	"github.com/courtsync/courtsync/internal/sync"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "courtsync-sync",
		Short: "CourtSync data synchronization CLI",
	}

	root.AddCommand(dateCmd())
	root.AddCommand(teamsCmd())
	root.AddCommand(playersCmd())
	root.AddCommand(backfillCmd())
	root.AddCommand(careerCmd())
	root.AddCommand(aggregateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap builds the sync core shared by every command. The returned
// cleanup closes the pool.
func bootstrap(ctx context.Context) (*sync.Syncer, *store.Store, *aggregate.Engine, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}

	st := store.New(pool.Pool)
	opts := bdl.DefaultOptions()
	opts.MinInterval = cfg.ScheduleMinInterval
	opts.Cooldown = cfg.ScheduleCooldown

	scheduleClient := bdl.NewClient(cfg.ScheduleBaseURL, cfg.ScheduleAPIKey, opts, logger)
	statsClient := espn.NewClient(cfg.StatsBaseURL, logger)
	normalizer := normalize.New(store.NewResolver(st), logger)
	engine := aggregate.New(st, logger)

	// CLI runs invalidate nothing in-process; API replicas converge through
	// the LISTEN/NOTIFY listener.
	syncer := sync.New(scheduleClient, statsClient, st, normalizer, engine, cache.NewMemory(false), logger)
	return syncer, st, engine, pool.Close, nil
}

// --------------------------------------------------------------------------
// date command
// --------------------------------------------------------------------------

func dateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "date [YYYY-MM-DD]",
		Short: "Sync all games on a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse("2006-01-02", args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", args[0], err)
			}

			syncer, _, _, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := syncer.SyncDate(cmd.Context(), date)
			if err != nil {
				return err
			}
			logger.Info("date sync finished", "summary", result.Summary())
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// teams / players commands
// --------------------------------------------------------------------------

func teamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "Sync the full team list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			syncer, _, _, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := syncer.SyncTeams(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("team sync finished", "summary", result.Summary())
			return nil
		},
	}
}

func playersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "Sync the full player roster (slow: paginated under the rate limit)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			syncer, _, _, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := syncer.SyncPlayers(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("player sync finished", "summary", result.Summary())
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// backfill command
// --------------------------------------------------------------------------

func backfillCmd() *cobra.Command {
	opts := sync.DefaultBackfillOptions()

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Sync box scores for final games missing stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			syncer, _, _, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			result := syncer.Backfill(cmd.Context(), opts)
			logger.Info("backfill finished", "summary", result.Summary())
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d games failed", len(result.Errors))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.MaxGames, "max", opts.MaxGames, "maximum games to process")
	cmd.Flags().IntVar(&opts.MaxAttempts, "attempts", opts.MaxAttempts, "skip games that failed this many times")
	cmd.Flags().IntVar(&opts.Workers, "workers", opts.Workers, "concurrent workers")
	return cmd
}

// --------------------------------------------------------------------------
// career command
// --------------------------------------------------------------------------

func careerCmd() *cobra.Command {
	var playerID int

	cmd := &cobra.Command{
		Use:   "career",
		Short: "Sync a player's full season-by-season history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			syncer, st, _, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			player, err := st.GetPlayer(cmd.Context(), playerID)
			if err != nil {
				return fmt.Errorf("player %d: %w", playerID, err)
			}

			result, err := syncer.SyncCareer(cmd.Context(), player)
			if err != nil {
				return err
			}
			logger.Info("career sync finished", "player", player.FullName(), "summary", result.Summary())
			return nil
		},
	}
	cmd.Flags().IntVar(&playerID, "player", 0, "internal player ID")
	_ = cmd.MarkFlagRequired("player")
	return cmd
}

// --------------------------------------------------------------------------
// aggregate command
// --------------------------------------------------------------------------

func aggregateCmd() *cobra.Command {
	var playerID, season int

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Recompute a player's derived season and career rows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, engine, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			for _, seasonType := range []domain.SeasonType{domain.SeasonRegular, domain.SeasonPostseason} {
				if err := engine.RecomputeSeason(ctx, playerID, season, seasonType); err != nil {
					return fmt.Errorf("recompute %s season: %w", seasonType, err)
				}
			}
			if err := engine.RecomputeCareer(ctx, playerID); err != nil {
				return fmt.Errorf("recompute career: %w", err)
			}
			logger.Info("aggregation finished", "player_id", playerID, "season", season)
			return nil
		},
	}
	cmd.Flags().IntVar(&playerID, "player", 0, "internal player ID")
	cmd.Flags().IntVar(&season, "season", config.CurrentSeason, "season starting year")
	_ = cmd.MarkFlagRequired("player")
	return cmd
}
