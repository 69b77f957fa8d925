package sync

import (
	"context"
	"sync"
	"time"

	"github.com/courtsync/courtsync/internal/domain"
)

// BackfillOptions bounds one backfill sweep.
type BackfillOptions struct {
	// MaxGames caps how many games one sweep pulls.
	MaxGames int
	// MaxAttempts skips games that have already failed this many times.
	MaxAttempts int
	// Workers is the fan-out across games. The schedule provider's admission
	// gate is not involved here, so concurrency is bounded only by the
	// statistics provider's tolerance.
	Workers int
}

// DefaultBackfillOptions returns the sweep bounds used by the cron job.
func DefaultBackfillOptions() BackfillOptions {
	return BackfillOptions{MaxGames: 25, MaxAttempts: 5, Workers: 4}
}

// Backfill finds final games whose box score was never persisted and syncs
// them. Failures increment the game's attempt counter; a game that keeps
// failing eventually drops out of the queue instead of wedging every sweep.
func (s *Syncer) Backfill(ctx context.Context, opts BackfillOptions) Result {
	start := time.Now()
	result := newResult()

	games, err := s.store.GamesMissingStats(ctx, opts.MaxAttempts, opts.MaxGames)
	if err != nil {
		result.AddErrorf("load backfill queue: %v", err)
		result.Duration = time.Since(start)
		return result
	}
	if len(games) == 0 {
		s.logger.Debug("backfill queue empty")
		result.Duration = time.Since(start)
		return result
	}

	s.logger.Info("backfill sweep starting", "games", len(games), "run", result.RunID)

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(games) {
		workers = len(games)
	}

	ch := make(chan domain.Game, len(games))
	for _, g := range games {
		ch <- g
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for game := range ch {
				gameResult, err := s.SyncBoxScore(ctx, game)

				mu.Lock()
				result.Add(gameResult)
				if err != nil {
					result.AddErrorf("game %d: %v", game.ID, err)
				}
				mu.Unlock()

				if ctx.Err() != nil {
					return
				}
			}
		}()
	}
	wg.Wait()

	result.Duration = time.Since(start)
	s.logger.Info("backfill sweep complete", "summary", result.Summary())
	return result
}
