// Package schedule runs the recurring sync jobs. All scheduled work is
// driven from Go since the service is already persistent and long-running
// (required for LISTEN/NOTIFY); no external scheduler is involved.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/courtsync/courtsync/internal/sync"
)

// Jobs owns the cron runner.
type Jobs struct {
	cron   *cron.Cron
	syncer *sync.Syncer
	logger *slog.Logger
}

// Specs for the recurring jobs. Live resync is cheap when nothing is in
// progress (one schedule-provider call), so it runs around the clock rather
// than guessing at tip-off windows.
const (
	liveResyncSpec   = "* * * * *"    // every minute
	backfillSpec     = "*/15 * * * *" // every 15 minutes
	nightlyResetSpec = "0 10 * * *"   // 10:00 UTC, after West Coast games end
)

// New wires the recurring jobs onto a cron runner.
func New(syncer *sync.Syncer, logger *slog.Logger) (*Jobs, error) {
	if logger == nil {
		logger = slog.Default()
	}
	j := &Jobs{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		syncer: syncer,
		logger: logger,
	}

	jobs := []struct {
		spec string
		name string
		run  func(context.Context)
	}{
		{liveResyncSpec, "live_resync", j.liveResync},
		{backfillSpec, "backfill", j.backfill},
		{nightlyResetSpec, "nightly", j.nightly},
	}
	for _, job := range jobs {
		job := job
		if _, err := j.cron.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			job.run(ctx)
		}); err != nil {
			return nil, err
		}
	}
	return j, nil
}

// Start begins running jobs on their schedules.
func (j *Jobs) Start() {
	j.logger.Info("sync jobs scheduled",
		"live_resync", liveResyncSpec, "backfill", backfillSpec, "nightly", nightlyResetSpec)
	j.cron.Start()
}

// Stop stops scheduling and waits for running jobs to finish.
func (j *Jobs) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.logger.Info("sync jobs stopped")
}

// liveResync refreshes today's slate so live scores and statuses stay fresh.
func (j *Jobs) liveResync(ctx context.Context) {
	if _, err := j.syncer.SyncDate(ctx, time.Now().UTC()); err != nil {
		j.logger.Warn("live resync failed", "error", err)
	}
}

// backfill sweeps for final games whose box scores were never persisted.
func (j *Jobs) backfill(ctx context.Context) {
	result := j.syncer.Backfill(ctx, sync.DefaultBackfillOptions())
	if len(result.Errors) > 0 {
		j.logger.Warn("backfill finished with errors", "summary", result.Summary())
	}
}

// nightly re-syncs yesterday so late corrections land, then seeds today.
func (j *Jobs) nightly(ctx context.Context) {
	now := time.Now().UTC()
	for _, date := range []time.Time{now.AddDate(0, 0, -1), now} {
		if _, err := j.syncer.SyncDate(ctx, date); err != nil {
			j.logger.Warn("nightly sync failed", "date", date.Format("2006-01-02"), "error", err)
		}
	}
}
