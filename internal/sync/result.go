// Package sync orchestrates provider fetches into canonical records: it maps
// schedule-provider payloads, runs statistics payloads through the
// normalizer, persists everything through the store, and triggers the
// derived-row recomputes and cache invalidations a write makes necessary.
package sync

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Result tracks counts and errors from one sync run. Partial failure is
// normal: a run that upserted 11 of 12 games reports one error and keeps
// the 11.
type Result struct {
	RunID              string
	TeamsUpserted      int
	PlayersUpserted    int
	GamesUpserted      int
	StatLinesUpserted  int
	SeasonRowsUpserted int
	Errors             []string
	Duration           time.Duration
}

func newResult() Result {
	return Result{RunID: uuid.NewString()}
}

// Add merges another Result's counters into this one.
func (r *Result) Add(other Result) {
	r.TeamsUpserted += other.TeamsUpserted
	r.PlayersUpserted += other.PlayersUpserted
	r.GamesUpserted += other.GamesUpserted
	r.StatLinesUpserted += other.StatLinesUpserted
	r.SeasonRowsUpserted += other.SeasonRowsUpserted
	r.Errors = append(r.Errors, other.Errors...)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable run summary for logs.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"run=%s teams=%d players=%d games=%d stat_lines=%d season_rows=%d errors=%d in %s",
		r.RunID, r.TeamsUpserted, r.PlayersUpserted, r.GamesUpserted,
		r.StatLinesUpserted, r.SeasonRowsUpserted, len(r.Errors),
		r.Duration.Round(time.Millisecond),
	)
}
