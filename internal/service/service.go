// Package service is the read surface over the sync core. Every lookup runs
// the same chain — cache, store, provider sync, store again — and provider
// failures keep their error identity all the way up so transport handlers
// can map them to status codes.
package service

import (
	"context"
	"time"

	"github.com/courtsync/courtsync/internal/domain"
	"github.com/courtsync/courtsync/internal/sync"
)

// Syncer is the slice of the sync layer the services trigger on a miss.
type Syncer interface {
	SyncTeams(ctx context.Context) (sync.Result, error)
	SyncPlayerSearch(ctx context.Context, term string, page, perPage int) (sync.Result, error)
	SyncDate(ctx context.Context, date time.Time) (sync.Result, error)
	SyncGameLog(ctx context.Context, player domain.Player, season int) (sync.Result, error)
	SyncSeasonStats(ctx context.Context, player domain.Player, season int) (sync.Result, error)
	SyncCareer(ctx context.Context, player domain.Player) (sync.Result, error)
}

var _ Syncer = (*sync.Syncer)(nil)
