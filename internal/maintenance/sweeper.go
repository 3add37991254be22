// Package maintenance deletes expired representative rows and aged chat
// history from the durable stores. It owns no schedule; Worker or an admin
// request drives each sweep.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"civicbridge/internal/domain"
	"civicbridge/pkg/requestcontext"
)

const defaultChatRetention = 7 * 24 * time.Hour

// RepresentativeCache is the slice of the cache the sweeper needs.
type RepresentativeCache interface {
	EvictExpired(ctx context.Context) int64
	Stats(ctx context.Context) domain.CacheStats
}

// HistoryStore ages out chat exchanges older than a cutoff.
type HistoryStore interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Result reports what one sweep removed.
type Result struct {
	RepresentativesDeleted int64
	OtherDeleted           int64
}

type Sweeper struct {
	cache     RepresentativeCache
	history   HistoryStore
	retention time.Duration
	logger    *slog.Logger
}

// NewSweeper constructs a sweeper. A non-positive retention falls back to
// seven days of chat history.
func NewSweeper(cache RepresentativeCache, history HistoryStore, retention time.Duration, logger *slog.Logger) *Sweeper {
	if retention <= 0 {
		retention = defaultChatRetention
	}
	return &Sweeper{
		cache:     cache,
		history:   history,
		retention: retention,
		logger:    logger,
	}
}

// Sweep evicts expired representatives and chat history past the retention
// window. The two legs degrade independently; a failed leg reports zero and
// reruns on the next sweep.
func (s *Sweeper) Sweep(ctx context.Context) Result {
	result := Result{
		RepresentativesDeleted: s.cache.EvictExpired(ctx),
	}

	cutoff := requestcontext.Now(ctx).Add(-s.retention)
	deleted, err := s.history.DeleteBefore(ctx, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete aged chat history", "error", err)
	} else {
		result.OtherDeleted = deleted
	}

	s.logger.InfoContext(ctx, "maintenance sweep completed",
		"representatives_deleted", result.RepresentativesDeleted,
		"other_deleted", result.OtherDeleted,
	)
	return result
}

// CacheStats reports cache occupancy for the admin surface.
func (s *Sweeper) CacheStats(ctx context.Context) domain.CacheStats {
	return s.cache.Stats(ctx)
}
