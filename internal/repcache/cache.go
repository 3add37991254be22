package repcache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"civicbridge/internal/domain"
	"civicbridge/internal/repcache/metrics"
	"civicbridge/pkg/platform/sentinel"
	"civicbridge/pkg/requestcontext"
)

// DefaultTTL reflects the update cadence of legislative rosters and activity:
// roster changes are rare and bill activity updates daily at most.
const DefaultTTL = 24 * time.Hour

// Cache fronts a Store with TTL stamping and a degrade-on-error policy.
// Representative lookup is best-effort enrichment, so storage failures never
// propagate: reads degrade to a miss, writes are logged and swallowed, and
// callers always get an answer instead of a storage error.
type Cache struct {
	store   Store
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewCache wraps store with the given TTL. A non-positive TTL falls back to
// DefaultTTL.
func NewCache(store Store, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store:   store,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
	}
}

// TTL reports the configured record lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Put replaces the ZIP's entire cached roster, stamping each record with
// created_at = now and expires_at = now + TTL. Write failures are logged and
// swallowed; the caller's assembled result is still good even if it could not
// be persisted.
func (c *Cache) Put(ctx context.Context, zipCode string, records []domain.Representative) {
	now := requestcontext.Now(ctx)

	stamped := make([]domain.Representative, len(records))
	for i, rec := range records {
		rec.ZipCode = zipCode
		rec.CreatedAt = now
		rec.ExpiresAt = now.Add(c.ttl)
		if rec.RecentBills == nil {
			rec.RecentBills = []domain.Activity{}
		}
		if rec.LegislativeActivity == nil {
			rec.LegislativeActivity = []domain.Activity{}
		}
		stamped[i] = rec
	}

	if err := c.store.ReplaceZip(ctx, zipCode, stamped); err != nil {
		c.logger.ErrorContext(ctx, "failed to cache representatives",
			"zip_code", zipCode,
			"count", len(stamped),
			"error", err,
		)
		c.metrics.RecordStoreError("put")
		return
	}
	c.metrics.RecordCachedRows(len(stamped))
}

// Get returns the ZIP's visible records, empty on a miss or when the store
// fails. Never returns an error.
func (c *Cache) Get(ctx context.Context, zipCode string) []domain.Representative {
	records, err := c.store.FindByZip(ctx, zipCode)
	switch {
	case err == nil:
		c.metrics.RecordHit()
		return records
	case errors.Is(err, sentinel.ErrNotFound):
		c.metrics.RecordMiss()
	default:
		c.logger.ErrorContext(ctx, "representative cache read failed, treating as miss",
			"zip_code", zipCode,
			"error", err,
		)
		c.metrics.RecordStoreError("get")
	}
	return nil
}

// GetGrouped partitions Get's result by chamber. Fallback Legislator records
// land in neither bucket, matching the upstream grouping.
func (c *Cache) GetGrouped(ctx context.Context, zipCode string) domain.GroupedRepresentatives {
	grouped := domain.GroupedRepresentatives{
		Senators:        []domain.Representative{},
		Representatives: []domain.Representative{},
	}
	for _, rec := range c.Get(ctx, zipCode) {
		switch rec.Chamber {
		case domain.ChamberSenator:
			grouped.Senators = append(grouped.Senators, rec)
		case domain.ChamberRepresentative:
			grouped.Representatives = append(grouped.Representatives, rec)
		}
	}
	return grouped
}

// RefreshActivity overwrites one record's activity fields and resets its
// expiry to now + TTL. A missing row is a logged no-op, not an error.
func (c *Cache) RefreshActivity(ctx context.Context, zipCode, bioguideID string, bills, activity []domain.Activity) {
	expiresAt := requestcontext.Now(ctx).Add(c.ttl)

	applied, err := c.store.UpdateActivity(ctx, zipCode, bioguideID, bills, activity, expiresAt)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to refresh cached activity",
			"zip_code", zipCode,
			"bioguide_id", bioguideID,
			"error", err,
		)
		c.metrics.RecordStoreError("refresh_activity")
		return
	}
	if !applied {
		c.logger.WarnContext(ctx, "no cached representative to refresh",
			"zip_code", zipCode,
			"bioguide_id", bioguideID,
		)
	}
}

// EvictExpired deletes rows whose expiry has passed. Returns 0 on store
// failure; eviction reruns on the next sweep.
func (c *Cache) EvictExpired(ctx context.Context) int64 {
	deleted, err := c.store.DeleteExpired(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to evict expired representatives", "error", err)
		c.metrics.RecordStoreError("evict_expired")
		return 0
	}
	c.metrics.RecordEvictedRows(deleted)
	return deleted
}

// Stats returns a snapshot of cache occupancy, zeroed on store failure.
func (c *Cache) Stats(ctx context.Context) domain.CacheStats {
	stats, err := c.store.Stats(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to read cache stats", "error", err)
		c.metrics.RecordStoreError("stats")
		return domain.CacheStats{}
	}
	return stats
}
