package repcache

import (
	"context"
	"sort"
	"sync"
	"time"

	"civicbridge/internal/domain"
	"civicbridge/pkg/platform/sentinel"
	"civicbridge/pkg/requestcontext"
)

// InMemoryStore keeps representative records in process memory. Useful for
// tests and for running without any configured database.
type InMemoryStore struct {
	mu    sync.RWMutex
	byZip map[string][]domain.Representative
}

// NewInMemoryStore constructs an empty in-memory representative store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byZip: make(map[string][]domain.Representative),
	}
}

// ReplaceZip swaps the ZIP's roster wholesale under the write lock.
func (s *InMemoryStore) ReplaceZip(_ context.Context, zipCode string, records []domain.Representative) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byZip[zipCode] = dedupeByBioguide(records)
	return nil
}

// FindByZip returns visible rows ordered House-first, then Senators senior
// before junior. Returns sentinel.ErrNotFound when nothing is visible.
func (s *InMemoryStore) FindByZip(ctx context.Context, zipCode string) ([]domain.Representative, error) {
	now := requestcontext.Now(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var visible []domain.Representative
	for _, rec := range s.byZip[zipCode] {
		if rec.ExpiresAt.After(now) {
			// Copy the slices and the district pointer so callers never
			// alias stored rows.
			rec.RecentBills = append([]domain.Activity{}, rec.RecentBills...)
			rec.LegislativeActivity = append([]domain.Activity{}, rec.LegislativeActivity...)
			if rec.District != nil {
				d := *rec.District
				rec.District = &d
			}
			visible = append(visible, rec)
		}
	}
	if len(visible) == 0 {
		return nil, sentinel.ErrNotFound
	}

	sort.SliceStable(visible, func(i, j int) bool {
		ci, cj := chamberRank(visible[i].Chamber), chamberRank(visible[j].Chamber)
		if ci != cj {
			return ci < cj
		}
		return seniorityRank(visible[i].Seniority) < seniorityRank(visible[j].Seniority)
	})
	return visible, nil
}

// UpdateActivity overwrites the activity fields and pushes expiry forward for
// one record. Reports false when no record matched.
func (s *InMemoryStore) UpdateActivity(_ context.Context, zipCode, bioguideID string, bills, activity []domain.Activity, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.byZip[zipCode]
	for i := range records {
		if records[i].BioguideID != bioguideID {
			continue
		}
		records[i].RecentBills = append([]domain.Activity{}, bills...)
		records[i].LegislativeActivity = append([]domain.Activity{}, activity...)
		records[i].ExpiresAt = expiresAt
		return true, nil
	}
	return false, nil
}

// DeleteExpired removes rows whose expiry has passed and reports the count.
func (s *InMemoryStore) DeleteExpired(ctx context.Context) (int64, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for zip, records := range s.byZip {
		kept := records[:0]
		for _, rec := range records {
			if rec.ExpiresAt.Before(now) {
				deleted++
				continue
			}
			kept = append(kept, rec)
		}
		if len(kept) == 0 {
			delete(s.byZip, zip)
			continue
		}
		s.byZip[zip] = kept
	}
	return deleted, nil
}

// Stats counts all physical rows plus the currently visible subset.
func (s *InMemoryStore) Stats(ctx context.Context) (domain.CacheStats, error) {
	now := requestcontext.Now(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats domain.CacheStats
	stats.UniqueZipCodes = len(s.byZip)
	for _, records := range s.byZip {
		stats.TotalRepresentatives += len(records)
		for _, rec := range records {
			if !rec.ExpiresAt.After(now) {
				continue
			}
			stats.ActiveEntries++
			switch rec.Chamber {
			case domain.ChamberSenator:
				stats.Senators++
			case domain.ChamberRepresentative:
				stats.HouseRepresentatives++
			}
		}
	}
	return stats, nil
}
