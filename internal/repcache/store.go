// Package repcache implements the representative cache: a keyed, time-expiring
// store mapping (zip_code, bioguide_id) to enriched representative records.
// Store implementations own durability and visibility; the Cache facade owns
// TTL stamping and the degrade-on-error policy.
package repcache

import (
	"context"
	"encoding/json"
	"time"

	"civicbridge/internal/domain"
)

// Store is the persistence contract for representative records.
//
// Implementations must keep (zip_code, bioguide_id) unique, make ReplaceZip
// atomic per ZIP (no reader observes a half-replaced roster), and treat a row
// as visible only while expires_at lies after the request-scoped now.
// FindByZip returns sentinel.ErrNotFound when no visible row matches.
type Store interface {
	ReplaceZip(ctx context.Context, zipCode string, records []domain.Representative) error
	FindByZip(ctx context.Context, zipCode string) ([]domain.Representative, error)
	UpdateActivity(ctx context.Context, zipCode, bioguideID string, bills, activity []domain.Activity, expiresAt time.Time) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (domain.CacheStats, error)
}

// chamberRank orders House members ahead of Senators; fallback Legislator
// entries sort last.
func chamberRank(c domain.Chamber) int {
	switch c {
	case domain.ChamberRepresentative:
		return 1
	case domain.ChamberSenator:
		return 2
	default:
		return 3
	}
}

// seniorityRank orders senior before junior before unspecified.
func seniorityRank(s string) int {
	switch s {
	case "senior":
		return 1
	case "junior":
		return 2
	default:
		return 3
	}
}

func marshalActivity(items []domain.Activity) (string, error) {
	if items == nil {
		items = []domain.Activity{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalActivity tolerates corrupt column data by degrading to an empty
// feed rather than failing the row.
func unmarshalActivity(raw string) []domain.Activity {
	if raw == "" {
		return []domain.Activity{}
	}
	var items []domain.Activity
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return []domain.Activity{}
	}
	return items
}

// dedupeByBioguide keeps the last record per bioguide ID, preserving first-seen
// order. Mirrors upsert-on-conflict behavior for stores without SQL semantics.
func dedupeByBioguide(records []domain.Representative) []domain.Representative {
	seen := make(map[string]int, len(records))
	out := make([]domain.Representative, 0, len(records))
	for _, rec := range records {
		if i, ok := seen[rec.BioguideID]; ok {
			out[i] = rec
			continue
		}
		seen[rec.BioguideID] = len(out)
		out = append(out, rec)
	}
	return out
}
