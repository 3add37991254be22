package repcache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"civicbridge/internal/domain"
	"civicbridge/pkg/platform/sentinel"
	"civicbridge/pkg/requestcontext"
)

// PostgresStore persists representative records in PostgreSQL, for deployments
// that already run a shared database instead of a per-node SQLite file.
// This store is pure I/O; TTL stamping and degrade policy belong to the Cache.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed representative store and ensures
// its schema exists.
func NewPostgres(ctx context.Context, db *sql.DB) (*PostgresStore, error) {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS representative_cache (
			id                   BIGSERIAL PRIMARY KEY,
			zip_code             TEXT NOT NULL,
			bioguide_id          TEXT NOT NULL,
			name                 TEXT NOT NULL,
			party                TEXT NOT NULL DEFAULT '',
			title                TEXT NOT NULL DEFAULT '',
			chamber              TEXT NOT NULL DEFAULT '',
			district             INTEGER,
			state                TEXT NOT NULL DEFAULT '',
			seniority            TEXT NOT NULL DEFAULT '',
			phone                TEXT NOT NULL DEFAULT '',
			office_address       TEXT NOT NULL DEFAULT '',
			website              TEXT NOT NULL DEFAULT '',
			contact_form         TEXT NOT NULL DEFAULT '',
			twitter              TEXT NOT NULL DEFAULT '',
			facebook             TEXT NOT NULL DEFAULT '',
			youtube              TEXT NOT NULL DEFAULT '',
			photo_url            TEXT NOT NULL DEFAULT '',
			recent_bills         JSONB NOT NULL DEFAULT '[]',
			legislative_activity JSONB NOT NULL DEFAULT '[]',
			created_at           TIMESTAMPTZ NOT NULL,
			expires_at           TIMESTAMPTZ NOT NULL,
			UNIQUE (zip_code, bioguide_id)
		);
		CREATE INDEX IF NOT EXISTS idx_rep_cache_zip_expires
			ON representative_cache(zip_code, expires_at);
	`); err != nil {
		return nil, fmt.Errorf("ensure representative cache schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

const pgRepColumns = `zip_code, bioguide_id, name, party, title, chamber, district, state, seniority,
		phone, office_address, website, contact_form, twitter, facebook, youtube, photo_url,
		recent_bills, legislative_activity, created_at, expires_at`

// ReplaceZip clears the ZIP's rows and inserts the new roster in one
// transaction, so no reader observes a partially replaced roster.
func (s *PostgresStore) ReplaceZip(ctx context.Context, zipCode string, records []domain.Representative) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM representative_cache WHERE zip_code = $1`, zipCode); err != nil {
		return fmt.Errorf("clear rows for zip %s: %w", zipCode, err)
	}

	query := `
		INSERT INTO representative_cache (` + pgRepColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (zip_code, bioguide_id) DO UPDATE SET
			name = EXCLUDED.name,
			party = EXCLUDED.party,
			title = EXCLUDED.title,
			chamber = EXCLUDED.chamber,
			district = EXCLUDED.district,
			state = EXCLUDED.state,
			seniority = EXCLUDED.seniority,
			phone = EXCLUDED.phone,
			office_address = EXCLUDED.office_address,
			website = EXCLUDED.website,
			contact_form = EXCLUDED.contact_form,
			twitter = EXCLUDED.twitter,
			facebook = EXCLUDED.facebook,
			youtube = EXCLUDED.youtube,
			photo_url = EXCLUDED.photo_url,
			recent_bills = EXCLUDED.recent_bills,
			legislative_activity = EXCLUDED.legislative_activity,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
	`
	for _, rec := range records {
		bills, err := marshalActivity(rec.RecentBills)
		if err != nil {
			return fmt.Errorf("marshal recent bills for %s: %w", rec.BioguideID, err)
		}
		activity, err := marshalActivity(rec.LegislativeActivity)
		if err != nil {
			return fmt.Errorf("marshal activity for %s: %w", rec.BioguideID, err)
		}

		_, err = tx.ExecContext(ctx, query,
			zipCode, rec.BioguideID, rec.Name, rec.Party, rec.Title, string(rec.Chamber),
			nullableDistrict(rec.District), rec.State, rec.Seniority,
			rec.Phone, rec.OfficeAddress, rec.Website, rec.ContactForm,
			rec.Twitter, rec.Facebook, rec.YouTube, rec.PhotoURL,
			bills, activity, rec.CreatedAt, rec.ExpiresAt,
		)
		if err != nil {
			return fmt.Errorf("insert representative %s: %w", rec.BioguideID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace tx: %w", err)
	}
	return nil
}

// FindByZip returns the ZIP's visible rows ordered House-first, then Senators
// senior before junior. Returns sentinel.ErrNotFound when nothing is visible.
func (s *PostgresStore) FindByZip(ctx context.Context, zipCode string) ([]domain.Representative, error) {
	now := requestcontext.Now(ctx)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+pgRepColumns+`
		FROM representative_cache
		WHERE zip_code = $1 AND expires_at > $2
		ORDER BY
			CASE chamber WHEN 'Representative' THEN 1 WHEN 'Senator' THEN 2 ELSE 3 END,
			CASE seniority WHEN 'senior' THEN 1 WHEN 'junior' THEN 2 ELSE 3 END
	`, zipCode, now)
	if err != nil {
		return nil, fmt.Errorf("query representatives for zip %s: %w", zipCode, err)
	}
	defer rows.Close()

	var records []domain.Representative
	for rows.Next() {
		rec, err := scanPostgresRepresentative(rows)
		if err != nil {
			return nil, fmt.Errorf("scan representative row: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate representative rows: %w", err)
	}

	if len(records) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return records, nil
}

// UpdateActivity overwrites the activity columns and pushes expires_at forward
// for one row. Reports false when no row matched.
func (s *PostgresStore) UpdateActivity(ctx context.Context, zipCode, bioguideID string, bills, activity []domain.Activity, expiresAt time.Time) (bool, error) {
	billsJSON, err := marshalActivity(bills)
	if err != nil {
		return false, fmt.Errorf("marshal recent bills: %w", err)
	}
	activityJSON, err := marshalActivity(activity)
	if err != nil {
		return false, fmt.Errorf("marshal activity: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE representative_cache
		SET recent_bills = $1, legislative_activity = $2, expires_at = $3
		WHERE zip_code = $4 AND bioguide_id = $5
	`, billsJSON, activityJSON, expiresAt, zipCode, bioguideID)
	if err != nil {
		return false, fmt.Errorf("update activity for %s/%s: %w", zipCode, bioguideID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteExpired removes rows whose expiry has passed and reports the count.
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	now := requestcontext.Now(ctx)

	res, err := s.db.ExecContext(ctx, `DELETE FROM representative_cache WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired representatives: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return deleted, nil
}

// Stats counts all physical rows plus the currently visible subset.
func (s *PostgresStore) Stats(ctx context.Context) (domain.CacheStats, error) {
	now := requestcontext.Now(ctx)

	var stats domain.CacheStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT zip_code),
			COALESCE(SUM(CASE WHEN expires_at > $1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN expires_at > $1 AND chamber = 'Senator' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN expires_at > $1 AND chamber = 'Representative' THEN 1 ELSE 0 END), 0)
		FROM representative_cache
	`, now).Scan(
		&stats.TotalRepresentatives,
		&stats.UniqueZipCodes,
		&stats.ActiveEntries,
		&stats.Senators,
		&stats.HouseRepresentatives,
	)
	if err != nil {
		return domain.CacheStats{}, fmt.Errorf("query cache stats: %w", err)
	}
	return stats, nil
}

func scanPostgresRepresentative(row repRow) (*domain.Representative, error) {
	var (
		rec             domain.Representative
		chamber         string
		district        sql.NullInt64
		bills, activity string
	)
	err := row.Scan(
		&rec.ZipCode, &rec.BioguideID, &rec.Name, &rec.Party, &rec.Title, &chamber,
		&district, &rec.State, &rec.Seniority,
		&rec.Phone, &rec.OfficeAddress, &rec.Website, &rec.ContactForm,
		&rec.Twitter, &rec.Facebook, &rec.YouTube, &rec.PhotoURL,
		&bills, &activity, &rec.CreatedAt, &rec.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Chamber = domain.Chamber(chamber)
	if district.Valid {
		d := int(district.Int64)
		rec.District = &d
	}
	rec.RecentBills = unmarshalActivity(bills)
	rec.LegislativeActivity = unmarshalActivity(activity)
	return &rec, nil
}
