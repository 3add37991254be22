package repcache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"civicbridge/internal/domain"
	"civicbridge/pkg/platform/sentinel"
	"civicbridge/pkg/requestcontext"
)

// SQLiteStore is the default Store, embedded-file durable storage with a
// single write handle and a read-only handle so reads never queue behind the
// write connection.
type SQLiteStore struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the database at path and ensures
// the representative cache schema exists.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	if err := initSchema(writeDB); err != nil {
		_ = writeDB.Close()
		return nil, err
	}

	readDB, err := sql.Open("sqlite", path+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		_ = writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	return &SQLiteStore{readDB: readDB, writeDB: writeDB}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS representative_cache (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
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
			recent_bills         TEXT NOT NULL DEFAULT '[]',
			legislative_activity TEXT NOT NULL DEFAULT '[]',
			created_at           INTEGER NOT NULL,
			expires_at           INTEGER NOT NULL,
			UNIQUE (zip_code, bioguide_id)
		);
		CREATE INDEX IF NOT EXISTS idx_rep_cache_zip_expires
			ON representative_cache(zip_code, expires_at);
	`)
	if err != nil {
		return fmt.Errorf("initializing representative cache schema: %w", err)
	}
	return nil
}

// Close closes both database handles.
func (s *SQLiteStore) Close() error {
	var firstErr error
	if err := s.readDB.Close(); err != nil {
		firstErr = err
	}
	if err := s.writeDB.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

const sqliteRepColumns = `zip_code, bioguide_id, name, party, title, chamber, district, state, seniority,
		phone, office_address, website, contact_form, twitter, facebook, youtube, photo_url,
		recent_bills, legislative_activity, created_at, expires_at`

// ReplaceZip clears the ZIP's rows and inserts the new roster in one
// transaction, so no reader observes a partially replaced roster.
func (s *SQLiteStore) ReplaceZip(ctx context.Context, zipCode string, records []domain.Representative) error {
	tx, err := s.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM representative_cache WHERE zip_code = ?`, zipCode); err != nil {
		return fmt.Errorf("clear rows for zip %s: %w", zipCode, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO representative_cache (`+sqliteRepColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (zip_code, bioguide_id) DO UPDATE SET
			name = excluded.name,
			party = excluded.party,
			title = excluded.title,
			chamber = excluded.chamber,
			district = excluded.district,
			state = excluded.state,
			seniority = excluded.seniority,
			phone = excluded.phone,
			office_address = excluded.office_address,
			website = excluded.website,
			contact_form = excluded.contact_form,
			twitter = excluded.twitter,
			facebook = excluded.facebook,
			youtube = excluded.youtube,
			photo_url = excluded.photo_url,
			recent_bills = excluded.recent_bills,
			legislative_activity = excluded.legislative_activity,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		bills, err := marshalActivity(rec.RecentBills)
		if err != nil {
			return fmt.Errorf("marshal recent bills for %s: %w", rec.BioguideID, err)
		}
		activity, err := marshalActivity(rec.LegislativeActivity)
		if err != nil {
			return fmt.Errorf("marshal activity for %s: %w", rec.BioguideID, err)
		}

		_, err = stmt.ExecContext(ctx,
			zipCode, rec.BioguideID, rec.Name, rec.Party, rec.Title, string(rec.Chamber),
			nullableDistrict(rec.District), rec.State, rec.Seniority,
			rec.Phone, rec.OfficeAddress, rec.Website, rec.ContactForm,
			rec.Twitter, rec.Facebook, rec.YouTube, rec.PhotoURL,
			bills, activity, rec.CreatedAt.Unix(), rec.ExpiresAt.Unix(),
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
func (s *SQLiteStore) FindByZip(ctx context.Context, zipCode string) ([]domain.Representative, error) {
	now := requestcontext.Now(ctx)

	rows, err := s.readDB.QueryContext(ctx, `
		SELECT `+sqliteRepColumns+`
		FROM representative_cache
		WHERE zip_code = ? AND expires_at > ?
		ORDER BY
			CASE chamber WHEN 'Representative' THEN 1 WHEN 'Senator' THEN 2 ELSE 3 END,
			CASE seniority WHEN 'senior' THEN 1 WHEN 'junior' THEN 2 ELSE 3 END
	`, zipCode, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("query representatives for zip %s: %w", zipCode, err)
	}
	defer rows.Close()

	var records []domain.Representative
	for rows.Next() {
		rec, err := scanSQLiteRepresentative(rows)
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
func (s *SQLiteStore) UpdateActivity(ctx context.Context, zipCode, bioguideID string, bills, activity []domain.Activity, expiresAt time.Time) (bool, error) {
	billsJSON, err := marshalActivity(bills)
	if err != nil {
		return false, fmt.Errorf("marshal recent bills: %w", err)
	}
	activityJSON, err := marshalActivity(activity)
	if err != nil {
		return false, fmt.Errorf("marshal activity: %w", err)
	}

	res, err := s.writeDB.ExecContext(ctx, `
		UPDATE representative_cache
		SET recent_bills = ?, legislative_activity = ?, expires_at = ?
		WHERE zip_code = ? AND bioguide_id = ?
	`, billsJSON, activityJSON, expiresAt.Unix(), zipCode, bioguideID)
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
func (s *SQLiteStore) DeleteExpired(ctx context.Context) (int64, error) {
	now := requestcontext.Now(ctx)

	res, err := s.writeDB.ExecContext(ctx,
		`DELETE FROM representative_cache WHERE expires_at < ?`, now.Unix())
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
func (s *SQLiteStore) Stats(ctx context.Context) (domain.CacheStats, error) {
	now := requestcontext.Now(ctx).Unix()

	var stats domain.CacheStats
	err := s.readDB.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT zip_code),
			COALESCE(SUM(CASE WHEN expires_at > ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN expires_at > ? AND chamber = 'Senator' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN expires_at > ? AND chamber = 'Representative' THEN 1 ELSE 0 END), 0)
		FROM representative_cache
	`, now, now, now).Scan(
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

type repRow interface {
	Scan(dest ...any) error
}

func scanSQLiteRepresentative(row repRow) (*domain.Representative, error) {
	var (
		rec                  domain.Representative
		chamber              string
		district             sql.NullInt64
		bills, activity      string
		createdAt, expiresAt int64
	)
	err := row.Scan(
		&rec.ZipCode, &rec.BioguideID, &rec.Name, &rec.Party, &rec.Title, &chamber,
		&district, &rec.State, &rec.Seniority,
		&rec.Phone, &rec.OfficeAddress, &rec.Website, &rec.ContactForm,
		&rec.Twitter, &rec.Facebook, &rec.YouTube, &rec.PhotoURL,
		&bills, &activity, &createdAt, &expiresAt,
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
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	rec.ExpiresAt = time.Unix(expiresAt, 0).UTC()
	return &rec, nil
}

func nullableDistrict(d *int) any {
	if d == nil {
		return nil
	}
	return *d
}
