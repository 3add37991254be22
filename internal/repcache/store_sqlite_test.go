package repcache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"civicbridge/internal/domain"
	"civicbridge/pkg/platform/sentinel"
	"civicbridge/pkg/requestcontext"
)

type SQLiteStoreSuite struct {
	suite.Suite
	store *SQLiteStore
	path  string
	now   time.Time
	ctx   context.Context
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreSuite))
}

func (s *SQLiteStoreSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "civicbridge.db")

	store, err := OpenSQLiteStore(s.path)
	s.Require().NoError(err)
	s.store = store

	s.now = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *SQLiteStoreSuite) TearDownTest() {
	if s.store != nil {
		s.NoError(s.store.Close())
	}
}

func (s *SQLiteStoreSuite) rep(bioguideID, name string, chamber domain.Chamber, seniority string) domain.Representative {
	return domain.Representative{
		BioguideID:          bioguideID,
		Name:                name,
		Party:               "Democratic",
		Title:               "representative",
		Chamber:             chamber,
		State:               "NY",
		Seniority:           seniority,
		Phone:               "202-225-5614",
		Website:             "https://example.house.gov",
		RecentBills:         []domain.Activity{},
		LegislativeActivity: []domain.Activity{},
		CreatedAt:           s.now,
		ExpiresAt:           s.now.Add(24 * time.Hour),
	}
}

func (s *SQLiteStoreSuite) TestRoundTrip() {
	s.Run("persists the full record including activity and district", func() {
		district := 18
		rec := s.rep("R000579", "Patrick Ryan", domain.ChamberRepresentative, "")
		rec.District = &district
		rec.RecentBills = []domain.Activity{{
			Date:         "2025-01-10",
			BillTitle:    "Hudson Valley Flood Resilience Act",
			BillNumber:   "HR 1234",
			Position:     domain.PositionSponsored,
			LatestAction: "Referred to the Committee on Transportation.",
			Congress:     119,
			PolicyArea:   "Environmental Protection",
		}}
		rec.LegislativeActivity = append(rec.RecentBills, domain.Activity{
			Date:       "2025-01-08",
			BillTitle:  "Veterans Housing Act",
			BillNumber: "HR 970",
			Position:   domain.PositionCosponsored,
			Congress:   119,
		})

		s.NoError(s.store.ReplaceZip(s.ctx, "12601", []domain.Representative{rec}))

		got, err := s.store.FindByZip(s.ctx, "12601")
		s.NoError(err)
		s.Require().Len(got, 1)

		s.Equal("R000579", got[0].BioguideID)
		s.Equal("12601", got[0].ZipCode)
		s.Require().NotNil(got[0].District)
		s.Equal(18, *got[0].District)
		s.Equal(rec.RecentBills, got[0].RecentBills)
		s.Equal(rec.LegislativeActivity, got[0].LegislativeActivity)
		s.Equal(s.now.Unix(), got[0].CreatedAt.Unix())
		s.Equal(s.now.Add(24*time.Hour).Unix(), got[0].ExpiresAt.Unix())
	})

	s.Run("senators carry no district", func() {
		s.NoError(s.store.ReplaceZip(s.ctx, "12601", []domain.Representative{
			s.rep("S000148", "Charles Schumer", domain.ChamberSenator, "senior"),
		}))

		got, err := s.store.FindByZip(s.ctx, "12601")
		s.NoError(err)
		s.Require().Len(got, 1)
		s.Nil(got[0].District)
	})

	s.Run("survives a close and reopen", func() {
		s.NoError(s.store.ReplaceZip(s.ctx, "12601", []domain.Representative{
			s.rep("R000579", "Patrick Ryan", domain.ChamberRepresentative, ""),
		}))
		s.NoError(s.store.Close())

		reopened, err := OpenSQLiteStore(s.path)
		s.Require().NoError(err)
		s.store = reopened

		got, err := s.store.FindByZip(s.ctx, "12601")
		s.NoError(err)
		s.Len(got, 1)
	})
}

func (s *SQLiteStoreSuite) TestOrderingAndVisibility() {
	s.Run("orders house members first then senators by seniority", func() {
		s.NoError(s.store.ReplaceZip(s.ctx, "12601", []domain.Representative{
			s.rep("G000555", "Kirsten Gillibrand", domain.ChamberSenator, "junior"),
			s.rep("S000148", "Charles Schumer", domain.ChamberSenator, "senior"),
			s.rep("R000579", "Patrick Ryan", domain.ChamberRepresentative, ""),
		}))

		got, err := s.store.FindByZip(s.ctx, "12601")
		s.NoError(err)
		s.Require().Len(got, 3)
		s.Equal("R000579", got[0].BioguideID)
		s.Equal("S000148", got[1].BioguideID)
		s.Equal("G000555", got[2].BioguideID)
	})

	s.Run("expired rows are invisible but physically present", func() {
		expired := s.rep("G000555", "Kirsten Gillibrand", domain.ChamberSenator, "junior")
		expired.ExpiresAt = s.now.Add(-time.Minute)
		s.NoError(s.store.ReplaceZip(s.ctx, "10001", []domain.Representative{expired}))

		_, err := s.store.FindByZip(s.ctx, "10001")
		s.ErrorIs(err, sentinel.ErrNotFound)

		stats, err := s.store.Stats(s.ctx)
		s.NoError(err)
		s.GreaterOrEqual(stats.TotalRepresentatives, 1)
	})

	s.Run("replace leaves no stale officials behind", func() {
		s.NoError(s.store.ReplaceZip(s.ctx, "06516", []domain.Representative{
			s.rep("A000000", "Gone Member", domain.ChamberRepresentative, ""),
			s.rep("B000000", "Also Gone", domain.ChamberSenator, "senior"),
		}))
		s.NoError(s.store.ReplaceZip(s.ctx, "06516", []domain.Representative{
			s.rep("D000620", "Rosa DeLauro", domain.ChamberRepresentative, ""),
		}))

		got, err := s.store.FindByZip(s.ctx, "06516")
		s.NoError(err)
		s.Require().Len(got, 1)
		s.Equal("D000620", got[0].BioguideID)
	})
}

func (s *SQLiteStoreSuite) TestUpdateActivity() {
	bills := []domain.Activity{{
		Date:       "2025-01-12",
		BillTitle:  "Coastal Infrastructure Act",
		BillNumber: "S 88",
		Position:   domain.PositionSponsored,
		Congress:   119,
	}}

	s.Run("rewrites activity columns and pushes expiry forward", func() {
		s.NoError(s.store.ReplaceZip(s.ctx, "12601", []domain.Representative{
			s.rep("S000148", "Charles Schumer", domain.ChamberSenator, "senior"),
		}))

		newExpiry := s.now.Add(48 * time.Hour)
		applied, err := s.store.UpdateActivity(s.ctx, "12601", "S000148", bills, bills, newExpiry)
		s.NoError(err)
		s.True(applied)

		later := requestcontext.WithTime(context.Background(), s.now.Add(30*time.Hour))
		got, err := s.store.FindByZip(later, "12601")
		s.NoError(err)
		s.Require().Len(got, 1)
		s.Equal(bills, got[0].RecentBills)
		s.Equal(bills, got[0].LegislativeActivity)
		s.Equal(newExpiry.Unix(), got[0].ExpiresAt.Unix())
	})

	s.Run("unknown row reports not applied", func() {
		applied, err := s.store.UpdateActivity(s.ctx, "12601", "X000000", bills, bills, s.now.Add(time.Hour))
		s.NoError(err)
		s.False(applied)
	})
}

func (s *SQLiteStoreSuite) TestDeleteExpiredAndStats() {
	s.Run("eviction deletes expired rows once", func() {
		expired := s.rep("G000555", "Kirsten Gillibrand", domain.ChamberSenator, "junior")
		expired.ExpiresAt = s.now.Add(-time.Minute)
		live := s.rep("S000148", "Charles Schumer", domain.ChamberSenator, "senior")

		s.NoError(s.store.ReplaceZip(s.ctx, "12601", []domain.Representative{expired, live}))

		deleted, err := s.store.DeleteExpired(s.ctx)
		s.NoError(err)
		s.Equal(int64(1), deleted)

		deleted, err = s.store.DeleteExpired(s.ctx)
		s.NoError(err)
		s.Equal(int64(0), deleted)
	})

	s.Run("stats aggregates totals and active chamber counts", func() {
		expired := s.rep("G000555", "Kirsten Gillibrand", domain.ChamberSenator, "junior")
		expired.ExpiresAt = s.now.Add(-time.Minute)

		s.NoError(s.store.ReplaceZip(s.ctx, "12601", []domain.Representative{
			s.rep("S000148", "Charles Schumer", domain.ChamberSenator, "senior"),
			expired,
			s.rep("R000579", "Patrick Ryan", domain.ChamberRepresentative, ""),
		}))
		s.NoError(s.store.ReplaceZip(s.ctx, "10940", []domain.Representative{
			s.rep("R000579", "Patrick Ryan", domain.ChamberRepresentative, ""),
		}))

		stats, err := s.store.Stats(s.ctx)
		s.NoError(err)
		s.Equal(4, stats.TotalRepresentatives)
		s.Equal(2, stats.UniqueZipCodes)
		s.Equal(3, stats.ActiveEntries)
		s.Equal(1, stats.Senators)
		s.Equal(2, stats.HouseRepresentatives)
	})
}
