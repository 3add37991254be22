//go:build integration

package repcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"civicbridge/internal/domain"
	"civicbridge/internal/repcache"
	"civicbridge/pkg/platform/sentinel"
	"civicbridge/pkg/requestcontext"
	"civicbridge/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *repcache.PostgresStore
	now      time.Time
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())

	store, err := repcache.NewPostgres(context.Background(), s.postgres.DB)
	s.Require().NoError(err)
	s.store = store
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "representative_cache"))

	s.now = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *PostgresStoreSuite) rep(bioguideID, name string, chamber domain.Chamber, seniority string) domain.Representative {
	return domain.Representative{
		BioguideID: bioguideID,
		Name:       name,
		Party:      "Democratic",
		Chamber:    chamber,
		State:      "NY",
		Seniority:  seniority,
		Phone:      "202-224-6542",
		RecentBills: []domain.Activity{
			{Date: "2025-01-12", BillTitle: "Rail Safety Act", BillNumber: "S 77", Position: domain.PositionSponsored, Congress: 119},
		},
		LegislativeActivity: []domain.Activity{},
		CreatedAt:           s.now,
		ExpiresAt:           s.now.Add(24 * time.Hour),
	}
}

func (s *PostgresStoreSuite) TestReplaceAndFindOrdered() {
	district := 18
	house := s.rep("R000579", "Patrick Ryan", domain.ChamberRepresentative, "")
	house.District = &district
	senior := s.rep("S000148", "Charles Schumer", domain.ChamberSenator, "senior")
	junior := s.rep("G000555", "Kirsten Gillibrand", domain.ChamberSenator, "junior")

	err := s.store.ReplaceZip(s.ctx, "12601", []domain.Representative{junior, house, senior})
	s.Require().NoError(err)

	records, err := s.store.FindByZip(s.ctx, "12601")
	s.Require().NoError(err)
	s.Require().Len(records, 3)

	s.Equal("R000579", records[0].BioguideID)
	s.Equal("S000148", records[1].BioguideID)
	s.Equal("G000555", records[2].BioguideID)

	s.Require().NotNil(records[0].District)
	s.Equal(18, *records[0].District)
	s.Nil(records[1].District)

	s.Require().Len(records[0].RecentBills, 1)
	s.Equal("S 77", records[0].RecentBills[0].BillNumber)
	s.Equal(domain.PositionSponsored, records[0].RecentBills[0].Position)
}

func (s *PostgresStoreSuite) TestReplaceDropsStaleRoster() {
	first := []domain.Representative{
		s.rep("S000148", "Charles Schumer", domain.ChamberSenator, "senior"),
		s.rep("G000555", "Kirsten Gillibrand", domain.ChamberSenator, "junior"),
	}
	s.Require().NoError(s.store.ReplaceZip(s.ctx, "12601", first))

	second := []domain.Representative{
		s.rep("S000148", "Charles Schumer", domain.ChamberSenator, "senior"),
	}
	s.Require().NoError(s.store.ReplaceZip(s.ctx, "12601", second))

	records, err := s.store.FindByZip(s.ctx, "12601")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal("S000148", records[0].BioguideID)
}

func (s *PostgresStoreSuite) TestExpiredRowsAreInvisible() {
	expired := s.rep("S000148", "Charles Schumer", domain.ChamberSenator, "senior")
	expired.ExpiresAt = s.now.Add(-time.Minute)

	s.Require().NoError(s.store.ReplaceZip(s.ctx, "12601", []domain.Representative{expired}))

	_, err := s.store.FindByZip(s.ctx, "12601")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateActivity() {
	rec := s.rep("S000148", "Charles Schumer", domain.ChamberSenator, "senior")
	s.Require().NoError(s.store.ReplaceZip(s.ctx, "12601", []domain.Representative{rec}))

	bills := []domain.Activity{
		{Date: "2025-01-14", BillTitle: "Broadband Access Act", BillNumber: "S 90", Position: domain.PositionSponsored, Congress: 119},
	}
	newExpiry := s.now.Add(48 * time.Hour)

	updated, err := s.store.UpdateActivity(s.ctx, "12601", "S000148", bills, bills, newExpiry)
	s.Require().NoError(err)
	s.True(updated)

	records, err := s.store.FindByZip(s.ctx, "12601")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Require().Len(records[0].RecentBills, 1)
	s.Equal("S 90", records[0].RecentBills[0].BillNumber)
	s.WithinDuration(newExpiry, records[0].ExpiresAt, time.Second)

	missing, err := s.store.UpdateActivity(s.ctx, "12601", "X000000", bills, bills, newExpiry)
	s.Require().NoError(err)
	s.False(missing)
}

func (s *PostgresStoreSuite) TestDeleteExpiredAndStats() {
	live := s.rep("S000148", "Charles Schumer", domain.ChamberSenator, "senior")
	dead := s.rep("R000579", "Patrick Ryan", domain.ChamberRepresentative, "")
	dead.ExpiresAt = s.now.Add(-time.Hour)

	s.Require().NoError(s.store.ReplaceZip(s.ctx, "12601", []domain.Representative{live, dead}))
	s.Require().NoError(s.store.ReplaceZip(s.ctx, "06516", []domain.Representative{
		s.rep("D000620", "Rosa DeLauro", domain.ChamberRepresentative, ""),
	}))

	stats, err := s.store.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, stats.TotalRepresentatives)
	s.Equal(2, stats.UniqueZipCodes)
	s.Equal(2, stats.ActiveEntries)
	s.Equal(1, stats.Senators)
	s.Equal(1, stats.HouseRepresentatives)

	deleted, err := s.store.DeleteExpired(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), deleted)

	again, err := s.store.DeleteExpired(s.ctx)
	s.Require().NoError(err)
	s.Zero(again)
}
