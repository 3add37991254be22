package enrich

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"civicbridge/internal/domain"
	"civicbridge/internal/repcache"
	dErrors "civicbridge/pkg/domain-errors"
	"civicbridge/pkg/requestcontext"
)

type stubResolver struct {
	district *domain.District
	err      error
	calls    int
}

func (s *stubResolver) Resolve(ctx context.Context, zipCode string) (*domain.District, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.district, nil
}

type stubActivity struct {
	feeds     map[string][]domain.Activity
	errFor    map[string]error
	calls     int
	lastLimit int
}

func (s *stubActivity) ActivityFor(ctx context.Context, bioguideID string, limit int) ([]domain.Activity, error) {
	s.calls++
	s.lastLimit = limit
	if err := s.errFor[bioguideID]; err != nil {
		return nil, err
	}
	return s.feeds[bioguideID], nil
}

type stubMembers struct {
	member *domain.Member
	err    error
	calls  int
}

func (s *stubMembers) MemberDetails(ctx context.Context, bioguideID string) (*domain.Member, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.member, nil
}

type ServiceSuite struct {
	suite.Suite

	ctx      context.Context
	now      time.Time
	cache    *repcache.Cache
	resolver *stubResolver
	activity *stubActivity
	members  *stubMembers
	service  *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.cache = repcache.NewCache(repcache.NewInMemoryStore(), 24*time.Hour, logger, nil)

	s.resolver = &stubResolver{district: s.hudsonValleyDistrict()}
	s.activity = &stubActivity{
		feeds: map[string][]domain.Activity{
			"R000579": {
				{Date: "2025-01-12", BillTitle: "Hudson Valley Flood Relief Act", BillNumber: "HR 1234", Position: domain.PositionSponsored, Congress: 119},
				{Date: "2025-01-10", BillTitle: "Veterans Dental Care Act", BillNumber: "S 456", Position: domain.PositionCosponsored, Congress: 119},
			},
			"S000148": {
				{Date: "2025-01-08", BillTitle: "Rail Safety Act", BillNumber: "S 77", Position: domain.PositionSponsored, Congress: 119},
			},
		},
		errFor: map[string]error{},
	}
	s.members = &stubMembers{}
	s.service = New(s.resolver, s.activity, s.members, s.cache, logger, 3, 5)
}

func (s *ServiceSuite) hudsonValleyDistrict() *domain.District {
	legislator := func(legType, first, last, bioguide string) domain.DistrictLegislator {
		return domain.DistrictLegislator{
			Type:       legType,
			Bio:        domain.LegislatorBio{FirstName: first, LastName: last, Party: "Democrat"},
			Contact:    domain.LegislatorContact{Phone: "202-555-0101", URL: "https://example.test/" + bioguide},
			Social:     domain.LegislatorSocial{Twitter: "@" + bioguide},
			References: domain.LegislatorReferences{BioguideID: bioguide},
		}
	}
	return &domain.District{
		ZipCode: "12601",
		City:    "Poughkeepsie",
		State:   "NY",
		Number:  18,
		Legislators: []domain.DistrictLegislator{
			legislator("representative", "Patrick", "Ryan", "R000579"),
			legislator("senator", "Charles", "Schumer", "S000148"),
			legislator("senator", "Kirsten", "Gillibrand", "G000555"),
		},
	}
}

func (s *ServiceSuite) TestRepresentatives() {
	s.Run("enriches a cold zip and classifies each legislator", func() {
		s.SetupTest()

		result, err := s.service.Representatives(s.ctx, "12601", false)
		s.NoError(err)
		s.False(result.FromCache)
		s.Len(result.Representatives, 3)

		rep := result.Representatives[0]
		s.Equal("R000579", rep.BioguideID)
		s.Equal("Patrick Ryan", rep.Name)
		s.Equal(domain.ChamberRepresentative, rep.Chamber)
		s.Require().NotNil(rep.District)
		s.Equal(18, *rep.District)
		s.Equal("NY", rep.State)
		s.Equal("202-555-0101", rep.Phone)

		s.Len(rep.LegislativeActivity, 2)
		s.Require().Len(rep.RecentBills, 1)
		s.Equal("HR 1234", rep.RecentBills[0].BillNumber)

		schumer := result.Representatives[1]
		s.Equal(domain.ChamberSenator, schumer.Chamber)
		s.Nil(schumer.District)

		gillibrand := result.Representatives[2]
		s.Equal("G000555", gillibrand.BioguideID)
		s.Empty(gillibrand.LegislativeActivity)
	})

	s.Run("serves the second call from cache without upstream calls", func() {
		s.SetupTest()

		_, err := s.service.Representatives(s.ctx, "12601", false)
		s.NoError(err)
		resolverCalls, activityCalls := s.resolver.calls, s.activity.calls

		result, err := s.service.Representatives(s.ctx, "12601", false)
		s.NoError(err)
		s.True(result.FromCache)
		s.Len(result.Representatives, 3)
		s.Equal(resolverCalls, s.resolver.calls)
		s.Equal(activityCalls, s.activity.calls)
	})

	s.Run("one legislator with two sponsored bills", func() {
		s.SetupTest()
		s.resolver.district = &domain.District{
			ZipCode: "06516",
			State:   "CT",
			Number:  3,
			Legislators: []domain.DistrictLegislator{{
				Type:       "representative",
				Bio:        domain.LegislatorBio{FirstName: "Rosa", LastName: "DeLauro"},
				References: domain.LegislatorReferences{BioguideID: "D000620"},
			}},
		}
		s.activity.feeds["D000620"] = []domain.Activity{
			{Date: "2025-01-11", BillTitle: "Appropriations Act", BillNumber: "HR 2", Position: domain.PositionSponsored},
			{Date: "2025-01-09", BillTitle: "Child Nutrition Act", BillNumber: "HR 9", Position: domain.PositionSponsored},
		}

		result, err := s.service.Representatives(s.ctx, "06516", false)
		s.NoError(err)
		s.Require().Len(result.Representatives, 1)
		rec := result.Representatives[0]
		s.Equal(domain.ChamberRepresentative, rec.Chamber)
		s.Require().NotNil(rec.District)
		s.Equal(3, *rec.District)
		s.Len(rec.RecentBills, 2)

		resolverCalls, activityCalls := s.resolver.calls, s.activity.calls
		again, err := s.service.Representatives(s.ctx, "06516", false)
		s.NoError(err)
		s.True(again.FromCache)
		s.Equal(resolverCalls, s.resolver.calls)
		s.Equal(activityCalls, s.activity.calls)
	})

	s.Run("a single failing activity fetch leaves that record empty", func() {
		s.SetupTest()
		s.activity.errFor["S000148"] = dErrors.New(dErrors.CodeUpstreamUnavailable, "congress API returned status 500")

		result, err := s.service.Representatives(s.ctx, "12601", true)
		s.NoError(err)
		s.Require().Len(result.Representatives, 3)

		s.NotEmpty(result.Representatives[0].LegislativeActivity)
		s.Empty(result.Representatives[1].RecentBills)
		s.Empty(result.Representatives[1].LegislativeActivity)
		s.Equal("S000148", result.Representatives[1].BioguideID)
	})

	s.Run("resolution failures propagate and leave the cache cold", func() {
		s.SetupTest()
		s.resolver.err = dErrors.New(dErrors.CodeResolutionFailed, "No results found for ZIP code 99999.")

		_, err := s.service.Representatives(s.ctx, "99999", false)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeResolutionFailed))
		s.Empty(s.cache.Get(s.ctx, "99999"))
	})

	s.Run("force refresh re-resolves and replaces the cached roster", func() {
		s.SetupTest()

		_, err := s.service.Representatives(s.ctx, "12601", false)
		s.NoError(err)

		s.resolver.district.Legislators[0].Contact.Phone = "202-555-0999"
		result, err := s.service.Representatives(s.ctx, "12601", true)
		s.NoError(err)
		s.False(result.FromCache)
		s.Equal(2, s.resolver.calls)
		s.Equal("202-555-0999", result.Representatives[0].Phone)

		cached := s.cache.Get(s.ctx, "12601")
		s.Require().Len(cached, 3)
		s.Equal("202-555-0999", cached[0].Phone)
	})

	s.Run("roster is bounded to the configured maximum", func() {
		s.SetupTest()

		extra := s.hudsonValleyDistrict()
		extra.Legislators = append(extra.Legislators,
			domain.DistrictLegislator{Type: "delegate", References: domain.LegislatorReferences{BioguideID: "X000001"}},
			domain.DistrictLegislator{Type: "delegate", References: domain.LegislatorReferences{BioguideID: "X000002"}},
		)
		s.resolver.district = extra

		result, err := s.service.Representatives(s.ctx, "12601", true)
		s.NoError(err)
		s.Len(result.Representatives, 3)
	})

	s.Run("legislators without a bioguide id are cached without activity lookups", func() {
		s.SetupTest()
		s.resolver.district = &domain.District{
			ZipCode: "73301",
			State:   "TX",
			Number:  35,
			Legislators: []domain.DistrictLegislator{{
				Type: "representative",
				Bio:  domain.LegislatorBio{FirstName: "Jane", LastName: "Doe"},
			}},
		}

		before := s.activity.calls
		result, err := s.service.Representatives(s.ctx, "73301", false)
		s.NoError(err)
		s.Require().Len(result.Representatives, 1)
		s.Empty(result.Representatives[0].BioguideID)
		s.Empty(result.Representatives[0].LegislativeActivity)
		s.Equal(before, s.activity.calls)
	})
}

func (s *ServiceSuite) TestMemberDetails() {
	s.Run("pairs the profile with a longer activity feed", func() {
		s.SetupTest()

		district := 18
		s.members.member = &domain.Member{
			BioguideID: "R000579",
			Name:       "Patrick Ryan",
			Party:      "Democratic",
			State:      "New York",
			District:   &district,
			Chamber:    "House of Representatives",
		}

		details, err := s.service.MemberDetails(s.ctx, "R000579")
		s.NoError(err)
		s.Equal("Patrick Ryan", details.Member.Name)
		s.Len(details.Activity, 2)
		s.Equal(15, s.activity.lastLimit)
	})

	s.Run("propagates unknown members", func() {
		s.SetupTest()
		s.members.err = dErrors.New(dErrors.CodeNotFound, "congress resource not found")

		_, err := s.service.MemberDetails(s.ctx, "X000000")
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("propagates activity failures", func() {
		s.SetupTest()
		s.members.member = &domain.Member{BioguideID: "S000148", Name: "Charles Schumer"}
		s.activity.errFor["S000148"] = dErrors.New(dErrors.CodeUpstreamUnavailable, "congress API returned status 502")

		_, err := s.service.MemberDetails(s.ctx, "S000148")
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeUpstreamUnavailable))
	})
}

func TestNewAppliesDefaults(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := repcache.NewCache(repcache.NewInMemoryStore(), 0, logger, nil)
	svc := New(&stubResolver{}, &stubActivity{}, &stubMembers{}, cache, logger, 0, 0)

	assert.Equal(t, DefaultMaxLegislators, svc.maxLegislators)
	assert.Equal(t, DefaultActivityLimit, svc.activityLimit)
}
