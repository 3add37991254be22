// Package enrich turns ZIP codes into enriched representative records: it
// resolves the congressional district, classifies each legislator, attaches
// their recent legislative activity, and writes the roster through the cache.
package enrich

import (
	"context"
	"log/slog"
	"strings"

	"civicbridge/internal/domain"
	"civicbridge/internal/repcache"
)

const (
	// DefaultMaxLegislators bounds how many district legislators are enriched
	// per lookup. A district normally carries one House member plus two
	// senators.
	DefaultMaxLegislators = 3

	// DefaultActivityLimit caps the per-member activity feed on enrichment.
	DefaultActivityLimit = 5

	// memberActivityLimit caps the feed on direct member detail lookups,
	// which show a longer history than the per-ZIP roster.
	memberActivityLimit = 15
)

// GeoResolver resolves a ZIP code to its congressional district.
type GeoResolver interface {
	Resolve(ctx context.Context, zipCode string) (*domain.District, error)
}

// ActivitySource fetches a member's merged sponsored and cosponsored feed.
type ActivitySource interface {
	ActivityFor(ctx context.Context, bioguideID string, limit int) ([]domain.Activity, error)
}

// MemberDirectory fetches member profiles by bioguide ID.
type MemberDirectory interface {
	MemberDetails(ctx context.Context, bioguideID string) (*domain.Member, error)
}

// Service enriches ZIP codes into cached representative records.
type Service struct {
	geo            GeoResolver
	activity       ActivitySource
	members        MemberDirectory
	cache          *repcache.Cache
	logger         *slog.Logger
	maxLegislators int
	activityLimit  int
}

// New wires an enrichment service. Non-positive limits fall back to the
// package defaults.
func New(geo GeoResolver, activity ActivitySource, members MemberDirectory, cache *repcache.Cache, logger *slog.Logger, maxLegislators, activityLimit int) *Service {
	if maxLegislators <= 0 {
		maxLegislators = DefaultMaxLegislators
	}
	if activityLimit <= 0 {
		activityLimit = DefaultActivityLimit
	}
	return &Service{
		geo:            geo,
		activity:       activity,
		members:        members,
		cache:          cache,
		logger:         logger,
		maxLegislators: maxLegislators,
		activityLimit:  activityLimit,
	}
}

// Result is the outcome of a representative lookup.
type Result struct {
	Representatives []domain.Representative
	FromCache       bool
}

// Representatives returns the representative records for a ZIP code, serving
// from the cache when it holds live rows. forceRefresh skips the cache read
// and re-resolves; the fresh roster replaces the cached one either way.
//
// Resolution failures propagate to the caller and leave the cache untouched.
// A single member's activity fetch failing does not fail the lookup: that
// record is cached with empty feeds.
func (s *Service) Representatives(ctx context.Context, zipCode string, forceRefresh bool) (*Result, error) {
	if !forceRefresh {
		if cached := s.cache.Get(ctx, zipCode); len(cached) > 0 {
			return &Result{Representatives: cached, FromCache: true}, nil
		}
	}

	district, err := s.geo.Resolve(ctx, zipCode)
	if err != nil {
		return nil, err
	}

	legislators := district.Legislators
	if len(legislators) > s.maxLegislators {
		legislators = legislators[:s.maxLegislators]
	}

	records := make([]domain.Representative, 0, len(legislators))
	for _, leg := range legislators {
		records = append(records, s.buildRecord(ctx, district, leg))
	}

	s.cache.Put(ctx, zipCode, records)
	return &Result{Representatives: records}, nil
}

// MemberDetails returns a member's profile together with their recent
// legislative activity.
func (s *Service) MemberDetails(ctx context.Context, bioguideID string) (*domain.MemberDetails, error) {
	member, err := s.members.MemberDetails(ctx, bioguideID)
	if err != nil {
		return nil, err
	}

	activity, err := s.activity.ActivityFor(ctx, bioguideID, memberActivityLimit)
	if err != nil {
		return nil, err
	}

	return &domain.MemberDetails{Member: *member, Activity: activity}, nil
}

func (s *Service) buildRecord(ctx context.Context, district *domain.District, leg domain.DistrictLegislator) domain.Representative {
	chamber := ClassifyChamber(leg.Type)
	rec := domain.Representative{
		BioguideID:    leg.References.BioguideID,
		ZipCode:       district.ZipCode,
		Name:          strings.TrimSpace(leg.Bio.FirstName + " " + leg.Bio.LastName),
		Party:         leg.Bio.Party,
		Title:         leg.Type,
		Chamber:       chamber,
		District:      districtFor(chamber, district.Number),
		State:         district.State,
		Phone:         leg.Contact.Phone,
		OfficeAddress: leg.Contact.Address,
		Website:       leg.Contact.URL,
		ContactForm:   leg.Contact.ContactForm,
		Twitter:       leg.Social.Twitter,
		Facebook:      leg.Social.Facebook,
		YouTube:       leg.Social.YouTube,
		PhotoURL:      leg.Bio.PhotoURL,
	}

	// Without a bioguide ID there is nothing to query activity for.
	if rec.BioguideID == "" {
		return rec
	}

	feed, err := s.activity.ActivityFor(ctx, rec.BioguideID, s.activityLimit)
	if err != nil {
		s.logger.WarnContext(ctx, "legislative activity fetch failed",
			"bioguide_id", rec.BioguideID,
			"zip_code", district.ZipCode,
			"error", err,
		)
		return rec
	}

	rec.LegislativeActivity = feed
	for _, item := range feed {
		if item.Position == domain.PositionSponsored {
			rec.RecentBills = append(rec.RecentBills, item)
		}
	}
	return rec
}
