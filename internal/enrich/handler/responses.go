package handler

import (
	"civicbridge/internal/domain"
)

// RepresentativesResponse is the HTTP response body for POST /api/representatives.
type RepresentativesResponse struct {
	Representatives []domain.Representative `json:"representatives"`
	Count           int                     `json:"count"`
	// Source reports whether the roster was served from cache or freshly
	// enriched: "cache" or "live".
	Source string `json:"source"`
}

// MemberDetailsResponse is the HTTP response body for GET /api/representative/{bioguideID}.
type MemberDetailsResponse struct {
	Representative      domain.Member          `json:"representative"`
	LegislativeActivity []domain.Activity      `json:"legislative_activity"`
	Summary             domain.ActivitySummary `json:"summary"`
}

func fromMemberDetails(details *domain.MemberDetails) MemberDetailsResponse {
	activity := details.Activity
	if activity == nil {
		activity = []domain.Activity{}
	}
	return MemberDetailsResponse{
		Representative:      details.Member,
		LegislativeActivity: activity,
		Summary:             domain.Summarize(activity),
	}
}
