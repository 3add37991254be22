package domain

// Member is the detailed profile of one member of Congress, looked up by
// bioguide ID rather than by ZIP code.
type Member struct {
	BioguideID string `json:"bioguide_id"`
	Name       string `json:"name"`
	Party      string `json:"party"`
	State      string `json:"state"`
	District   *int   `json:"district"`
	OfficeURL  string `json:"office_url"`
	PhotoURL   string `json:"photo_url"`
	Chamber    string `json:"chamber"`
}

// MemberDetails pairs a member profile with their recent legislative activity.
type MemberDetails struct {
	Member   Member
	Activity []Activity
}

// ActivitySummary aggregates an activity feed by position.
type ActivitySummary struct {
	TotalItems       int `json:"total_items"`
	SponsoredCount   int `json:"sponsored_count"`
	CosponsoredCount int `json:"cosponsored_count"`
}

// Summarize computes the position breakdown for an activity feed.
func Summarize(activity []Activity) ActivitySummary {
	s := ActivitySummary{TotalItems: len(activity)}
	for _, item := range activity {
		switch item.Position {
		case PositionSponsored:
			s.SponsoredCount++
		case PositionCosponsored:
			s.CosponsoredCount++
		}
	}
	return s
}
