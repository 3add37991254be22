package domain

import "time"

// Chamber classifies which body a legislator serves in. Legislator is the
// fallback when the upstream type string matches neither chamber.
type Chamber string

const (
	ChamberRepresentative Chamber = "Representative"
	ChamberSenator        Chamber = "Senator"
	ChamberLegislator     Chamber = "Legislator"
)

// Position marks how a member relates to a bill in their activity feed.
type Position string

const (
	PositionSponsored   Position = "Sponsored"
	PositionCosponsored Position = "Cosponsored"
)

// Activity is one item of recent legislative activity: a bill the member
// sponsored or cosponsored, with its latest recorded action. True roll-call
// votes are not available upstream, so sponsorship activity stands in for
// a voting record.
type Activity struct {
	Date         string   `json:"date"`
	BillTitle    string   `json:"bill_title"`
	BillNumber   string   `json:"bill_number"`
	Position     Position `json:"position"`
	LatestAction string   `json:"latest_action"`
	Congress     int      `json:"congress"`
	PolicyArea   string   `json:"policy_area"`
}

// Representative is the canonical cache-resident record for one elected
// official serving a ZIP code. JSON tags double as the serialized layout for
// the activity columns and the API response shape.
type Representative struct {
	BioguideID string `json:"bioguide_id"`
	ZipCode    string `json:"zip_code"`

	Name    string  `json:"name"`
	Party   string  `json:"party"`
	Title   string  `json:"title"` // raw upstream type string, kept for diagnostics
	Chamber Chamber `json:"chamber"`
	// District is nil for Senators. Representatives and fallback Legislators
	// both carry the district number from the ZIP lookup; that asymmetry
	// mirrors the upstream payload.
	District  *int   `json:"district,omitempty"`
	State     string `json:"state"`
	Seniority string `json:"seniority,omitempty"` // senior/junior for Senators, else empty

	Phone         string `json:"phone,omitempty"`
	OfficeAddress string `json:"office_address,omitempty"`
	Website       string `json:"website,omitempty"`
	ContactForm   string `json:"contact_form,omitempty"`
	Twitter       string `json:"twitter,omitempty"`
	Facebook      string `json:"facebook,omitempty"`
	YouTube       string `json:"youtube,omitempty"`
	PhotoURL      string `json:"photo_url,omitempty"`

	// RecentBills holds sponsored bills only; LegislativeActivity holds the
	// full sponsored plus cosponsored feed.
	RecentBills         []Activity `json:"recent_bills"`
	LegislativeActivity []Activity `json:"legislative_activity"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// GroupedRepresentatives partitions a ZIP's officials by chamber for callers
// that render senators and house members separately.
type GroupedRepresentatives struct {
	Senators        []Representative `json:"senators"`
	Representatives []Representative `json:"representative"`
}

// CacheStats is a point-in-time snapshot of the representative cache.
// Total and ZIP counts cover every physical row; the active and chamber
// counts cover only rows still visible to readers.
type CacheStats struct {
	TotalRepresentatives int `json:"total_representatives"`
	UniqueZipCodes       int `json:"unique_zip_codes"`
	ActiveEntries        int `json:"active_entries"`
	Senators             int `json:"senators"`
	HouseRepresentatives int `json:"house_representatives"`
}
