// Package congress reads bill and member data from the Congress.gov v3 API.
package congress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"civicbridge/internal/domain"
	dErrors "civicbridge/pkg/domain-errors"
	"civicbridge/pkg/requestcontext"
)

const (
	defaultBaseURL = "https://api.congress.gov/v3"

	// defaultCongress is the legislative session queried when callers do not
	// pin one. The 119th Congress covers 2025-2026.
	defaultCongress = 119

	defaultBillLimit = 20
	trendingPoolSize = 50
	trendingMax      = 20
)

// topicTerms maps hub topics to the search terms that surface relevant bills.
// Congress.gov keyword search works best with agency and program names spelled
// out rather than the bare topic word.
var topicTerms = map[string]string{
	"healthcare":      "health care medical insurance Medicare Medicaid hospital",
	"housing":         "housing rental mortgage affordable housing HUD",
	"education":       "education student loan school university college",
	"employment":      "employment job labor unemployment workforce",
	"taxes":           "tax taxation income revenue IRS",
	"environment":     "environment climate energy clean air water EPA",
	"transportation":  "transportation highway infrastructure transit",
	"immigration":     "immigration border visa citizenship DACA",
	"social_security": "social security retirement disability benefits",
	"veterans":        "veterans military VA benefits healthcare",
}

// Config carries the settings for a Client.
type Config struct {
	APIKey   string
	BaseURL  string        // defaults to the public Congress.gov API
	Congress int           // defaults to the 119th
	Timeout  time.Duration // defaults to 10s
}

// Client calls the Congress.gov v3 API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	congress   int
}

// New builds a Client from cfg, filling in defaults for unset fields.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Congress <= 0 {
		cfg.Congress = defaultCongress
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		congress:   cfg.Congress,
	}
}

// RecentBills lists bills from the configured congress, most recently
// updated first.
func (c *Client) RecentBills(ctx context.Context, limit int) ([]Bill, error) {
	return c.listBills(ctx, "", limit)
}

// SearchBills lists bills matching a keyword query, most recently updated first.
func (c *Client) SearchBills(ctx context.Context, query string, limit int) ([]Bill, error) {
	return c.listBills(ctx, query, limit)
}

// BillsByTopic searches bills using curated terms for known topics. Unknown
// topics fall back to searching on the raw topic string.
func (c *Client) BillsByTopic(ctx context.Context, topic string, limit int) ([]Bill, error) {
	term, ok := topicTerms[strings.ToLower(topic)]
	if !ok {
		term = topic
	}
	return c.listBills(ctx, term, limit)
}

// TrendingBills returns bills whose update date falls within the last
// daysBack days, newest first, capped at twenty.
func (c *Client) TrendingBills(ctx context.Context, daysBack int) ([]Bill, error) {
	bills, err := c.RecentBills(ctx, trendingPoolSize)
	if err != nil {
		return nil, err
	}

	cutoff := requestcontext.Now(ctx).AddDate(0, 0, -daysBack)
	trending := make([]Bill, 0, len(bills))
	for _, b := range bills {
		updated, err := parseAPIDate(b.UpdateDate)
		if err != nil {
			continue
		}
		if !updated.Before(cutoff) {
			trending = append(trending, b)
		}
	}
	if len(trending) > trendingMax {
		trending = trending[:trendingMax]
	}
	return trending, nil
}

func (c *Client) listBills(ctx context.Context, query string, limit int) ([]Bill, error) {
	if limit <= 0 {
		limit = defaultBillLimit
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sort", "updateDate+desc")
	if query != "" {
		q.Set("q", query)
	}

	var payload struct {
		Bills []Bill `json:"bills"`
	}
	if err := c.get(ctx, fmt.Sprintf("/bill/%d", c.congress), q, &payload); err != nil {
		return nil, err
	}
	return payload.Bills, nil
}

// ActivityFor merges a member's sponsored and cosponsored legislation into a
// single feed, sorted by introduction date descending and truncated to limit.
func (c *Client) ActivityFor(ctx context.Context, bioguideID string, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = defaultBillLimit
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(limit))

	var sponsored struct {
		Items []memberLegislation `json:"sponsoredLegislation"`
	}
	if err := c.get(ctx, "/member/"+url.PathEscape(bioguideID)+"/sponsored-legislation", q, &sponsored); err != nil {
		return nil, err
	}

	var cosponsored struct {
		Items []memberLegislation `json:"cosponsoredLegislation"`
	}
	if err := c.get(ctx, "/member/"+url.PathEscape(bioguideID)+"/cosponsored-legislation", q, &cosponsored); err != nil {
		return nil, err
	}

	activity := make([]domain.Activity, 0, len(sponsored.Items)+len(cosponsored.Items))
	for _, item := range sponsored.Items {
		activity = append(activity, item.toActivity(domain.PositionSponsored))
	}
	for _, item := range cosponsored.Items {
		activity = append(activity, item.toActivity(domain.PositionCosponsored))
	}

	// ISO dates compare correctly as strings; empty dates sink to the end.
	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].Date > activity[j].Date
	})
	if len(activity) > limit {
		activity = activity[:limit]
	}
	return activity, nil
}

// MemberDetails fetches a member's profile by bioguide ID.
func (c *Client) MemberDetails(ctx context.Context, bioguideID string) (*domain.Member, error) {
	q := url.Values{}
	q.Set("format", "json")

	var payload struct {
		Member memberPayload `json:"member"`
	}
	if err := c.get(ctx, "/member/"+url.PathEscape(bioguideID), q, &payload); err != nil {
		return nil, err
	}

	m := payload.Member
	member := &domain.Member{
		BioguideID: bioguideID,
		Name:       strings.TrimSpace(m.FirstName + " " + m.LastName),
		Party:      m.PartyName,
		State:      m.State,
		District:   m.District,
		OfficeURL:  m.OfficialWebsiteURL,
	}
	if m.Depiction != nil {
		member.PhotoURL = m.Depiction.ImageURL
	}
	// currentMember is a bool on some payloads and an object on others.
	var current struct {
		Chamber string `json:"chamber"`
	}
	if len(m.CurrentMember) > 0 && json.Unmarshal(m.CurrentMember, &current) == nil {
		member.Chamber = current.Chamber
	}
	return member, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build congress request")
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "congress request timed out")
		}
		return dErrors.Wrap(err, dErrors.CodeUpstreamUnavailable, "congress request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return dErrors.New(dErrors.CodeNotFound, "congress resource not found")
	case resp.StatusCode != http.StatusOK:
		return dErrors.New(dErrors.CodeUpstreamUnavailable, fmt.Sprintf("congress API returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstreamUnavailable, "decode congress response")
	}
	return nil
}

func parseAPIDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// memberLegislation is one entry from a member's sponsored or cosponsored
// legislation feed.
type memberLegislation struct {
	Congress       int          `json:"congress"`
	IntroducedDate string       `json:"introducedDate"`
	LatestAction   LatestAction `json:"latestAction"`
	Number         string       `json:"number"`
	PolicyArea     *PolicyArea  `json:"policyArea"`
	Title          string       `json:"title"`
	Type           string       `json:"type"`
}

func (m memberLegislation) toActivity(position domain.Position) domain.Activity {
	a := domain.Activity{
		Date:         m.IntroducedDate,
		BillTitle:    m.Title,
		BillNumber:   strings.TrimSpace(strings.ToUpper(m.Type) + " " + m.Number),
		Position:     position,
		LatestAction: m.LatestAction.Text,
		Congress:     m.Congress,
	}
	if m.PolicyArea != nil {
		a.PolicyArea = m.PolicyArea.Name
	}
	return a
}

type memberPayload struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	PartyName          string `json:"partyName"`
	State              string `json:"state"`
	District           *int   `json:"district"`
	OfficialWebsiteURL string `json:"officialWebsiteUrl"`
	Depiction          *struct {
		ImageURL string `json:"imageUrl"`
	} `json:"depiction"`
	CurrentMember json.RawMessage `json:"currentMember"`
}
