// Package fedreg reads published rules and policy documents from the Federal
// Register API. The API is public and needs no key, only a User-Agent.
package fedreg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	dErrors "civicbridge/pkg/domain-errors"
	"civicbridge/pkg/requestcontext"
)

const (
	defaultBaseURL = "https://www.federalregister.gov/api/v1"
	userAgent      = "CivicBridge/1.0 (Policy Explanation Tool)"

	topicWindowDays = 365
	topicPageSize   = 20
	rulesPageSize   = 10
)

// topicTerms maps hub topics to Federal Register search terms. Register full
// text skews toward agency vocabulary, so the terms name programs and agencies.
var topicTerms = map[string]string{
	"healthcare":      "health care medical insurance Medicare Medicaid",
	"housing":         "housing rental mortgage foreclosure HUD",
	"education":       "education student loan school university college",
	"employment":      "employment job work labor unemployment",
	"taxes":           "tax taxation IRS income deduction credit",
	"environment":     "environment climate energy EPA pollution",
	"transportation":  "transportation highway aviation FAA DOT",
	"immigration":     "immigration visa citizenship border",
	"social_security": "social security disability benefits SSA",
	"veterans":        "veterans VA military benefits",
}

// Config carries the settings for a Client.
type Config struct {
	BaseURL string        // defaults to the public Federal Register API
	Timeout time.Duration // defaults to 10s
}

// Client calls the Federal Register API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New builds a Client from cfg, filling in defaults for unset fields.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Document is the subset of a Federal Register entry the service consumes.
type Document struct {
	Title           string   `json:"title"`
	Abstract        string   `json:"abstract"`
	PublicationDate string   `json:"publication_date"`
	DocumentNumber  string   `json:"document_number"`
	Type            string   `json:"type"`
	HTMLURL         string   `json:"html_url"`
	Agencies        []Agency `json:"agencies"`
}

// Agency names the agency that published a document.
type Agency struct {
	Name string `json:"name"`
}

// AgencyNames joins the document's agency names with ", ".
func (d Document) AgencyNames() string {
	names := make([]string, 0, len(d.Agencies))
	for _, a := range d.Agencies {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}

// FormatForExplanation renders the document as plain text suitable for
// feeding to the policy explainer.
func (d Document) FormatForExplanation() string {
	title := d.Title
	if title == "" {
		title = "Unknown Policy"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n\n", title)
	if names := d.AgencyNames(); names != "" {
		fmt.Fprintf(&sb, "Agency: %s\n", names)
	}
	if d.PublicationDate != "" {
		fmt.Fprintf(&sb, "Published: %s\n", d.PublicationDate)
	}
	if d.DocumentNumber != "" {
		fmt.Fprintf(&sb, "Document Number: %s\n", d.DocumentNumber)
	}
	sb.WriteString("\n")

	if d.Abstract != "" {
		fmt.Fprintf(&sb, "Summary: %s", d.Abstract)
	} else {
		sb.WriteString("This is a federal regulation or policy document. ")
		sb.WriteString("Detailed summary not available in the Federal Register entry.")
	}
	return sb.String()
}

// SearchDocuments queries documents published in the last daysBack days,
// newest first. An empty query matches everything in the window; docTypes
// filters by document type ("RULE", "NOTICE", ...) when non-empty.
func (c *Client) SearchDocuments(ctx context.Context, query string, docTypes []string, daysBack, perPage int) ([]Document, error) {
	now := requestcontext.Now(ctx)
	start := now.AddDate(0, 0, -daysBack)

	q := url.Values{}
	q.Set("conditions[term]", query)
	q.Set("conditions[publication_date][gte]", start.Format("2006-01-02"))
	q.Set("conditions[publication_date][lte]", now.Format("2006-01-02"))
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("order", "newest")
	for _, t := range docTypes {
		q.Add("conditions[type][]", t)
	}

	var payload struct {
		Results []Document `json:"results"`
	}
	if err := c.get(ctx, "/documents.json", q, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// RecentRules lists final rules published in the last daysBack days.
func (c *Client) RecentRules(ctx context.Context, daysBack int) ([]Document, error) {
	return c.SearchDocuments(ctx, "", []string{"RULE"}, daysBack, rulesPageSize)
}

// PolicyByTopic searches the last year of documents using curated terms for
// known topics. Unknown topics fall back to searching on the raw topic string.
func (c *Client) PolicyByTopic(ctx context.Context, topic string) ([]Document, error) {
	term, ok := topicTerms[strings.ToLower(topic)]
	if !ok {
		term = topic
	}
	return c.SearchDocuments(ctx, term, nil, topicWindowDays, topicPageSize)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build federal register request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "federal register request timed out")
		}
		return dErrors.Wrap(err, dErrors.CodeUpstreamUnavailable, "federal register request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return dErrors.New(dErrors.CodeUpstreamUnavailable, fmt.Sprintf("federal register API returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstreamUnavailable, "decode federal register response")
	}
	return nil
}
