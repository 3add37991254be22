// Package policyhub merges federal register documents and congressional
// bills into a single browsable policy feed, either by curated topic or by
// free-text search.
package policyhub

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"civicbridge/internal/civic/congress"
	"civicbridge/internal/civic/fedreg"
)

const (
	topicFederalCap    = 30
	topicCongressLimit = 30

	searchWindowDays     = 30
	searchFederalPerPage = 15
	searchCongressLimit  = 10

	summaryMaxChars = 200
)

// FederalSource supplies federal register documents.
type FederalSource interface {
	PolicyByTopic(ctx context.Context, topic string) ([]fedreg.Document, error)
	SearchDocuments(ctx context.Context, query string, docTypes []string, daysBack, perPage int) ([]fedreg.Document, error)
}

// CongressSource supplies congressional bills.
type CongressSource interface {
	BillsByTopic(ctx context.Context, topic string, limit int) ([]congress.Bill, error)
	SearchBills(ctx context.Context, query string, limit int) ([]congress.Bill, error)
}

// Policy is one feed item, normalized across both sources.
type Policy struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Date    string `json:"date"`
	Agency  string `json:"agency"`
	Type    string `json:"type"`
	URL     string `json:"url"`
	Source  string `json:"source"`
}

// Feed is a merged, date-sorted policy list with per-source counts.
type Feed struct {
	Policies      []Policy
	FederalCount  int
	CongressCount int
}

type Service struct {
	federal  FederalSource
	congress CongressSource
	logger   *slog.Logger
}

func New(federal FederalSource, congress CongressSource, logger *slog.Logger) *Service {
	return &Service{federal: federal, congress: congress, logger: logger}
}

// ByTopic fetches both sources for a registry topic concurrently and merges
// the results. Congress bills are additionally filtered to those mentioning
// the topic keyword in their title or summary; the per-source counts reflect
// what survives the filter.
func (s *Service) ByTopic(ctx context.Context, topic string) (*Feed, error) {
	var (
		docs  []fedreg.Document
		bills []congress.Bill
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		docs, err = s.federal.PolicyByTopic(gctx, topic)
		return err
	})
	g.Go(func() error {
		var err error
		bills, err = s.congress.BillsByTopic(gctx, topic, topicCongressLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(docs) > topicFederalCap {
		docs = docs[:topicFederalCap]
	}

	matched := bills[:0]
	for _, bill := range bills {
		if mentionsTopic(bill, topic) {
			matched = append(matched, bill)
		}
	}

	s.logger.DebugContext(ctx, "policy hub topic fetched",
		"topic", topic,
		"federal_count", len(docs),
		"congress_count", len(matched),
	)
	return buildFeed(docs, matched), nil
}

// Search runs a free-text query against both sources concurrently. Federal
// results are restricted to the last 30 days; congress search has no window.
func (s *Service) Search(ctx context.Context, query string) (*Feed, error) {
	var (
		docs  []fedreg.Document
		bills []congress.Bill
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		docs, err = s.federal.SearchDocuments(gctx, query, nil, searchWindowDays, searchFederalPerPage)
		return err
	})
	g.Go(func() error {
		var err error
		bills, err = s.congress.SearchBills(gctx, query, searchCongressLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "policy search fetched",
		"query", query,
		"federal_count", len(docs),
		"congress_count", len(bills),
	)
	return buildFeed(docs, bills), nil
}

func mentionsTopic(bill congress.Bill, topic string) bool {
	needle := strings.ToLower(topic)
	return strings.Contains(strings.ToLower(bill.Title), needle) ||
		strings.Contains(strings.ToLower(bill.Summary), needle)
}

func buildFeed(docs []fedreg.Document, bills []congress.Bill) *Feed {
	policies := make([]Policy, 0, len(docs)+len(bills))
	for _, doc := range docs {
		policies = append(policies, fromDocument(doc))
	}
	for _, bill := range bills {
		policies = append(policies, fromBill(bill))
	}

	// Dates are ISO strings, so lexicographic order is chronological; items
	// without a date sink to the end.
	sort.SliceStable(policies, func(i, j int) bool {
		return policies[i].Date > policies[j].Date
	})

	return &Feed{
		Policies:      policies,
		FederalCount:  len(docs),
		CongressCount: len(bills),
	}
}

func fromDocument(doc fedreg.Document) Policy {
	title := doc.Title
	if title == "" {
		title = "No title"
	}
	summary := "No summary available"
	if doc.Abstract != "" {
		summary = truncateSummary(doc.Abstract)
	}
	docType := doc.Type
	if docType == "" {
		docType = "Rule"
	}
	return Policy{
		Title:   title,
		Summary: summary,
		Date:    doc.PublicationDate,
		Agency:  doc.AgencyNames(),
		Type:    docType,
		URL:     doc.HTMLURL,
		Source:  "Federal Register",
	}
}

func fromBill(bill congress.Bill) Policy {
	title := bill.Title
	if title == "" {
		title = "No title"
	}
	return Policy{
		Title:   title,
		Summary: bill.StatusSummary(),
		Date:    bill.UpdateDate,
		Agency:  "U.S. Congress",
		Type:    bill.Identifier(),
		URL:     bill.URL,
		Source:  "Congress",
	}
}

// truncateSummary caps an abstract at 200 characters and always marks it
// with a trailing ellipsis, so feed cards render uniformly.
func truncateSummary(abstract string) string {
	runes := []rune(abstract)
	if len(runes) > summaryMaxChars {
		runes = runes[:summaryMaxChars]
	}
	return string(runes) + "..."
}
