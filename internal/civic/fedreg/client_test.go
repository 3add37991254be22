package fedreg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "civicbridge/pkg/domain-errors"
	"civicbridge/pkg/requestcontext"
)

func fixedCtx() context.Context {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	return requestcontext.WithTime(context.Background(), now)
}

func TestSearchDocuments(t *testing.T) {
	t.Run("builds the documents query with a date window", func(t *testing.T) {
		var gotQuery url.Values
		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/documents.json", r.URL.Path)
			gotQuery = r.URL.Query()
			gotUA = r.Header.Get("User-Agent")
			_, _ = w.Write([]byte(`{"count": 1, "results": [
				{"title": "Student Loan Relief Extension", "abstract": "Extends forbearance.", "publication_date": "2025-01-10", "document_number": "2025-00123", "type": "Rule", "html_url": "https://example.test/doc", "agencies": [{"name": "Department of Education"}]}
			]}`))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL})
		docs, err := client.SearchDocuments(fixedCtx(), "student loan", nil, 90, 20)
		require.NoError(t, err)

		assert.Equal(t, "student loan", gotQuery.Get("conditions[term]"))
		assert.Equal(t, "2024-10-17", gotQuery.Get("conditions[publication_date][gte]"))
		assert.Equal(t, "2025-01-15", gotQuery.Get("conditions[publication_date][lte]"))
		assert.Equal(t, "20", gotQuery.Get("per_page"))
		assert.Equal(t, "newest", gotQuery.Get("order"))
		assert.Equal(t, "CivicBridge/1.0 (Policy Explanation Tool)", gotUA)

		require.Len(t, docs, 1)
		assert.Equal(t, "Student Loan Relief Extension", docs[0].Title)
		assert.Equal(t, "Department of Education", docs[0].AgencyNames())
	})

	t.Run("recent rules filter on the RULE type", func(t *testing.T) {
		var gotQuery url.Values
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			_, _ = w.Write([]byte(`{"results": []}`))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL})
		_, err := client.RecentRules(fixedCtx(), 14)
		require.NoError(t, err)

		assert.Equal(t, []string{"RULE"}, gotQuery["conditions[type][]"])
		assert.Equal(t, "10", gotQuery.Get("per_page"))
		assert.Empty(t, gotQuery.Get("conditions[term]"))
		assert.Equal(t, "2025-01-01", gotQuery.Get("conditions[publication_date][gte]"))
	})

	t.Run("topics expand to curated terms over a one year window", func(t *testing.T) {
		var gotQuery url.Values
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			_, _ = w.Write([]byte(`{"results": []}`))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL})
		_, err := client.PolicyByTopic(fixedCtx(), "veterans")
		require.NoError(t, err)
		assert.Equal(t, "veterans VA military benefits", gotQuery.Get("conditions[term]"))
		assert.Equal(t, "2024-01-16", gotQuery.Get("conditions[publication_date][gte]"))

		_, err = client.PolicyByTopic(fixedCtx(), "broadband")
		require.NoError(t, err)
		assert.Equal(t, "broadband", gotQuery.Get("conditions[term]"))
	})

	t.Run("upstream failures carry upstream_unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL})
		_, err := client.SearchDocuments(fixedCtx(), "anything", nil, 30, 20)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeUpstreamUnavailable))
	})
}

func TestFormatForExplanation(t *testing.T) {
	t.Run("renders the full document header and summary", func(t *testing.T) {
		doc := Document{
			Title:           "Clean Air Standards Update",
			Abstract:        "Tightens particulate matter limits for power plants.",
			PublicationDate: "2025-01-08",
			DocumentNumber:  "2025-00456",
			Agencies:        []Agency{{Name: "Environmental Protection Agency"}},
		}

		text := doc.FormatForExplanation()
		assert.Contains(t, text, "Title: Clean Air Standards Update")
		assert.Contains(t, text, "Agency: Environmental Protection Agency")
		assert.Contains(t, text, "Published: 2025-01-08")
		assert.Contains(t, text, "Document Number: 2025-00456")
		assert.Contains(t, text, "Summary: Tightens particulate matter limits for power plants.")
	})

	t.Run("falls back when the abstract is missing", func(t *testing.T) {
		doc := Document{Title: "Untitled Notice"}
		text := doc.FormatForExplanation()
		assert.Contains(t, text, "Detailed summary not available in the Federal Register entry.")
	})

	t.Run("joins multiple agencies", func(t *testing.T) {
		doc := Document{
			Agencies: []Agency{{Name: "Department of the Treasury"}, {Name: "Internal Revenue Service"}},
		}
		assert.Equal(t, "Department of the Treasury, Internal Revenue Service", doc.AgencyNames())
	})
}
