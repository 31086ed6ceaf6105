// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/birkanzambak/scientific-ai-orchestrator/internal/backoff"
	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

const semanticFixture = `{
  "total": 2,
  "offset": 0,
  "data": [
    {
      "paperId": "abc123",
      "title": "CRISPR Screening at Scale",
      "abstract": "Genome-wide screens.",
      "year": 2022,
      "publicationDate": "2022-06-15",
      "authors": [{"authorId": "1", "name": "J. Doe"}],
      "externalIds": {"DOI": "10.1000/crispr.2022"}
    },
    {
      "paperId": "def456",
      "title": "",
      "abstract": "Record without a title is dropped.",
      "year": 2021
    }
  ]
}`

func TestSemanticScholarSearchMapsPapers(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "crispr screening" {
			t.Errorf("query = %q", got)
		}
		if got := r.Header.Get("x-api-key"); got != "sk-test" {
			t.Errorf("x-api-key = %q", got)
		}
		w.Write([]byte(semanticFixture))
	}))
	defer ts.Close()

	orig := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = orig }()

	src := &SemanticScholarSource{Client: ts.Client(), APIKey: "sk-test"}
	items, err := src.Search(context.Background(), Query{Keywords: []string{"crispr", "screening"}}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1 (untitled record dropped)", len(items))
	}

	item := items[0]
	if item.DOI != "10.1000/crispr.2022" {
		t.Errorf("DOI = %q", item.DOI)
	}
	if item.Source != types.SourceSecondary {
		t.Errorf("Source = %q, want secondary", item.Source)
	}
	if item.URL != "https://www.semanticscholar.org/paper/abc123" {
		t.Errorf("URL = %q", item.URL)
	}
	if item.Published.Year() != 2022 || item.Published.Month() != 6 {
		t.Errorf("Published = %v", item.Published)
	}
}

func TestSemanticScholarYearOnlyDate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"total":1,"offset":0,"data":[{"paperId":"x","title":"T","year":2019}]}`))
	}))
	defer ts.Close()

	orig := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = orig }()

	src := &SemanticScholarSource{Client: ts.Client()}
	items, err := src.Search(context.Background(), Query{Keywords: []string{"t"}}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if items[0].Published.Year() != 2019 {
		t.Errorf("Published = %v, want year 2019", items[0].Published)
	}
}

func TestSemanticScholarHTTPErrorIsRetryable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	orig := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = orig }()

	src := &SemanticScholarSource{Client: ts.Client()}
	_, err := src.Search(context.Background(), Query{Keywords: []string{"x"}}, testCfg())
	if err == nil {
		t.Fatal("expected error on HTTP 429")
	}
	if !backoff.IsRetryable(err) {
		t.Errorf("HTTP 429 should be retryable, got %v", err)
	}
}
