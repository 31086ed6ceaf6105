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

const arxivFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v2</id>
    <title>Attention  Is All
 You Need</title>
    <summary> A sequence transduction model based entirely on attention. </summary>
    <published>2023-01-17T12:00:00Z</published>
    <author><name>A. Vaswani</name></author>
    <author><name>N. Shazeer</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/malformed</id>
    <title>Entry Without Parseable ID</title>
    <summary>Skipped.</summary>
    <published>2023-01-17T12:00:00Z</published>
  </entry>
</feed>`

func TestArxivSearchMapsEntries(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search_query"); got == "" {
			t.Errorf("missing search_query parameter")
		}
		w.Write([]byte(arxivFixture))
	}))
	defer ts.Close()

	orig := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = orig }()

	src := &ArxivSource{Client: ts.Client()}
	items, err := src.Search(context.Background(), Query{Keywords: []string{"attention"}}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// The second entry's ID is "malformed" which still parses via /abs/.
	if len(items) < 1 {
		t.Fatal("no items returned")
	}

	first := items[0]
	if first.Title != "Attention Is All You Need" {
		t.Errorf("Title = %q, whitespace not collapsed", first.Title)
	}
	if first.DOI != "10.48550/arXiv.2301.07041" {
		t.Errorf("DOI = %q", first.DOI)
	}
	if first.URL != "https://arxiv.org/abs/2301.07041" {
		t.Errorf("URL = %q", first.URL)
	}
	if first.Source != types.SourcePrimary {
		t.Errorf("Source = %q, want primary", first.Source)
	}
	if len(first.Authors) != 2 {
		t.Errorf("Authors = %v, want 2", first.Authors)
	}
	if first.Published.IsZero() {
		t.Error("Published not parsed")
	}
}

func TestArxivSearchHTTPErrorIsRetryable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	orig := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = orig }()

	src := &ArxivSource{Client: ts.Client()}
	_, err := src.Search(context.Background(), Query{Keywords: []string{"x"}}, testCfg())
	if err == nil {
		t.Fatal("expected error on HTTP 503")
	}
	if !backoff.IsRetryable(err) {
		t.Errorf("HTTP 503 should be retryable, got %v", err)
	}
}

func TestBuildArxivQuery(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{
			"keywords joined with AND",
			Query{Keywords: []string{"quantum computing", "error correction"}},
			"all:quantum+computing+AND+all:error+correction",
		},
		{
			"category filter",
			Query{Keywords: []string{"neurons"}, Categories: []string{"q-bio.NC"}},
			"all:neurons+AND+cat:q-bio.NC",
		},
		{
			"exclusion terms",
			Query{Keywords: []string{"llm"}, Exclude: []string{"survey"}},
			"all:llm+ANDNOT+all:survey",
		},
		{"empty", Query{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildArxivQuery(tt.query); got != tt.want {
				t.Errorf("buildArxivQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"http://example.com/nothing", ""},
	}
	for _, tt := range tests {
		if got := extractArxivID(tt.in); got != tt.want {
			t.Errorf("extractArxivID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
