// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/birkanzambak/scientific-ai-orchestrator/internal/backoff"
	"github.com/birkanzambak/scientific-ai-orchestrator/internal/httputil"
	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivSource queries the arXiv API. arXiv records are preprints, mapped to
// the primary evidence source class.
type ArxivSource struct {
	Client *http.Client
}

// Name returns the source identifier.
func (s *ArxivSource) Name() string { return "arxiv" }

// Search queries the arXiv API and maps the Atom feed into evidence items.
func (s *ArxivSource) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.EvidenceItem, error) {
	q := buildArxivQuery(query)
	if q == "" {
		return nil, backoff.NonRetryablef("empty arXiv query")
	}

	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	url := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, q, maxResults)

	resp, err := httputil.Get(ctx, s.Client, "arXiv API", url, cfg.UserAgent, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, backoff.NonRetryable(fmt.Errorf("parsing arXiv response: %w", err))
	}

	var items []types.EvidenceItem
	for _, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}

		item := types.EvidenceItem{
			Title:   strings.Join(strings.Fields(entry.Title), " "),
			DOI:     "10.48550/arXiv." + arxivID,
			Summary: strings.TrimSpace(entry.Summary),
			URL:     "https://arxiv.org/abs/" + arxivID,
			Source:  types.SourcePrimary,
		}

		for _, a := range entry.Authors {
			item.Authors = append(item.Authors, strings.TrimSpace(a.Name))
		}

		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			item.Published = t
		}

		items = append(items, item)
	}
	return items, nil
}

// buildArxivQuery constructs the search_query parameter from keywords,
// category filters, and exclusion terms.
func buildArxivQuery(q Query) string {
	var parts []string

	for _, kw := range q.Keywords {
		terms := strings.Fields(kw)
		if len(terms) == 0 {
			continue
		}
		parts = append(parts, "all:"+strings.Join(terms, "+"))
	}
	for _, cat := range q.Categories {
		if cat != "" {
			parts = append(parts, "cat:"+cat)
		}
	}

	joined := strings.Join(parts, "+AND+")
	if joined == "" {
		return ""
	}

	for _, ex := range q.Exclude {
		terms := strings.Fields(ex)
		if len(terms) == 0 {
			continue
		}
		joined += "+ANDNOT+all:" + strings.Join(terms, "+")
	}
	return joined
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
