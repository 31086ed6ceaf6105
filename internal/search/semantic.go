// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/birkanzambak/scientific-ai-orchestrator/internal/backoff"
	"github.com/birkanzambak/scientific-ai-orchestrator/internal/httputil"
	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,authors,externalIds,year,publicationDate"

// SemanticScholarSource queries the Semantic Scholar API. An aggregator over
// published literature, mapped to the secondary evidence source class.
type SemanticScholarSource struct {
	Client *http.Client
	APIKey string
}

// Name returns the source identifier.
func (s *SemanticScholarSource) Name() string { return "semantic_scholar" }

// Search queries the Semantic Scholar API and maps papers into evidence items.
func (s *SemanticScholarSource) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.EvidenceItem, error) {
	q := strings.Join(query.Keywords, " ")
	if strings.TrimSpace(q) == "" {
		return nil, backoff.NonRetryablef("empty Semantic Scholar query")
	}

	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	params := url.Values{
		"query":  {q},
		"limit":  {fmt.Sprintf("%d", maxResults)},
		"fields": {semanticFields},
	}
	if len(query.Categories) > 0 {
		params.Set("fieldsOfStudy", strings.Join(query.Categories, ","))
	}

	reqURL := semanticAPIBase + "?" + params.Encode()

	var header map[string]string
	if s.APIKey != "" {
		header = map[string]string{"x-api-key": s.APIKey}
	}
	resp, err := httputil.Get(ctx, s.Client, "Semantic Scholar API", reqURL, cfg.UserAgent, header)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, backoff.NonRetryable(fmt.Errorf("parsing Semantic Scholar response: %w", err))
	}

	var items []types.EvidenceItem
	for _, paper := range sr.Data {
		if paper.Title == "" {
			continue
		}

		item := types.EvidenceItem{
			Title:   paper.Title,
			DOI:     paper.ExternalIDs.DOI,
			Summary: paper.Abstract,
			URL:     "https://www.semanticscholar.org/paper/" + paper.PaperID,
			Source:  types.SourceSecondary,
		}

		for _, a := range paper.Authors {
			item.Authors = append(item.Authors, a.Name)
		}

		if paper.PublicationDate != "" {
			if t, parseErr := time.Parse("2006-01-02", paper.PublicationDate); parseErr == nil {
				item.Published = t
			}
		} else if paper.Year > 0 {
			item.Published = time.Date(paper.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		}

		items = append(items, item)
	}
	return items, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID         string              `json:"paperId"`
	Title           string              `json:"title"`
	Abstract        string              `json:"abstract"`
	Year            int                 `json:"year"`
	PublicationDate string              `json:"publicationDate"`
	Authors         []semanticAuthor    `json:"authors"`
	ExternalIDs     semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI      string `json:"DOI"`
	ArXiv    string `json:"ArXiv"`
	CorpusID int    `json:"CorpusId"`
}
