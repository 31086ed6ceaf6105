// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries bibliographic APIs and maps their raw records into
// evidence items. Each source (arXiv, Semantic Scholar) implements the Source
// interface per the Strategy pattern; SearchAll fans the query out to all
// sources concurrently and concatenates results in source order.
package search

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/birkanzambak/scientific-ai-orchestrator/internal/backoff"
	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

// Source searches a single bibliographic API.
type Source interface {
	Name() string
	Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.EvidenceItem, error)
}

// Query holds the search parameters sent to every source.
type Query struct {
	// Keywords are the search terms, ANDed together.
	Keywords []string

	// Categories are optional source-specific category filters
	// (e.g. arXiv "q-bio.NC").
	Categories []string

	// Exclude lists negative terms; items whose title contains one are dropped.
	Exclude []string

	// MaxResults caps the result count per source.
	MaxResults int
}

// IsEmpty reports whether the query contains no searchable terms.
func (q Query) IsEmpty() bool {
	return len(q.Keywords) == 0
}

// SearchAll fans the query out to all sources concurrently and returns the
// combined items, ordered by source registration then source rank. Individual
// source failures are reported as warnings on w; only when every source fails
// does SearchAll return an error, categorized retryable so the caller's
// backoff wrapper takes over.
func SearchAll(ctx context.Context, query Query, sources []Source, cfg types.SearchConfig, limiter *rate.Limiter, w io.Writer) ([]types.EvidenceItem, error) {
	if query.IsEmpty() {
		return nil, backoff.NonRetryablef("search query is empty: no keywords")
	}
	if len(sources) == 0 {
		return nil, backoff.NonRetryablef("no search sources configured")
	}

	type sourceResult struct {
		order int
		items []types.EvidenceItem
		err   error
		name  string
	}

	ch := make(chan sourceResult, len(sources))
	var wg sync.WaitGroup

	for i, s := range sources {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		wg.Add(1)
		go func(order int, s Source) {
			defer wg.Done()
			items, err := s.Search(ctx, query, cfg)
			ch <- sourceResult{order: order, items: items, err: err, name: s.Name()}
		}(i, s)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var results []sourceResult
	var failures []string
	for sr := range ch {
		if sr.err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", sr.name, sr.err))
			fmt.Fprintf(w, "warning: source %s failed: %v\n", sr.name, sr.err)
			continue
		}
		results = append(results, sr)
	}

	if len(results) == 0 {
		return nil, backoff.Retryablef("all search sources failed: %s", strings.Join(failures, "; "))
	}

	// Deterministic concatenation order regardless of goroutine scheduling.
	sort.Slice(results, func(i, j int) bool { return results[i].order < results[j].order })

	var all []types.EvidenceItem
	for _, sr := range results {
		all = append(all, sr.items...)
	}
	return filterExcluded(all, query.Exclude), nil
}

// filterExcluded drops items whose title contains any exclusion term,
// case-insensitively. Sources without server-side negative filters rely on
// this pass.
func filterExcluded(items []types.EvidenceItem, exclude []string) []types.EvidenceItem {
	if len(exclude) == 0 {
		return items
	}
	var kept []types.EvidenceItem
	for _, item := range items {
		title := strings.ToLower(item.Title)
		drop := false
		for _, term := range exclude {
			if term != "" && strings.Contains(title, strings.ToLower(term)) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, item)
		}
	}
	return kept
}
