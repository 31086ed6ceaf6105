// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evidence

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

var doiURLPrefix = regexp.MustCompile(`^https?://(dx\.)?doi\.org/`)

// NormalizeDOI strips any doi.org URL prefix, trims whitespace, and
// lowercases the identifier so that equivalent DOIs compare equal.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = doiURLPrefix.ReplaceAllString(doi, "")
	return strings.ToLower(doi)
}

// RetractionList holds the normalized DOIs of papers known to be retracted.
type RetractionList struct {
	dois map[string]bool
}

// NewRetractionList builds a list from raw DOI strings, normalizing each.
func NewRetractionList(dois []string) *RetractionList {
	set := make(map[string]bool, len(dois))
	for _, doi := range dois {
		if key := NormalizeDOI(doi); key != "" {
			set[key] = true
		}
	}
	return &RetractionList{dois: set}
}

// Len returns the number of retracted DOIs on the list.
func (l *RetractionList) Len() int {
	return len(l.dois)
}

// Contains reports whether the DOI is on the retraction list.
func (l *RetractionList) Contains(doi string) bool {
	key := NormalizeDOI(doi)
	return key != "" && l.dois[key]
}

// Filter drops retracted items, logging each drop to w. Items without a DOI
// pass through.
func (l *RetractionList) Filter(items []types.EvidenceItem, w io.Writer) []types.EvidenceItem {
	if len(l.dois) == 0 {
		return items
	}
	if w == nil {
		w = io.Discard
	}
	out := items[:0:0]
	for _, item := range items {
		if l.Contains(item.DOI) {
			fmt.Fprintf(w, "dropping retracted paper %s (%s)\n", item.DOI, item.Title)
			continue
		}
		out = append(out, item)
	}
	return out
}
