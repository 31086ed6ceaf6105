// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evidence

import (
	"regexp"
	"strings"

	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

const (
	// expandedKeywordCap bounds the keyword set after narrowness expansion.
	expandedKeywordCap = 10

	// foldedKeywordCap bounds the keyword set after suggestion folding.
	foldedKeywordCap = 8

	// maxSuggestionTerms bounds how many terms are taken from suggestions.
	maxSuggestionTerms = 5

	// minTermLength filters trivial words out of suggestion text.
	minTermLength = 4
)

// narrownessPattern matches feedback language that indicates the query was
// too narrow or returned too little.
var narrownessPattern = regexp.MustCompile(`(?i)\b(narrow|too specific|insufficient|too few|limited|sparse)\b`)

// mentionsNarrowness reports whether the retry reason uses narrowness or
// insufficiency language.
func mentionsNarrowness(reason string) bool {
	return reason != "" && narrownessPattern.MatchString(reason)
}

// stopWords are filtered out of suggestion text before folding terms into
// the keyword set.
var stopWords = map[string]bool{
	"about": true, "adding": true, "also": true, "consider": true,
	"could": true, "focus": true, "from": true, "have": true,
	"include": true, "into": true, "more": true, "papers": true,
	"query": true, "results": true, "search": true, "should": true,
	"some": true, "terms": true, "that": true, "their": true,
	"them": true, "these": true, "this": true, "those": true,
	"using": true, "what": true, "when": true, "where": true,
	"which": true, "with": true, "would": true,
}

// ExpandKeywords appends methodology, comparison, and temporal terms
// inferred from the question type and phrasing. The result is deduplicated
// case-insensitively and capped at ten keywords.
func ExpandKeywords(kw types.KeywordSet, question string) types.KeywordSet {
	q := strings.ToLower(question)

	extra := []string{"methodology"}
	switch kw.QuestionType {
	case types.QuestionCausal, types.QuestionMechanism:
		extra = append(extra, "mechanism", "pathway")
	case types.QuestionComparative:
		extra = append(extra, "comparison")
	case types.QuestionPrediction:
		extra = append(extra, "trend", "longitudinal")
	}
	if strings.Contains(q, "compare") || strings.Contains(q, "versus") || strings.Contains(q, " vs ") {
		extra = append(extra, "comparison")
	}
	if strings.Contains(q, "over time") || strings.Contains(q, "future") || strings.Contains(q, "will ") {
		extra = append(extra, "temporal")
	}

	return types.KeywordSet{
		QuestionType: kw.QuestionType,
		Keywords:     appendKeywords(kw.Keywords, extra, expandedKeywordCap),
	}
}

// FoldSuggestions extracts up to five meaningful terms from the feedback
// suggestions (length > 3, stop words dropped) and folds them into the
// keyword set, capped at eight keywords.
func FoldSuggestions(kw types.KeywordSet, suggestions []string) types.KeywordSet {
	var terms []string
	for _, s := range suggestions {
		for _, field := range strings.Fields(s) {
			term := strings.ToLower(strings.Trim(field, `.,;:'"()[]`))
			if len(term) < minTermLength || stopWords[term] {
				continue
			}
			terms = append(terms, term)
			if len(terms) == maxSuggestionTerms {
				break
			}
		}
		if len(terms) == maxSuggestionTerms {
			break
		}
	}

	return types.KeywordSet{
		QuestionType: kw.QuestionType,
		Keywords:     appendKeywords(kw.Keywords, terms, foldedKeywordCap),
	}
}

// appendKeywords appends extra terms to existing keywords, deduplicating
// case-insensitively while preserving order, up to the cap.
func appendKeywords(existing, extra []string, cap int) []string {
	seen := make(map[string]bool, len(existing))
	out := make([]string, 0, cap)
	for _, kw := range existing {
		key := strings.ToLower(kw)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, kw)
		if len(out) == cap {
			return out
		}
	}
	for _, kw := range extra {
		key := strings.ToLower(kw)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, kw)
		if len(out) == cap {
			break
		}
	}
	return out
}
