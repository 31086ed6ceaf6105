// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evidence implements the acquisition engine: it queries the
// bibliographic search sources, deduplicates and ranks the candidates, drops
// retracted papers, and adaptively re-queries once when the verification
// stage's quality feedback asks for a retry.
package evidence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"golang.org/x/time/rate"

	"github.com/birkanzambak/scientific-ai-orchestrator/internal/backoff"
	"github.com/birkanzambak/scientific-ai-orchestrator/internal/search"
	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

// maxAdaptiveCap bounds the result cap when the cap-doubling strategy fires.
const maxAdaptiveCap = 20

// QualityAssessor judges how well an evidence set answers the question.
// The verification stage implements it; the engine consumes the feedback
// once per primary acquisition pass.
type QualityAssessor interface {
	AssessEvidenceQuality(ctx context.Context, question string, items []types.EvidenceItem, producer string) (types.VerificationFeedback, error)
}

// Engine acquires ranked evidence for a question. Safe for concurrent use:
// the shared rate limiter synchronizes internally and everything else is
// read-only after construction.
type Engine struct {
	sources   []search.Source
	assessor  QualityAssessor
	cfg       types.EvidenceConfig
	searchCfg types.SearchConfig
	limiter   *rate.Limiter
	retracted *RetractionList
	w         io.Writer

	// now is a test hook for recency scoring.
	now func() time.Time
}

// NewEngine builds an engine over the given sources. assessor may be nil,
// which disables adaptive retry (used by degraded deployments and tests).
func NewEngine(sources []search.Source, assessor QualityAssessor, cfg types.EvidenceConfig, searchCfg types.SearchConfig, w io.Writer) *Engine {
	var limiter *rate.Limiter
	if searchCfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(searchCfg.RatePerSecond), 1)
	}
	if w == nil {
		w = io.Discard
	}
	return &Engine{
		sources:   sources,
		assessor:  assessor,
		cfg:       cfg,
		searchCfg: searchCfg,
		limiter:   limiter,
		retracted: NewRetractionList(cfg.RetractedDOIs),
		w:         w,
	}
}

func (e *Engine) minItems() int {
	if e.cfg.MinItems > 0 {
		return e.cfg.MinItems
	}
	return 3
}

func (e *Engine) clock() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}

// Acquire returns up to cap evidence items, ranked by relevance score
// descending. Fewer than the minimum surviving items after adaptation is an
// InsufficientEvidenceError, unless the degraded stub mode is configured,
// in which case placeholder items are substituted.
func (e *Engine) Acquire(ctx context.Context, question string, kw types.KeywordSet, cap int) ([]types.EvidenceItem, error) {
	items, err := e.acquire(ctx, question, kw, cap, false)
	if err != nil && e.cfg.DegradedStub {
		var ie *InsufficientEvidenceError
		if errors.As(err, &ie) {
			fmt.Fprintf(e.w, "degraded mode: substituting %d stub evidence items\n", e.minItems())
			return stubEvidence(question, e.minItems()), nil
		}
	}
	return items, err
}

// acquire runs one acquisition pass. adapted marks the single allowed
// adaptive recursion; the recursed pass enforces the hard minimum-items gate
// instead of adapting again.
func (e *Engine) acquire(ctx context.Context, question string, kw types.KeywordSet, cap int, adapted bool) ([]types.EvidenceItem, error) {
	if cap <= 0 {
		cap = e.cfg.MaxResults
	}
	if cap <= 0 {
		cap = 5
	}

	// Over-fetch to absorb dedup and retraction losses.
	query := search.Query{
		Keywords:   kw.Keywords,
		MaxResults: 2 * cap,
	}

	candidates, err := search.SearchAll(ctx, query, e.sources, e.searchCfg, e.limiter, e.w)
	if err != nil {
		return nil, err
	}

	deduped := Deduplicate(candidates)
	kept := e.retracted.Filter(deduped, e.w)
	ranked := Rank(kept, e.clock())
	if len(ranked) > cap {
		ranked = ranked[:cap]
	}

	if len(ranked) < e.minItems() {
		if adapted {
			return nil, backoff.NonRetryable(&InsufficientEvidenceError{Found: len(ranked), Minimum: e.minItems()})
		}
		// Short primary pass counts as insufficiency: expand once, then the
		// hard gate applies.
		fmt.Fprintf(e.w, "insufficient results (%d); expanding keywords and re-querying\n", len(ranked))
		return e.acquire(ctx, question, ExpandKeywords(kw, question), cap, true)
	}

	if adapted || e.assessor == nil {
		return ranked, nil
	}

	feedback, err := e.assessor.AssessEvidenceQuality(ctx, question, ranked, "nova")
	if err != nil {
		// The assessment is advisory; a failed check never blocks results.
		fmt.Fprintf(e.w, "warning: evidence quality assessment failed: %v\n", err)
		return ranked, nil
	}
	if !feedback.ShouldRetry {
		return ranked, nil
	}

	// Exactly one adaptation strategy, in priority order.
	switch {
	case mentionsNarrowness(feedback.RetryReason):
		fmt.Fprintf(e.w, "adapting: expanding keywords (%s)\n", feedback.RetryReason)
		return e.acquire(ctx, question, ExpandKeywords(kw, question), cap, true)
	case feedback.QualityScore < 0.7:
		newCap := cap * 2
		if newCap > maxAdaptiveCap {
			newCap = maxAdaptiveCap
		}
		fmt.Fprintf(e.w, "adapting: doubling result cap to %d (quality %.2f)\n", newCap, feedback.QualityScore)
		return e.acquire(ctx, question, kw, newCap, true)
	case len(feedback.Suggestions) > 0:
		fmt.Fprintf(e.w, "adapting: folding %d suggestions into keywords\n", len(feedback.Suggestions))
		return e.acquire(ctx, question, FoldSuggestions(kw, feedback.Suggestions), cap, true)
	default:
		return ranked, nil
	}
}

// Deduplicate removes items whose case-normalized title or normalized DOI
// was already seen. The first occurrence wins and input order is preserved.
func Deduplicate(items []types.EvidenceItem) []types.EvidenceItem {
	seenTitle := make(map[string]bool)
	seenDOI := make(map[string]bool)
	var out []types.EvidenceItem

	for _, item := range items {
		titleKey := normalizeTitle(item.Title)
		doiKey := NormalizeDOI(item.DOI)

		if titleKey != "" && seenTitle[titleKey] {
			continue
		}
		if doiKey != "" && seenDOI[doiKey] {
			continue
		}

		if titleKey != "" {
			seenTitle[titleKey] = true
		}
		if doiKey != "" {
			seenDOI[doiKey] = true
		}
		out = append(out, item)
	}
	return out
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the title.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
