// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reason implements the reasoning stage: it assembles the evidence,
// numeric findings, and any prior critique into a single prompt, guards the
// call cost by downgrading the model tier when the estimate exceeds the
// configured threshold, and resolves the model's citations against the
// evidence sequence.
package reason

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/birkanzambak/scientific-ai-orchestrator/internal/llm"
	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

const reasonSystem = "You are a rigorous scientific-reasoning assistant. " +
	"Your replies must be JSON only, no prose."

const answerSchema = `{
  "answer": "string",
  "gaps": ["string", ...],
  "roadmap": [
    {
      "priority": 1,
      "research_area": "string",
      "next_milestone": "string",
      "timeline": "6-12 months",
      "success_probability": 0.65
    }
  ],
  "citations": [
    {"doi": "doi-string", "title": "paper-title", "idx": 1}
  ]
}`

// Reasoner produces an evidence-grounded answer.
type Reasoner struct {
	completer llm.Completer
	cfg       types.LLMConfig
	w         io.Writer
}

// New builds a reasoner. w receives cost-guard notices; nil discards them.
func New(completer llm.Completer, cfg types.LLMConfig, w io.Writer) *Reasoner {
	if w == nil {
		w = io.Discard
	}
	return &Reasoner{completer: completer, cfg: cfg, w: w}
}

// rawAnswer mirrors the model's JSON schema before citation resolution.
type rawAnswer struct {
	Answer    string              `json:"answer"`
	Gaps      []string            `json:"gaps"`
	Roadmap   []types.RoadmapItem `json:"roadmap"`
	Citations []rawCitation       `json:"citations"`
}

type rawCitation struct {
	DOI   string `json:"doi"`
	Title string `json:"title"`
	Idx   int    `json:"idx"`
}

// Reason answers the question from the evidence. critique carries the
// verification stage's unsupported claims on the second pass and is empty on
// the first; findings are index-aligned with evidence and may be nil.
func (r *Reasoner) Reason(ctx context.Context, question string, evidence []types.EvidenceItem, findings []types.NumericFinding, critique []string) (*types.Answer, error) {
	prompt := buildPrompt(question, evidence, findings, critique)

	raw, err := r.completer.Complete(ctx, llm.Request{
		System:    reasonSystem,
		User:      prompt,
		Tier:      r.guardedTier(prompt),
		JSONOnly:  true,
		MaxTokens: r.cfg.MaxOutputTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("reasoning over evidence: %w", err)
	}

	var parsed rawAnswer
	if err := llm.ParseResponse(raw, &parsed); err != nil {
		return nil, err
	}

	return &types.Answer{
		Text:          parsed.Answer,
		KnowledgeGaps: parsed.Gaps,
		Roadmap:       parsed.Roadmap,
		Citations:     resolveCitations(parsed.Citations, evidence),
	}, nil
}

// guardedTier estimates the call cost against the fixed output bound and
// downgrades a high-tier call to the low tier when the estimate exceeds the
// threshold. The downgrade applies to this call only.
func (r *Reasoner) guardedTier(prompt string) types.ModelTier {
	tier := r.cfg.Tier
	if tier != types.TierHigh || r.cfg.CostThresholdUSD <= 0 {
		return tier
	}
	est := llm.EstimateCost(llm.RoughTokens(prompt), r.cfg.MaxOutputTokens, tier)
	if est > r.cfg.CostThresholdUSD {
		fmt.Fprintf(r.w, "cost guard: switching to %s (est. $%.3f > $%.2f)\n",
			types.TierLow, est, r.cfg.CostThresholdUSD)
		return types.TierLow
	}
	return tier
}

// buildPrompt renders the question, the numbered evidence block with per-item
// key numbers, the optional critique block, and the response schema.
func buildPrompt(question string, evidence []types.EvidenceItem, findings []types.NumericFinding, critique []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "QUESTION:\n%s\n\nEVIDENCE:\n", question)

	for i, item := range evidence {
		fmt.Fprintf(&b, "%d. %s\n   DOI: %s\n   Summary: %s\n", i+1, item.Title, item.DOI, item.Summary)
		if i < len(findings) {
			writeKeyNumbers(&b, findings[i])
		}
		b.WriteString("\n")
	}

	if len(critique) > 0 {
		b.WriteString("\nA prior review found these claims unsupported; the answer must address these gaps:\n")
		for _, claim := range critique {
			fmt.Fprintf(&b, "- %s\n", claim)
		}
	}

	b.WriteString("\nRespond ONLY with valid JSON matching this schema:\n")
	b.WriteString(answerSchema)
	return b.String()
}

func writeKeyNumbers(b *strings.Builder, f types.NumericFinding) {
	if f.IsEmpty() {
		return
	}
	b.WriteString("   Key Numbers:\n")
	writeNumberLine(b, "Percentages", f.Percentages)
	writeNumberLine(b, "P-values", f.PValues)
	writeNumberLine(b, "Confidence Intervals", f.ConfidenceIntervals)
	writeNumberLine(b, "Sample Sizes", f.SampleSizes)
	writeNumberLine(b, "Effect Sizes", f.EffectSizes)
	writeNumberLine(b, "Statistical Tests", f.StatisticalTests)
}

func writeNumberLine(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "     %s: %s\n", label, strings.Join(values, ", "))
}

// resolveCitations maps model citations onto the evidence sequence. The title
// is taken from the cited evidence item, not the model, and citations whose
// index falls outside [1, len(evidence)] are dropped.
func resolveCitations(raw []rawCitation, evidence []types.EvidenceItem) []types.Citation {
	var out []types.Citation
	for _, c := range raw {
		if c.Idx < 1 || c.Idx > len(evidence) {
			continue
		}
		out = append(out, types.Citation{
			DOI:   c.DOI,
			Title: evidence[c.Idx-1].Title,
			Index: c.Idx,
		})
	}
	return out
}
