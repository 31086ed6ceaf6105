// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify implements the verification stage. It has two jobs: judge
// whether every claim in an answer is backed by its citations, and assess the
// quality of an acquired evidence set for the acquisition engine's adaptive
// retry.
package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/birkanzambak/scientific-ai-orchestrator/internal/llm"
	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

const (
	verifySystem = "You are a strict citation-verification agent. " +
		"Your reply must be valid JSON; do not add commentary."

	assessSystem = "You are a critical evidence quality assessor. " +
		"Your reply must be valid JSON; do not add commentary."

	// summaryClip bounds per-item summary text in the assessment prompt.
	summaryClip = 200
)

// Verifier checks answers and evidence sets with the low-cost model tier.
type Verifier struct {
	completer llm.Completer
	tier      types.ModelTier
}

// New builds a verifier on the given completer and tier.
func New(completer llm.Completer, tier types.ModelTier) *Verifier {
	return &Verifier{completer: completer, tier: tier}
}

// Verify judges whether every claim in the answer is supported by one of its
// citations.
func (v *Verifier) Verify(ctx context.Context, question string, answer *types.Answer) (*types.VerificationResult, error) {
	var citations strings.Builder
	for _, c := range answer.Citations {
		fmt.Fprintf(&citations, "- Citation %d: %s\n", c.Index, c.DOI)
	}

	prompt := fmt.Sprintf(
		"QUESTION:\n%s\n\nANSWER:\n%s\n\nCITATIONS:\n%s\n"+
			"Evaluate whether every claim is fully supported. "+
			"Respond ONLY in valid JSON with this schema:\n"+
			`{"passes": true, "missing_claims": ["claim 1", "claim 2"]}`,
		question, answer.Text, citations.String())

	raw, err := v.completer.Complete(ctx, llm.Request{
		System:   verifySystem,
		User:     prompt,
		Tier:     v.tier,
		JSONOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("verifying answer: %w", err)
	}

	var result types.VerificationResult
	if err := llm.ParseResponse(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AssessEvidenceQuality judges how well the evidence set answers the
// question, on behalf of the named producer. It satisfies the acquisition
// engine's QualityAssessor dependency.
func (v *Verifier) AssessEvidenceQuality(ctx context.Context, question string, items []types.EvidenceItem, producer string) (types.VerificationFeedback, error) {
	var evidence strings.Builder
	for i, item := range items {
		doi := item.DOI
		if doi == "" {
			doi = "N/A"
		}
		fmt.Fprintf(&evidence, "%d. %s\n   DOI: %s\n   Summary: %s\n",
			i+1, item.Title, doi, clip(item.Summary, summaryClip))
	}

	prompt := fmt.Sprintf(
		"QUESTION:\n%s\n\nEVIDENCE FOUND BY %s:\n%s\n"+
			"Evaluate the quality and relevance of this evidence for answering the question. "+
			"Respond ONLY in valid JSON with this schema:\n"+
			`{"should_retry": false, "retry_reason": "string or null", "quality_score": 0.85, "suggestions": ["suggestion 1"]}`,
		question, strings.ToUpper(producer), evidence.String())

	raw, err := v.completer.Complete(ctx, llm.Request{
		System:   assessSystem,
		User:     prompt,
		Tier:     v.tier,
		JSONOnly: true,
	})
	if err != nil {
		return types.VerificationFeedback{}, fmt.Errorf("assessing evidence quality: %w", err)
	}

	var feedback types.VerificationFeedback
	if err := llm.ParseResponse(raw, &feedback); err != nil {
		return types.VerificationFeedback{}, err
	}
	return feedback, nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
