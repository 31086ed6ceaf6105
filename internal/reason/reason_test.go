// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reason

import (
	"context"
	"strings"
	"testing"

	"github.com/birkanzambak/scientific-ai-orchestrator/internal/backoff"
	"github.com/birkanzambak/scientific-ai-orchestrator/internal/llm"
	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

type mockCompleter struct {
	response string
	err      error
	requests []llm.Request
}

func (m *mockCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	m.requests = append(m.requests, req)
	return m.response, m.err
}

func testEvidence() []types.EvidenceItem {
	return []types.EvidenceItem{
		{Title: "First Paper", DOI: "10.1/first", Summary: "Effect observed in 42% of cases."},
		{Title: "Second Paper", DOI: "10.1/second", Summary: "No effect."},
	}
}

func testLLMConfig() types.LLMConfig {
	return types.LLMConfig{
		Tier:             types.TierHigh,
		CostThresholdUSD: 0.05,
		MaxOutputTokens:  1000,
	}
}

const answerFixture = `{
  "answer": "The evidence supports a moderate effect.",
  "gaps": ["long-term outcomes unknown"],
  "roadmap": [
    {"priority": 1, "research_area": "longitudinal studies", "next_milestone": "cohort registry", "timeline": "6-12 months", "success_probability": 0.65}
  ],
  "citations": [
    {"doi": "10.1/first", "title": "model-invented title", "idx": 1},
    {"doi": "10.1/bogus", "title": "out of range", "idx": 3},
    {"doi": "10.1/zero", "title": "zero index", "idx": 0}
  ]
}`

func TestReasonParsesAnswer(t *testing.T) {
	mock := &mockCompleter{response: answerFixture}
	r := New(mock, testLLMConfig(), nil)

	ans, err := r.Reason(context.Background(), "does x work?", testEvidence(), nil, nil)
	if err != nil {
		t.Fatalf("Reason: %v", err)
	}
	if ans.Text != "The evidence supports a moderate effect." {
		t.Errorf("Text = %q", ans.Text)
	}
	if len(ans.KnowledgeGaps) != 1 || len(ans.Roadmap) != 1 {
		t.Errorf("gaps = %v, roadmap = %v", ans.KnowledgeGaps, ans.Roadmap)
	}
	if ans.Roadmap[0].SuccessProbability != 0.65 {
		t.Errorf("SuccessProbability = %v", ans.Roadmap[0].SuccessProbability)
	}
}

func TestReasonResolvesCitationsAgainstEvidence(t *testing.T) {
	mock := &mockCompleter{response: answerFixture}
	r := New(mock, testLLMConfig(), nil)

	ans, err := r.Reason(context.Background(), "q", testEvidence(), nil, nil)
	if err != nil {
		t.Fatalf("Reason: %v", err)
	}
	if len(ans.Citations) != 1 {
		t.Fatalf("Citations = %v, want out-of-range indices dropped", ans.Citations)
	}
	c := ans.Citations[0]
	if c.Index != 1 || c.DOI != "10.1/first" {
		t.Errorf("citation = %+v", c)
	}
	if c.Title != "First Paper" {
		t.Errorf("Title = %q, want the evidence title, not the model's", c.Title)
	}
}

func TestReasonPromptIncludesKeyNumbers(t *testing.T) {
	mock := &mockCompleter{response: answerFixture}
	r := New(mock, testLLMConfig(), nil)

	findings := []types.NumericFinding{
		{Percentages: []string{"42%"}, SampleSizes: []string{"n = 100"}},
		{},
	}
	if _, err := r.Reason(context.Background(), "q", testEvidence(), findings, nil); err != nil {
		t.Fatalf("Reason: %v", err)
	}

	prompt := mock.requests[0].User
	if !strings.Contains(prompt, "Key Numbers:") {
		t.Error("prompt missing Key Numbers block")
	}
	if !strings.Contains(prompt, "Percentages: 42%") {
		t.Error("prompt missing percentage line")
	}
	if !strings.Contains(prompt, "Sample Sizes: n = 100") {
		t.Error("prompt missing sample size line")
	}
	if strings.Count(prompt, "Key Numbers:") != 1 {
		t.Error("empty finding must not produce a Key Numbers block")
	}
	if !strings.Contains(prompt, "1. First Paper") || !strings.Contains(prompt, "2. Second Paper") {
		t.Error("prompt missing numbered evidence")
	}
	if !strings.Contains(prompt, "JSON") {
		t.Error("JSON mode requires the word JSON in the prompt")
	}
}

func TestReasonPromptIncludesCritique(t *testing.T) {
	mock := &mockCompleter{response: answerFixture}
	r := New(mock, testLLMConfig(), nil)

	critique := []string{"claim about dosage is unsupported"}
	if _, err := r.Reason(context.Background(), "q", testEvidence(), nil, critique); err != nil {
		t.Fatalf("Reason: %v", err)
	}
	prompt := mock.requests[0].User
	if !strings.Contains(prompt, "must address these gaps") {
		t.Error("prompt missing critique preamble")
	}
	if !strings.Contains(prompt, "- claim about dosage is unsupported") {
		t.Error("prompt missing critique claim")
	}
}

func TestReasonCostGuardDowngrades(t *testing.T) {
	cfg := testLLMConfig()
	// Output cost alone on the high tier is $0.01, above this threshold.
	cfg.CostThresholdUSD = 0.005

	mock := &mockCompleter{response: answerFixture}
	var log strings.Builder
	r := New(mock, cfg, &log)

	if _, err := r.Reason(context.Background(), "q", testEvidence(), nil, nil); err != nil {
		t.Fatalf("Reason: %v", err)
	}
	if got := mock.requests[0].Tier; got != types.TierLow {
		t.Errorf("Tier = %q, want downgrade to low tier", got)
	}
	if !strings.Contains(log.String(), "cost guard") {
		t.Errorf("log = %q, want cost guard notice", log.String())
	}
}

func TestReasonCostGuardKeepsHighTierUnderThreshold(t *testing.T) {
	mock := &mockCompleter{response: answerFixture}
	r := New(mock, testLLMConfig(), nil)

	if _, err := r.Reason(context.Background(), "q", testEvidence(), nil, nil); err != nil {
		t.Fatalf("Reason: %v", err)
	}
	if got := mock.requests[0].Tier; got != types.TierHigh {
		t.Errorf("Tier = %q, want high tier retained", got)
	}
}

func TestReasonCostGuardNeverUpgradesLowTier(t *testing.T) {
	cfg := testLLMConfig()
	cfg.Tier = types.TierLow
	cfg.CostThresholdUSD = 0.000001

	mock := &mockCompleter{response: answerFixture}
	r := New(mock, cfg, nil)

	if _, err := r.Reason(context.Background(), "q", testEvidence(), nil, nil); err != nil {
		t.Fatalf("Reason: %v", err)
	}
	if got := mock.requests[0].Tier; got != types.TierLow {
		t.Errorf("Tier = %q, want low tier unchanged", got)
	}
}

func TestReasonMalformedJSONIsNonRetryable(t *testing.T) {
	mock := &mockCompleter{response: "I think the answer is..."}
	r := New(mock, testLLMConfig(), nil)

	_, err := r.Reason(context.Background(), "q", testEvidence(), nil, nil)
	if !backoff.IsNonRetryable(err) {
		t.Errorf("parse failure should be non-retryable, got %v", err)
	}
}
