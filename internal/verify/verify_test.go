// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

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
	lastReq  llm.Request
}

func (m *mockCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	m.lastReq = req
	return m.response, m.err
}

func TestVerifyParsesResult(t *testing.T) {
	mock := &mockCompleter{response: `{"passes": false, "missing_claims": ["dosage claim"]}`}
	v := New(mock, types.TierLow)

	answer := &types.Answer{
		Text: "The drug works at low doses.",
		Citations: []types.Citation{
			{DOI: "10.1/a", Title: "Paper A", Index: 1},
		},
	}
	result, err := v.Verify(context.Background(), "does the drug work?", answer)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Passes {
		t.Error("Passes = true, want false")
	}
	if len(result.MissingClaims) != 1 || result.MissingClaims[0] != "dosage claim" {
		t.Errorf("MissingClaims = %v", result.MissingClaims)
	}

	prompt := mock.lastReq.User
	if !strings.Contains(prompt, "Citation 1: 10.1/a") {
		t.Error("prompt missing citation line")
	}
	if !strings.Contains(prompt, "The drug works at low doses.") {
		t.Error("prompt missing answer text")
	}
	if !mock.lastReq.JSONOnly {
		t.Error("request must demand JSON output")
	}
}

func TestVerifyMalformedJSONIsNonRetryable(t *testing.T) {
	mock := &mockCompleter{response: "looks fine to me"}
	v := New(mock, types.TierLow)

	_, err := v.Verify(context.Background(), "q", &types.Answer{Text: "a"})
	if !backoff.IsNonRetryable(err) {
		t.Errorf("parse failure should be non-retryable, got %v", err)
	}
}

func TestAssessEvidenceQualityParsesFeedback(t *testing.T) {
	mock := &mockCompleter{response: `{
		"should_retry": true,
		"retry_reason": "query too narrow",
		"quality_score": 0.4,
		"suggestions": ["add delivery terms"]
	}`}
	v := New(mock, types.TierLow)

	items := []types.EvidenceItem{
		{Title: "Paper A", DOI: "10.1/a", Summary: strings.Repeat("x", 300)},
		{Title: "Paper B", Summary: "short"},
	}
	feedback, err := v.AssessEvidenceQuality(context.Background(), "q", items, "nova")
	if err != nil {
		t.Fatalf("AssessEvidenceQuality: %v", err)
	}
	if !feedback.ShouldRetry || feedback.QualityScore != 0.4 {
		t.Errorf("feedback = %+v", feedback)
	}
	if feedback.RetryReason != "query too narrow" {
		t.Errorf("RetryReason = %q", feedback.RetryReason)
	}

	prompt := mock.lastReq.User
	if !strings.Contains(prompt, "EVIDENCE FOUND BY NOVA:") {
		t.Error("prompt missing upper-cased producer")
	}
	if !strings.Contains(prompt, "DOI: N/A") {
		t.Error("missing DOI should render as N/A")
	}
	if strings.Contains(prompt, strings.Repeat("x", 201)) {
		t.Error("long summary should be clipped to 200 characters")
	}
	if !strings.Contains(prompt, strings.Repeat("x", 200)+"...") {
		t.Error("clipped summary should end with an ellipsis")
	}
}

func TestAssessEvidenceQualityPropagatesCompletionError(t *testing.T) {
	mock := &mockCompleter{err: backoff.Retryablef("model busy")}
	v := New(mock, types.TierLow)

	_, err := v.AssessEvidenceQuality(context.Background(), "q", nil, "nova")
	if !backoff.IsRetryable(err) {
		t.Errorf("completion failure should stay retryable, got %v", err)
	}
}
