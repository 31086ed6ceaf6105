// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify implements the question classification stage: it asks the
// language model for the question type and search keywords in JSON mode and
// validates the result against the known type enum.
package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/birkanzambak/scientific-ai-orchestrator/internal/backoff"
	"github.com/birkanzambak/scientific-ai-orchestrator/internal/llm"
	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

const classifySystem = "You are a universal research question classifier. " +
	"You respond with a single JSON object and nothing else."

const classifyPrompt = `Classify the research question and extract search keywords.

QUESTION: %s

Respond in STRICT JSON ONLY:
{
  "question_type": "factual|causal|comparative|mechanism|prediction",
  "keywords": ["...", "..."]
}`

// Classifier turns a natural-language question into a keyword set.
type Classifier struct {
	completer llm.Completer
	tier      types.ModelTier
}

// New builds a classifier on the given completer and tier.
func New(completer llm.Completer, tier types.ModelTier) *Classifier {
	return &Classifier{completer: completer, tier: tier}
}

// Classify returns the question type and keywords. A malformed or
// out-of-enum model response is non-retryable; only the completion call
// itself may be retried by the caller's backoff wrapper.
func (c *Classifier) Classify(ctx context.Context, question string) (types.KeywordSet, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return types.KeywordSet{}, backoff.NonRetryablef("question is empty")
	}

	raw, err := c.completer.Complete(ctx, llm.Request{
		System:   classifySystem,
		User:     fmt.Sprintf(classifyPrompt, question),
		Tier:     c.tier,
		JSONOnly: true,
	})
	if err != nil {
		return types.KeywordSet{}, fmt.Errorf("classifying question: %w", err)
	}

	var kw types.KeywordSet
	if err := llm.ParseResponse(raw, &kw); err != nil {
		return types.KeywordSet{}, err
	}
	if !kw.QuestionType.Valid() {
		return types.KeywordSet{}, backoff.NonRetryablef("unknown question type %q", kw.QuestionType)
	}
	if len(kw.Keywords) == 0 {
		return types.KeywordSet{}, backoff.NonRetryablef("classifier returned no keywords")
	}
	return kw, nil
}
