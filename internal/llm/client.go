// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps the language-model completion collaborator. Stages build
// a Request, require machine-parseable output, and parse the returned text
// themselves; a parse failure is the caller's responsibility and is always
// non-retryable.
package llm

import (
	"context"
	"encoding/json"

	"github.com/birkanzambak/scientific-ai-orchestrator/internal/backoff"
	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

// Request is one completion call.
type Request struct {
	// System is the system message, empty to omit.
	System string

	// User is the user message.
	User string

	// Tier selects the model tier for this call.
	Tier types.ModelTier

	// JSONOnly requires a machine-parseable JSON object response.
	JSONOnly bool

	// MaxTokens bounds the response length. Zero leaves it to the provider.
	MaxTokens int
}

// Completer is the completion collaborator. Implementations must be safe for
// concurrent use from independent pipeline runs.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ParseResponse unmarshals a JSON-mode response into v. A response that does
// not match the expected schema is a contract mismatch that retrying cannot
// fix, so the error is non-retryable.
func ParseResponse(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return backoff.NonRetryablef("parsing model response: %v", err)
	}
	return nil
}
