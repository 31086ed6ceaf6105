// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ModelTier names a language-model capability/cost level. The tier value is
// also the model identifier sent to the completion API.
type ModelTier string

const (
	// TierHigh is the high-capability tier used for reasoning by default.
	TierHigh ModelTier = "gpt-4o"

	// TierLow is the low-cost tier: the cost guard-rail's downgrade target
	// and the pricing fallback for unrecognized tiers.
	TierLow ModelTier = "gpt-4o-mini"
)
