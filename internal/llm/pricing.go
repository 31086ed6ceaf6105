// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import "github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"

// tierPrice is USD per 1,000 tokens for one side of a call.
type tierPrice struct {
	in  float64
	out float64
}

// priceTable is the published rate table per tier. Unrecognized tiers price
// at the low-cost tier's rates.
var priceTable = map[types.ModelTier]tierPrice{
	types.TierHigh: {in: 0.0025, out: 0.01},
	types.TierLow:  {in: 0.00015, out: 0.0006},
}

// RoughTokens approximates a token count as len(text)/4, minimum 1. Good
// enough for guard-rails, not for billing.
func RoughTokens(text string) int {
	n := len(text) / 4
	if n < 1 {
		n = 1
	}
	return n
}

// EstimateCost returns the estimated USD cost of a call with the given input
// and output token counts on the given tier.
func EstimateCost(inTokens, outTokens int, tier types.ModelTier) float64 {
	p, ok := priceTable[tier]
	if !ok {
		p = priceTable[types.TierLow]
	}
	return float64(inTokens)/1000*p.in + float64(outTokens)/1000*p.out
}
