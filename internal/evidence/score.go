// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evidence

import (
	"sort"
	"strings"
	"time"

	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

const (
	// recencyWindowYears is the linear decay window for the recency factor.
	recencyWindowYears = 10.0

	// recencyFloor is the minimum recency factor for dated items.
	recencyFloor = 0.1

	reviewBonus       = 1.2
	doiBonus          = 1.1
	authorBonusStep   = 0.1
	authorBonusCeiling = 1.5

	hoursPerYear = 24 * 365.25
)

// reviewMarkers flag survey-style papers that summarize a field.
var reviewMarkers = []string{"review", "meta-analysis", "systematic"}

// Score computes an item's relevance score: base 1.0, multiplied by a
// recency factor (linear decay over ten years, floor 0.1, only when the
// publication date is known), a review-marker bonus, an author-count bonus
// capped at 1.5x, and a DOI-presence bonus.
func Score(item types.EvidenceItem, now time.Time) float64 {
	score := 1.0

	if !item.Published.IsZero() {
		ageYears := now.Sub(item.Published).Hours() / hoursPerYear
		factor := 1.0 - ageYears/recencyWindowYears
		if factor < recencyFloor {
			factor = recencyFloor
		}
		if factor > 1.0 {
			factor = 1.0
		}
		score *= factor
	}

	title := strings.ToLower(item.Title)
	for _, marker := range reviewMarkers {
		if strings.Contains(title, marker) {
			score *= reviewBonus
			break
		}
	}

	if n := len(item.Authors); n > 0 {
		bonus := 1.0 + authorBonusStep*float64(n)
		if bonus > authorBonusCeiling {
			bonus = authorBonusCeiling
		}
		score *= bonus
	}

	if item.DOI != "" {
		score *= doiBonus
	}

	return score
}

// Rank orders items by score descending. The sort is stable: equal scores
// keep their pre-sort (dedup) relative order.
func Rank(items []types.EvidenceItem, now time.Time) []types.EvidenceItem {
	scores := make([]float64, len(items))
	for i, item := range items {
		scores[i] = Score(item, now)
	}

	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	out := make([]types.EvidenceItem, len(items))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}
