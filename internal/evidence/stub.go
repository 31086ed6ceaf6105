// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evidence

import (
	"fmt"

	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

// stubEvidence fabricates placeholder items so a degraded deployment can
// exercise the downstream stages when the search sources return nothing
// usable. The items are clearly labelled and carry no DOI, so they never
// pass a retraction check or produce a citable reference.
func stubEvidence(question string, n int) []types.EvidenceItem {
	items := make([]types.EvidenceItem, n)
	for i := range items {
		items[i] = types.EvidenceItem{
			Title:   fmt.Sprintf("Placeholder evidence %d (degraded mode)", i+1),
			Summary: fmt.Sprintf("No literature could be retrieved for %q; this entry is a degraded-mode placeholder.", question),
			Source:  types.SourceSecondary,
		}
	}
	return items
}
