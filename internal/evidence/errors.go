// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evidence

import "fmt"

// InsufficientEvidenceError reports that fewer evidence items survived
// acquisition and adaptation than the pipeline needs. It is always terminal
// for the run and distinct from infrastructure failure, so callers can tell
// "no usable evidence" from "collaborator down".
type InsufficientEvidenceError struct {
	Found   int
	Minimum int
}

func (e *InsufficientEvidenceError) Error() string {
	return fmt.Sprintf("insufficient evidence: %d items found, need at least %d", e.Found, e.Minimum)
}
