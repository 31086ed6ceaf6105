// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RunStatus is the lifecycle state of a pipeline run. Transitions are
// one-way: processing → completed or processing → failed.
type RunStatus string

const (
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// Terminal reports whether the status is an end state.
func (s RunStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// PipelineRecord is the persisted state of one run. The coordinator owns it
// exclusively during execution, writes it to the store after every stage
// transition, and never mutates it after a terminal status. Stage output
// fields are nil until the corresponding stage completes.
type PipelineRecord struct {
	ID       string    `json:"id" yaml:"id"`
	Question string    `json:"question" yaml:"question"`
	Status   RunStatus `json:"status" yaml:"status"`

	Keywords     *KeywordSet         `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Evidence     []EvidenceItem      `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	Findings     []NumericFinding    `json:"findings,omitempty" yaml:"findings,omitempty"`
	Answer       *Answer             `json:"answer,omitempty" yaml:"answer,omitempty"`
	Verification *VerificationResult `json:"verification,omitempty" yaml:"verification,omitempty"`

	// Error carries the failing stage's message verbatim when Status is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
