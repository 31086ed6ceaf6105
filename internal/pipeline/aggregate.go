// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"strings"

	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

// Summary is a flattened, reader-friendly view of a completed run.
type Summary struct {
	Claim          string            `json:"claim" yaml:"claim"`
	Confidence     float64           `json:"confidence" yaml:"confidence"`
	SupportLevel   string            `json:"support_level" yaml:"support_level"`
	Rationale      string            `json:"rationale" yaml:"rationale"`
	Caveats        string            `json:"caveats" yaml:"caveats"`
	NextExperiment string            `json:"next_experiment,omitempty" yaml:"next_experiment,omitempty"`
	Citations      []SummaryCitation `json:"citations" yaml:"citations"`
}

// SummaryCitation is the title/DOI pair exposed in the summary view.
type SummaryCitation struct {
	Title string `json:"title" yaml:"title"`
	DOI   string `json:"doi" yaml:"doi"`
}

// ErrNoAnswer reports that the record carries no answer to summarize.
var ErrNoAnswer = errors.New("record has no answer to summarize")

// Summarize flattens a record's answer and verification into a Summary. The
// claim is the answer's first sentence; confidence and support level derive
// from the verification outcome.
func Summarize(record *types.PipelineRecord) (*Summary, error) {
	if record.Answer == nil {
		return nil, ErrNoAnswer
	}
	answer := record.Answer

	claim := answer.Text
	if i := strings.Index(claim, "."); i >= 0 {
		claim = claim[:i]
	}
	if claim == "" {
		claim = "No claim available"
	}

	confidence := 0.5
	supportLevel := "weak"
	if record.Verification != nil && record.Verification.Passes {
		confidence = 0.8
		supportLevel = "moderate"
	}

	caveats := "Limited evidence available"
	if len(answer.KnowledgeGaps) > 0 {
		caveats = strings.Join(answer.KnowledgeGaps, "; ")
	}

	var nextExperiment string
	if len(answer.Roadmap) > 0 {
		nextExperiment = answer.Roadmap[0].NextMilestone
	}

	citations := make([]SummaryCitation, 0, len(answer.Citations))
	for _, c := range answer.Citations {
		citations = append(citations, SummaryCitation{Title: c.Title, DOI: c.DOI})
	}

	return &Summary{
		Claim:          claim,
		Confidence:     confidence,
		SupportLevel:   supportLevel,
		Rationale:      answer.Text,
		Caveats:        caveats,
		NextExperiment: nextExperiment,
		Citations:      citations,
	}, nil
}
