// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RoadmapItem is one prioritized research direction in an answer.
type RoadmapItem struct {
	Priority           int     `json:"priority" yaml:"priority"`
	ResearchArea       string  `json:"research_area" yaml:"research_area"`
	NextMilestone      string  `json:"next_milestone" yaml:"next_milestone"`
	Timeline           string  `json:"timeline" yaml:"timeline"`
	SuccessProbability float64 `json:"success_probability" yaml:"success_probability"`
}

// Citation ties a claim in the answer back to an evidence item. Index is
// 1-based into the evidence sequence the answer was produced from.
type Citation struct {
	DOI   string `json:"doi" yaml:"doi"`
	Title string `json:"title" yaml:"title"`
	Index int    `json:"index" yaml:"index"`
}

// Answer is the reasoning stage's output: the grounded answer text plus
// remaining gaps, a research roadmap, and resolved citations.
type Answer struct {
	Text          string        `json:"text" yaml:"text"`
	KnowledgeGaps []string      `json:"knowledge_gaps,omitempty" yaml:"knowledge_gaps,omitempty"`
	Roadmap       []RoadmapItem `json:"roadmap,omitempty" yaml:"roadmap,omitempty"`
	Citations     []Citation    `json:"citations,omitempty" yaml:"citations,omitempty"`
}

// VerificationResult is the verification stage's pass/fail judgment over an
// answer, with the claims it found unsupported.
type VerificationResult struct {
	Passes        bool     `json:"passes" yaml:"passes"`
	MissingClaims []string `json:"missing_claims,omitempty" yaml:"missing_claims,omitempty"`
}
