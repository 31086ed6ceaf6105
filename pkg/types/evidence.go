// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// EvidenceSource distinguishes the bibliographic source class an item came
// from: primary literature (preprint servers) or secondary aggregators.
type EvidenceSource string

const (
	SourcePrimary   EvidenceSource = "primary"
	SourceSecondary EvidenceSource = "secondary"
)

// EvidenceItem is one retrieved bibliographic record. Items are immutable
// once retrieved; identity for deduplication is the case-normalized title
// and, where available, the normalized DOI.
type EvidenceItem struct {
	// Title is the paper title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// DOI is the digital object identifier, empty when the source has none.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Summary is the abstract or summary text.
	Summary string `json:"summary" yaml:"summary"`

	// URL points at the paper landing page or PDF.
	URL string `json:"url" yaml:"url"`

	// Authors lists the authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Source identifies the source class that found this item.
	Source EvidenceSource `json:"source" yaml:"source"`

	// Published is the publication date, zero when unknown.
	Published time.Time `json:"published,omitzero" yaml:"published,omitempty"`
}

// VerificationFeedback is the quality judgment the verification stage
// produces per acquisition pass. It is consumed only by the acquisition
// engine's adaptive retry and discarded otherwise.
type VerificationFeedback struct {
	ShouldRetry  bool     `json:"should_retry" yaml:"should_retry"`
	RetryReason  string   `json:"retry_reason,omitempty" yaml:"retry_reason,omitempty"`
	QualityScore float64  `json:"quality_score" yaml:"quality_score"`
	Suggestions  []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// NumericFinding holds the numeric statements extracted from one evidence
// item's summary. All fields are verbatim source fragments.
type NumericFinding struct {
	Percentages         []string `json:"percentages,omitempty" yaml:"percentages,omitempty"`
	PValues             []string `json:"p_values,omitempty" yaml:"p_values,omitempty"`
	ConfidenceIntervals []string `json:"confidence_intervals,omitempty" yaml:"confidence_intervals,omitempty"`
	SampleSizes         []string `json:"sample_sizes,omitempty" yaml:"sample_sizes,omitempty"`
	EffectSizes         []string `json:"effect_sizes,omitempty" yaml:"effect_sizes,omitempty"`
	StatisticalTests    []string `json:"statistical_tests,omitempty" yaml:"statistical_tests,omitempty"`
}

// IsEmpty reports whether no numeric statements were found.
func (f NumericFinding) IsEmpty() bool {
	return len(f.Percentages) == 0 && len(f.PValues) == 0 &&
		len(f.ConfidenceIntervals) == 0 && len(f.SampleSizes) == 0 &&
		len(f.EffectSizes) == 0 && len(f.StatisticalTests) == 0
}
