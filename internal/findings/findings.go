// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package findings extracts numeric statements from evidence summaries with
// regular expressions. The extraction is deliberately lexical: fragments are
// reported verbatim so the reasoning stage can quote them without
// reinterpreting the source.
package findings

import (
	"regexp"
	"strings"

	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

var (
	percentagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b\d{1,3}(?:\.\d+)?\s*%`),
		regexp.MustCompile(`(?i)\b\d{1,3}(?:\.\d+)?\s*percent`),
		regexp.MustCompile(`(?i)\b\d{1,3}(?:\.\d+)?\s*per\s*cent`),
	}
	pValuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)p\s*[<=>]\s*0?\.\d+(?:e-\d+)?`),
	}
	confidenceIntervalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)CI\s*=\s*\[?\d+\.?\d*\s*[-–]\s*\d+\.?\d*\]?`),
		regexp.MustCompile(`(?i)confidence\s*interval[^.]*?\d+\.?\d*\s*[-–]\s*\d+\.?\d*`),
		regexp.MustCompile(`\(\d+\.?\d*,\s*\d+\.?\d*\)`),
	}
	sampleSizePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)n\s*=\s*\d+`),
		regexp.MustCompile(`(?i)sample\s*size[^.]*?\d+`),
		regexp.MustCompile(`(?i)participants[^.\d]*\d+`),
		regexp.MustCompile(`(?i)subjects[^.\d]*\d+`),
	}
	effectSizePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Cohen's\s*d\s*=\s*[-+]?\d*\.?\d+`),
		regexp.MustCompile(`(?i)effect\s*size[^.\d]*[-+]?\d*\.?\d+`),
		regexp.MustCompile(`(?i)odds\s*ratio[^.\d]*[-+]?\d*\.?\d+`),
		regexp.MustCompile(`(?i)risk\s*ratio[^.\d]*[-+]?\d*\.?\d+`),
	}
	statisticalTestPatterns = []*regexp.Regexp{
		regexp.MustCompile(`t\s*\(\s*\d+\s*\)\s*=\s*[-+]?\d*\.?\d+`),
		regexp.MustCompile(`F\s*\(\s*\d+,\s*\d+\s*\)\s*=\s*[-+]?\d*\.?\d+`),
		regexp.MustCompile(`(?i)chi-square[^.\d]*[-+]?\d*\.?\d+`),
		regexp.MustCompile(`(?i)ANOVA[^.\d]*[-+]?\d*\.?\d+`),
	}
)

// Extract pulls numeric statements out of the text. Matches are verbatim
// fragments, deduplicated case-insensitively in first-seen order.
func Extract(text string) types.NumericFinding {
	return types.NumericFinding{
		Percentages:         matchAll(text, percentagePatterns),
		PValues:             matchAll(text, pValuePatterns),
		ConfidenceIntervals: matchAll(text, confidenceIntervalPatterns),
		SampleSizes:         matchAll(text, sampleSizePatterns),
		EffectSizes:         matchAll(text, effectSizePatterns),
		StatisticalTests:    matchAll(text, statisticalTestPatterns),
	}
}

// ExtractAll extracts a finding per evidence item, index-aligned with the
// input. Items without numeric content yield an empty finding.
func ExtractAll(items []types.EvidenceItem) []types.NumericFinding {
	out := make([]types.NumericFinding, len(items))
	for i, item := range items {
		out[i] = Extract(item.Summary)
	}
	return out
}

func matchAll(text string, patterns []*regexp.Regexp) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range patterns {
		for _, m := range p.FindAllString(text, -1) {
			key := strings.ToLower(m)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, m)
		}
	}
	return out
}
