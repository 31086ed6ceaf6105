// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the orchestrator pipeline:
// the question classification, evidence, answer, and run-record model that the
// stages pass between each other, plus the pipeline configuration.
package types

// QuestionType classifies a research question. Produced once per run by the
// classification stage and used to steer keyword adaptation.
type QuestionType string

const (
	QuestionFactual     QuestionType = "factual"
	QuestionCausal      QuestionType = "causal"
	QuestionComparative QuestionType = "comparative"
	QuestionMechanism   QuestionType = "mechanism"
	QuestionPrediction  QuestionType = "prediction"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionFactual, QuestionCausal, QuestionComparative, QuestionMechanism, QuestionPrediction:
		return true
	}
	return false
}

// KeywordSet is the classification stage's output: the question type and the
// ordered search keywords. The acquisition engine may regenerate it (expanded
// or focused) during adaptive retry.
type KeywordSet struct {
	QuestionType QuestionType `json:"question_type" yaml:"question_type"`
	Keywords     []string     `json:"keywords" yaml:"keywords"`
}
