// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scientific-ai-orchestrator/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the bibliographic search collaborators.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// EnableArxiv controls whether the arXiv source is queried.
	EnableArxiv bool `json:"enable_arxiv" yaml:"enable_arxiv"`

	// EnableSemanticScholar controls whether the Semantic Scholar source is queried.
	EnableSemanticScholar bool `json:"enable_semantic_scholar" yaml:"enable_semantic_scholar"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// RatePerSecond limits outgoing search requests across concurrent runs.
	// Zero disables the limiter.
	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second"`
}

// LLMConfig holds settings for the language-model completion collaborator.
type LLMConfig struct {
	// Tier is the configured model tier for reasoning calls.
	Tier ModelTier `json:"tier" yaml:"tier"`

	// APIKey is the authentication key for the completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint; empty uses the provider default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// CostThresholdUSD is the estimated-cost ceiling above which a reasoning
	// call on the high tier is downgraded to the low tier for that call.
	CostThresholdUSD float64 `json:"cost_threshold_usd" yaml:"cost_threshold_usd"`

	// MaxOutputTokens is the fixed output upper bound used for cost estimates.
	MaxOutputTokens int `json:"max_output_tokens" yaml:"max_output_tokens"`

	// RatePerSecond limits outgoing completion requests across concurrent
	// runs. Zero disables the limiter.
	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second"`
}

// EvidenceConfig holds settings for the evidence acquisition engine.
type EvidenceConfig struct {
	// MaxResults is the requested evidence cap per run.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MinItems is the hard gate: acquisition fails when fewer items survive.
	MinItems int `json:"min_items" yaml:"min_items"`

	// DegradedStub enables the legacy stub-evidence fallback: instead of
	// failing on insufficient evidence the engine returns placeholder items.
	// Off in the canonical configuration.
	DegradedStub bool `json:"degraded_stub" yaml:"degraded_stub"`

	// RetractedDOIs lists DOIs to drop during acquisition.
	RetractedDOIs []string `json:"retracted_dois,omitempty" yaml:"retracted_dois,omitempty"`
}

// RetryConfig holds the shared retry policy for stage invocations.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// BaseDelay is the first backoff delay; it doubles each attempt.
	BaseDelay time.Duration `json:"base_delay" yaml:"base_delay"`

	// MaxDelay caps the backoff delay.
	MaxDelay time.Duration `json:"max_delay" yaml:"max_delay"`
}

// BreakerConfig holds the circuit-breaker thresholds shared by all
// per-collaborator breakers.
type BreakerConfig struct {
	// FailureThreshold is the consecutive-failure count that opens a circuit.
	FailureThreshold int `json:"failure_threshold" yaml:"failure_threshold"`

	// RecoveryTimeout is how long an open circuit waits before one trial call.
	RecoveryTimeout time.Duration `json:"recovery_timeout" yaml:"recovery_timeout"`
}

// StageTimeouts holds per-stage call budgets. Reasoning gets a longer budget
// than the other stages, reflecting expected latency.
type StageTimeouts struct {
	Classify time.Duration `json:"classify" yaml:"classify"`
	Acquire  time.Duration `json:"acquire" yaml:"acquire"`
	Reason   time.Duration `json:"reason" yaml:"reason"`
	Verify   time.Duration `json:"verify" yaml:"verify"`
}

// StoreConfig holds settings for the keyed result store.
type StoreConfig struct {
	// Path is the SQLite database file. ":memory:" keeps the store in-process.
	Path string `json:"path" yaml:"path"`

	// TTL is the record expiry applied on every write.
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// QueueConfig holds settings for the run worker pool.
type QueueConfig struct {
	// Workers is the number of concurrent pipeline runs.
	Workers int `json:"workers" yaml:"workers"`
}

// PipelineConfig groups all component configurations.
type PipelineConfig struct {
	Search   SearchConfig   `json:"search" yaml:"search"`
	LLM      LLMConfig      `json:"llm" yaml:"llm"`
	Evidence EvidenceConfig `json:"evidence" yaml:"evidence"`
	Retry    RetryConfig    `json:"retry" yaml:"retry"`
	Breaker  BreakerConfig  `json:"breaker" yaml:"breaker"`
	Timeouts StageTimeouts  `json:"timeouts" yaml:"timeouts"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Queue    QueueConfig    `json:"queue" yaml:"queue"`
}

// DefaultConfig returns the reference configuration: strict-fail acquisition,
// five-item evidence cap, one-day record expiry.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   20 * time.Second,
				UserAgent: "scientific-ai-orchestrator/0.1",
			},
			EnableArxiv:           true,
			EnableSemanticScholar: true,
			RatePerSecond:         2,
		},
		LLM: LLMConfig{
			Tier:             TierHigh,
			CostThresholdUSD: 0.05,
			MaxOutputTokens:  1000,
			RatePerSecond:    5,
		},
		Evidence: EvidenceConfig{
			MaxResults: 5,
			MinItems:   3,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			MaxDelay:    60 * time.Second,
		},
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			RecoveryTimeout:  60 * time.Second,
		},
		Timeouts: StageTimeouts{
			Classify: 30 * time.Second,
			Acquire:  30 * time.Second,
			Reason:   60 * time.Second,
			Verify:   30 * time.Second,
		},
		Store: StoreConfig{
			Path: "orchestrator.db",
			TTL:  24 * time.Hour,
		},
		Queue: QueueConfig{
			Workers: 4,
		},
	}
}
