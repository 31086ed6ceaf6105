// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

// loadConfig builds the pipeline configuration: reference defaults, then
// config-file and environment overrides, then secrets for the API keys.
func loadConfig() types.PipelineConfig {
	cfg := types.DefaultConfig()

	if viper.IsSet("search.enable_arxiv") {
		cfg.Search.EnableArxiv = viper.GetBool("search.enable_arxiv")
	}
	if viper.IsSet("search.enable_semantic_scholar") {
		cfg.Search.EnableSemanticScholar = viper.GetBool("search.enable_semantic_scholar")
	}
	if viper.IsSet("search.rate_per_second") {
		cfg.Search.RatePerSecond = viper.GetFloat64("search.rate_per_second")
	}
	if viper.IsSet("search.timeout") {
		cfg.Search.Timeout = viper.GetDuration("search.timeout")
	}

	if viper.IsSet("llm.tier") {
		cfg.LLM.Tier = types.ModelTier(viper.GetString("llm.tier"))
	}
	if viper.IsSet("llm.base_url") {
		cfg.LLM.BaseURL = viper.GetString("llm.base_url")
	}
	if viper.IsSet("llm.cost_threshold_usd") {
		cfg.LLM.CostThresholdUSD = viper.GetFloat64("llm.cost_threshold_usd")
	}
	if viper.IsSet("llm.max_output_tokens") {
		cfg.LLM.MaxOutputTokens = viper.GetInt("llm.max_output_tokens")
	}
	if viper.IsSet("llm.rate_per_second") {
		cfg.LLM.RatePerSecond = viper.GetFloat64("llm.rate_per_second")
	}

	if viper.IsSet("evidence.max_results") {
		cfg.Evidence.MaxResults = viper.GetInt("evidence.max_results")
	}
	if viper.IsSet("evidence.min_items") {
		cfg.Evidence.MinItems = viper.GetInt("evidence.min_items")
	}
	if viper.IsSet("evidence.degraded_stub") {
		cfg.Evidence.DegradedStub = viper.GetBool("evidence.degraded_stub")
	}
	if viper.IsSet("evidence.retracted_dois") {
		cfg.Evidence.RetractedDOIs = viper.GetStringSlice("evidence.retracted_dois")
	}

	if viper.IsSet("retry.max_attempts") {
		cfg.Retry.MaxAttempts = viper.GetInt("retry.max_attempts")
	}
	if viper.IsSet("breaker.failure_threshold") {
		cfg.Breaker.FailureThreshold = viper.GetInt("breaker.failure_threshold")
	}
	if viper.IsSet("store.path") {
		cfg.Store.Path = viper.GetString("store.path")
	}
	if viper.IsSet("store.ttl") {
		cfg.Store.TTL = viper.GetDuration("store.ttl")
	}
	if viper.IsSet("queue.workers") {
		cfg.Queue.Workers = viper.GetInt("queue.workers")
	}

	cfg.LLM.APIKey = secretDefault("openai-api-key", viper.GetString("llm.api_key"))
	cfg.Search.SemanticScholarAPIKey = secretDefault("semantic-scholar-api-key", viper.GetString("search.semantic_scholar_api_key"))

	return cfg
}
