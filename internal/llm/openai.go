// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"golang.org/x/time/rate"

	"github.com/birkanzambak/scientific-ai-orchestrator/internal/backoff"
	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

// OpenAI implements Completer against the OpenAI chat completions API.
// A single instance is shared by all concurrent runs; the rate limiter is
// global across them.
type OpenAI struct {
	opts    []option.RequestOption
	limiter *rate.Limiter
}

// NewOpenAI builds a client from config. RatePerSecond <= 0 disables the limiter.
func NewOpenAI(cfg types.LLMConfig) *OpenAI {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return &OpenAI{opts: opts, limiter: limiter}
}

// Complete issues one chat completion at temperature zero. Transport and API
// failures come back retryable; an empty choice list is non-retryable.
func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	client := openai.NewClient(o.opts...)

	var msgs []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	msgs = append(msgs, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(string(req.Tier)),
		Messages:    msgs,
		Temperature: openai.Float(0),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.JSONOnly {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", backoff.Retryable(fmt.Errorf("completion API: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", backoff.NonRetryablef("completion API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
