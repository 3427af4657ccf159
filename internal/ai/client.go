// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"clausecheck/internal/detector"
	"clausecheck/internal/observability"
	"clausecheck/internal/resilience"
)

// Input above this ceiling is truncated before the remote call.
const DefaultMaxInputChars = 60000

const truncationNote = "[Document truncated for analysis; findings cover the leading portion only.]"

const systemPrompt = `You are a contract-review assistant. Analyze the user's contract text and identify risky clauses.

Respond with ONLY a JSON object, no prose and no code fences, in exactly this shape:
{
  "overall_risk": "low" | "medium" | "high",
  "summary": "<= 600 characters",
  "flags": [
    {
      "clause": "exact text of the risky clause, <= 600 characters",
      "severity": "low" | "medium" | "high",
      "rationale": "why this is risky, <= 400 characters",
      "suggestion": "how to remediate, <= 400 characters"
    }
  ]
}

Rules: at most 40 flags; quote clauses verbatim from the document where possible; overall_risk must reflect the highest-severity flag.`

const schemaReminder = `Your previous response did not conform to the required schema. Respond again with ONLY the JSON object described, with every field present and severity limited to low, medium, or high. No other text.`

// chatCompleter is the slice of the provider client the analyzer needs.
// *openai.Client satisfies it.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ClientOptions configures the remote analyzer adapter.
type ClientOptions struct {
	// Model is the primary model; FallbackModels are tried in order
	// after the primary fails its retry budget.
	Model          string
	FallbackModels []string
	MaxInputChars  int
	RequestTimeout time.Duration
	Observer       *observability.StandardObserver

	// Breaker settings applied per model.
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// Client invokes a remote model with schema-constrained output. It
// implements Analyzer and Rewriter.
type Client struct {
	api      chatCompleter
	opts     ClientOptions
	breakers map[string]*resilience.Breaker
}

// NewClient builds a Client talking to the hosted provider.
func NewClient(apiKey string, opts ClientOptions) *Client {
	return newClient(openai.NewClient(apiKey), opts)
}

func newClient(api chatCompleter, opts ClientOptions) *Client {
	if opts.Model == "" {
		opts.Model = openai.GPT4oMini
	}
	if opts.MaxInputChars <= 0 {
		opts.MaxInputChars = DefaultMaxInputChars
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}

	c := &Client{
		api:      api,
		opts:     opts,
		breakers: make(map[string]*resilience.Breaker),
	}
	for _, model := range c.models() {
		c.breakers[model] = resilience.NewBreaker(model, opts.BreakerThreshold, opts.BreakerCooldown)
	}
	return c
}

// Name implements Analyzer.
func (c *Client) Name() string {
	return "openai"
}

func (c *Client) models() []string {
	models := []string{c.opts.Model}
	for _, m := range c.opts.FallbackModels {
		if m != "" && m != c.opts.Model {
			models = append(models, m)
		}
	}
	return models
}

// Analyze implements Analyzer. Per model: one request, plus exactly one
// retry when the response violates the schema (amended prompt) or the
// transport failed retryably. When the primary model exhausts its
// budget the adapter falls over to the alternates in order; only after
// all of them fail does the caller see ErrUnavailable.
func (c *Client) Analyze(ctx context.Context, text string) (detector.AnalysisResult, Meta, error) {
	start := time.Now()
	meta := Meta{}

	text, truncated := c.truncate(text)

	var lastErr error
	for _, model := range c.models() {
		breaker := c.breakers[model]
		if err := breaker.Allow(); err != nil {
			lastErr = err
			continue
		}
		meta.ModelsTried = append(meta.ModelsTried, model)

		result, usage, err := c.analyzeOnce(ctx, model, text, &meta.Attempts)
		breaker.Record(err)
		if err != nil {
			lastErr = err
			c.opts.Observer.LogError("ai_analyzer", "analyze_model", fmt.Errorf("model %s: %w", model, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		meta.Model = model
		meta.TokensIn = usage.PromptTokens
		meta.TokensOut = usage.CompletionTokens
		meta.LatencyMS = time.Since(start).Milliseconds()

		if truncated {
			result.Summary = strings.TrimSpace(result.Summary + " " + truncationNote)
		}
		return result, meta, nil
	}

	meta.LatencyMS = time.Since(start).Milliseconds()
	if lastErr == nil {
		lastErr = fmt.Errorf("no models configured")
	}
	return detector.AnalysisResult{}, meta, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

// analyzeOnce runs the single-retry protocol against one model.
func (c *Client) analyzeOnce(ctx context.Context, model, text string, attempts *int) (detector.AnalysisResult, openai.Usage, error) {
	*attempts++
	result, usage, err := c.request(ctx, model, systemPrompt, text)
	if err == nil {
		return result, usage, nil
	}
	if !resilience.IsRetryable(err) || ctx.Err() != nil {
		return detector.AnalysisResult{}, usage, err
	}

	prompt := systemPrompt
	if resilience.ClassifyError(err).Type == resilience.ErrorTypeSchemaViolation {
		prompt = systemPrompt + "\n\n" + schemaReminder
	}

	*attempts++
	return c.request(ctx, model, prompt, text)
}

// request performs one remote call and validates the response.
func (c *Client) request(ctx context.Context, model, prompt, text string) (detector.AnalysisResult, openai.Usage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return detector.AnalysisResult{}, openai.Usage{}, err
	}
	if len(resp.Choices) == 0 {
		return detector.AnalysisResult{}, resp.Usage, resilience.NewSchemaViolationError(fmt.Errorf("provider returned no choices"))
	}

	result, err := parseResult(resp.Choices[0].Message.Content)
	if err != nil {
		return detector.AnalysisResult{}, resp.Usage, resilience.NewSchemaViolationError(err)
	}
	return result, resp.Usage, nil
}

// Rewrite implements Rewriter: it asks the primary model to rewrite a
// clause per the remediation instruction and returns plain text.
func (c *Client) Rewrite(ctx context.Context, clause, instruction string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()

	return resilience.RetryWithResult(ctx, resilience.AnalyzerRetryConfig(), func(ctx context.Context) (string, error) {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.opts.Model,
			Temperature: 0.2,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: "You rewrite contract clauses. Respond with only the rewritten clause text, no commentary."},
				{Role: openai.ChatMessageRoleUser, Content: "Clause:\n" + clause + "\n\nRewrite it to address: " + instruction},
			},
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", resilience.NewSchemaViolationError(fmt.Errorf("provider returned no choices"))
		}
		rewrite := strings.TrimSpace(resp.Choices[0].Message.Content)
		if rewrite == "" {
			return "", resilience.NewSchemaViolationError(fmt.Errorf("empty rewrite"))
		}
		return rewrite, nil
	})
}

// truncate bounds the outbound document and reports whether it did.
func (c *Client) truncate(text string) (string, bool) {
	if len(text) <= c.opts.MaxInputChars {
		return text, false
	}
	return text[:c.opts.MaxInputChars] + "\n\n" + truncationNote, true
}
