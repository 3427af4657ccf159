// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core orchestrates a contract review: input validation, the
// moderation gate, concurrent rule-based and AI analysis, merging, and
// span/keyword enrichment. The CLI and the web server both call through
// this package so behavior never diverges between the two.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clausecheck/internal/ai"
	"clausecheck/internal/detector"
	"clausecheck/internal/highlight"
	"clausecheck/internal/merge"
	"clausecheck/internal/observability"
	"clausecheck/internal/redline"
	"clausecheck/internal/rules"
	"clausecheck/internal/span"
)

// DefaultMaxInputBytes bounds accepted document size.
const DefaultMaxInputBytes = 1 << 20

var (
	// ErrEmptyInput is returned for documents with no analyzable text.
	ErrEmptyInput = errors.New("document contains no text")
	// ErrTextTooLarge is returned when a document exceeds the size limit.
	ErrTextTooLarge = errors.New("document exceeds the size limit")
)

// ContentBlockedError is returned when moderation flags the input. The
// document is never sent to the analyzer in that case.
type ContentBlockedError struct {
	Categories []string
}

func (e *ContentBlockedError) Error() string {
	if len(e.Categories) == 0 {
		return "content blocked by moderation"
	}
	return fmt.Sprintf("content blocked by moderation: %s", strings.Join(e.Categories, ", "))
}

// Moderator screens input text before analysis.
type Moderator interface {
	Check(ctx context.Context, text string) (ai.Verdict, error)
}

// Options configures a Pipeline. Analyzer, Rewriter, and Moderator are
// all optional; a zero Options value gives a rule-only pipeline.
type Options struct {
	Analyzer  ai.Analyzer
	Rewriter  ai.Rewriter
	Moderator Moderator
	Observer  *observability.StandardObserver
	// MaxInputBytes overrides DefaultMaxInputBytes when positive.
	MaxInputBytes int
}

// Pipeline runs contract reviews.
type Pipeline struct {
	opts Options
}

// NewPipeline builds a pipeline from options.
func NewPipeline(opts Options) *Pipeline {
	if opts.MaxInputBytes <= 0 {
		opts.MaxInputBytes = DefaultMaxInputBytes
	}
	return &Pipeline{opts: opts}
}

type aiOutcome struct {
	result detector.AnalysisResult
	meta   ai.Meta
	err    error
}

// Analyze reviews one document. Rule detection always runs; the AI
// analyzer runs concurrently when configured, and its failure degrades
// the result to rule-only instead of failing the review.
func (p *Pipeline) Analyze(ctx context.Context, text string) (detector.AnalysisResult, error) {
	done := p.opts.Observer.StartTiming("pipeline", "analyze")

	if strings.TrimSpace(text) == "" {
		done(false, map[string]any{"status": "empty"})
		return detector.AnalysisResult{}, ErrEmptyInput
	}
	if len(text) > p.opts.MaxInputBytes {
		done(false, map[string]any{"status": "too_large", "input_chars": len(text)})
		return detector.AnalysisResult{}, ErrTextTooLarge
	}

	// The moderation gate runs before anything leaves the process. A
	// flagged document produces zero analyzer calls.
	var notes []string
	if p.opts.Moderator != nil {
		verdict, err := p.opts.Moderator.Check(ctx, text)
		switch {
		case err != nil:
			p.opts.Observer.LogError("pipeline", "moderation", err)
			notes = append(notes, "content screening was unavailable; analysis proceeded without it")
		case verdict.Flagged:
			done(false, map[string]any{"status": "blocked"})
			return detector.AnalysisResult{}, &ContentBlockedError{Categories: verdict.Categories}
		}
	}

	var aiCh chan aiOutcome
	if p.opts.Analyzer != nil {
		aiCh = make(chan aiOutcome, 1)
		go func() {
			result, meta, err := p.opts.Analyzer.Analyze(ctx, text)
			aiCh <- aiOutcome{result: result, meta: meta, err: err}
		}()
	}

	ruleResult := rules.Detect(text)

	merged := ruleResult
	if aiCh != nil {
		outcome := <-aiCh
		p.recordAIMeta(outcome.meta)
		if outcome.err != nil {
			merged.AIFallbackUsed = true
			notes = append(notes, "AI analysis was unavailable; results are rule-based only")
			p.opts.Observer.LogError("pipeline", "ai_analyze", outcome.err)
		} else {
			merged = merge.Merge(ruleResult, outcome.result)
			merged.AIRan = true
		}
	}

	merged.Flags = detector.NormalizeFlags(span.Enrich(text, merged.Flags, highlight.KeywordsFor))
	merged.OverallRisk = detector.MaxSeverity(merged.OverallRisk, detector.OverallRiskOf(merged.Flags))
	merged.Notes = append(merged.Notes, notes...)

	done(true, map[string]any{
		"input_chars":   len(text),
		"flag_count":    len(merged.Flags),
		"overall_risk":  string(merged.OverallRisk),
		"ai_ran":        merged.AIRan,
		"ai_fallback":   merged.AIFallbackUsed,
		"located_spans": locatedSpans(merged.Flags),
	})
	return merged, nil
}

// Redline produces a tracked-changes rewrite of a clause. When an AI
// rewriter is configured it supplies the rewrite; any failure falls back
// to the deterministic parenthetical form, never to an error.
func (p *Pipeline) Redline(ctx context.Context, original, suggestion string) (detector.RedlineResult, error) {
	if strings.TrimSpace(original) == "" {
		return detector.RedlineResult{}, ErrEmptyInput
	}

	rewrite := ""
	if p.opts.Rewriter != nil && strings.TrimSpace(suggestion) != "" {
		got, err := p.opts.Rewriter.Rewrite(ctx, original, suggestion)
		if err != nil {
			p.opts.Observer.LogError("pipeline", "ai_rewrite", err)
		} else {
			rewrite = got
		}
	}
	if rewrite == "" {
		rewrite = redline.FallbackRewrite(original, suggestion)
	}
	return redline.Redline(original, rewrite), nil
}

func (p *Pipeline) recordAIMeta(meta ai.Meta) {
	p.opts.Observer.LogOperation(observability.Record{
		Component: "ai_analyzer",
		Operation: "analyze",
		Success:   meta.Model != "",
		Metadata: map[string]any{
			"model":        meta.Model,
			"models_tried": strings.Join(meta.ModelsTried, ","),
			"attempts":     meta.Attempts,
			"tokens_in":    meta.TokensIn,
			"tokens_out":   meta.TokensOut,
		},
	})
}

func locatedSpans(flags []detector.Flag) int {
	count := 0
	for _, f := range flags {
		if f.SpanStart != nil {
			count++
		}
	}
	return count
}
