// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"clausecheck/internal/detector"
)

// Response schema bounds. Matching limits appear verbatim in the system
// prompt so the model and the validator agree.
const (
	maxSummaryLen = 600
	maxFlags      = 40
)

type wireResult struct {
	OverallRisk string     `json:"overall_risk"`
	Summary     string     `json:"summary"`
	Flags       []wireFlag `json:"flags"`
}

type wireFlag struct {
	Clause     string `json:"clause"`
	Severity   string `json:"severity"`
	Rationale  string `json:"rationale"`
	Suggestion string `json:"suggestion"`
}

// parseResult decodes and validates a model response against the
// required schema. Any deviation fails the whole parse; the adapter
// never passes a partially-valid result downstream.
func parseResult(raw string) (detector.AnalysisResult, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return detector.AnalysisResult{}, fmt.Errorf("response contains no JSON object")
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return detector.AnalysisResult{}, fmt.Errorf("response is not valid JSON: %w", err)
	}

	risk, ok := detector.ParseSeverity(wire.OverallRisk)
	if !ok {
		return detector.AnalysisResult{}, fmt.Errorf("overall_risk %q is not one of low/medium/high", wire.OverallRisk)
	}
	if len(wire.Flags) > maxFlags {
		return detector.AnalysisResult{}, fmt.Errorf("%d flags exceeds the limit of %d", len(wire.Flags), maxFlags)
	}

	flags := make([]detector.Flag, 0, len(wire.Flags))
	for i, wf := range wire.Flags {
		if strings.TrimSpace(wf.Clause) == "" {
			return detector.AnalysisResult{}, fmt.Errorf("flag %d has an empty clause", i)
		}
		severity, ok := detector.ParseSeverity(wf.Severity)
		if !ok {
			return detector.AnalysisResult{}, fmt.Errorf("flag %d severity %q is not one of low/medium/high", i, wf.Severity)
		}
		flags = append(flags, detector.Normalize(detector.Flag{
			Clause:     wf.Clause,
			Severity:   severity,
			Rationale:  wf.Rationale,
			Suggestion: wf.Suggestion,
			Source:     detector.SourceAI,
		}))
	}

	// The model's stated risk may disagree with its own flags; the
	// higher of the two wins so risk is never understated.
	risk = detector.MaxSeverity(risk, detector.OverallRiskOf(flags))

	return detector.AnalysisResult{
		OverallRisk: risk,
		Summary:     detector.Truncate(strings.TrimSpace(wire.Summary), maxSummaryLen),
		Flags:       flags,
	}, nil
}

// extractJSON pulls the outermost JSON object out of a response that may
// be wrapped in code fences or prose.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
