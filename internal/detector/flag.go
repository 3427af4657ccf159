// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import "strings"

// Severity classifies how risky a detected clause is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Field length ceilings enforced at the system boundary.
const (
	MaxClauseLen     = 600
	MaxRationaleLen  = 400
	MaxSuggestionLen = 400
)

// Rank returns an ordering value for severity comparison. Unknown
// severities rank below low so they never win a merge.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Valid reports whether s is one of the three known severities.
func (s Severity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// ParseSeverity converts a string to a Severity, case-insensitively.
func ParseSeverity(raw string) (Severity, bool) {
	s := Severity(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// MaxSeverity returns the higher of two severities.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Source identifies which analysis path produced a flag. It is used
// during merging only and is not exposed in API responses.
type Source string

const (
	SourceRule Source = "rule"
	SourceAI   Source = "ai"
)

// Flag is a single detected risk item in a contract.
type Flag struct {
	Clause     string   `json:"clause"`
	Severity   Severity `json:"severity"`
	Rationale  string   `json:"rationale"`
	Suggestion string   `json:"suggestion"`
	SpanStart  *int     `json:"span_start"`
	SpanEnd    *int     `json:"span_end"`
	Context    string   `json:"context"`
	Keywords   []string `json:"keywords"`
	Source     Source   `json:"-" yaml:"-"`
}

// AnalysisResult is the aggregate produced for one contract submission.
// OverallRisk always equals the maximum severity among Flags (low when
// Flags is empty).
type AnalysisResult struct {
	OverallRisk    Severity `json:"overall_risk"`
	Summary        string   `json:"summary"`
	Flags          []Flag   `json:"flags"`
	AIRan          bool     `json:"ai_ran"`
	AIFallbackUsed bool     `json:"ai_fallback_used"`
	// Notes carries degraded-mode annotations (for example a skipped
	// moderation check) without failing the request.
	Notes []string `json:"notes,omitempty"`
}

// RedlineResult is the rendered diff for one clause rewrite.
type RedlineResult struct {
	Original  string `json:"original"`
	Rewrite   string `json:"rewrite"`
	HTML      string `json:"html"`
	PlainDiff string `json:"plain_diff"`
}

// Normalize returns a copy of f that is safe to hand to rendering code:
// severity defaulted to low when unknown, rationale/suggestion defaulted
// to empty strings, over-long fields truncated. A flag with an empty
// clause is unusable; NormalizeFlags drops those.
func Normalize(f Flag) Flag {
	f.Clause = Truncate(strings.TrimSpace(f.Clause), MaxClauseLen)
	if !f.Severity.Valid() {
		f.Severity = SeverityLow
	}
	f.Rationale = Truncate(strings.TrimSpace(f.Rationale), MaxRationaleLen)
	f.Suggestion = Truncate(strings.TrimSpace(f.Suggestion), MaxSuggestionLen)
	if f.Keywords == nil {
		f.Keywords = []string{}
	}
	return f
}

// NormalizeFlags normalizes every flag and drops any with an empty clause.
func NormalizeFlags(flags []Flag) []Flag {
	out := make([]Flag, 0, len(flags))
	for _, f := range flags {
		n := Normalize(f)
		if n.Clause == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Truncate shortens s to at most limit characters, appending an ellipsis
// marker when truncation happened.
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit - 3
	if cut < 0 {
		cut = 0
	}
	return s[:cut] + "..."
}

// OverallRiskOf computes the maximum severity across flags, defaulting
// to low for an empty set.
func OverallRiskOf(flags []Flag) Severity {
	risk := SeverityLow
	for _, f := range flags {
		risk = MaxSeverity(risk, f.Severity)
	}
	return risk
}
