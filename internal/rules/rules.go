// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package rules implements the pattern-based clause detector. It scans
// contract text for catalog phrases and emits at most one flag per
// pattern, independent of any remote analyzer.
package rules

import (
	"fmt"
	"strings"

	"clausecheck/internal/catalog"
	"clausecheck/internal/detector"
)

const (
	maxClauseExcerpt = 240
	fallbackWindow   = 120
)

// Detect scans text for catalog phrases and returns a rule-only analysis
// result. It is a pure function: empty or short input yields zero flags
// and a "no significant risk" summary.
func Detect(text string) detector.AnalysisResult {
	lower := strings.ToLower(text)

	var flags []detector.Flag
	for _, entry := range catalog.Entries() {
		idx := strings.Index(lower, entry.Phrase)
		if idx < 0 {
			continue
		}
		// First occurrence only. One flag per pattern bounds output
		// size on documents full of repeated boilerplate.
		flags = append(flags, detector.Flag{
			Clause:     clauseAt(text, idx, idx+len(entry.Phrase)),
			Severity:   entry.Severity,
			Rationale:  entry.Rationale,
			Suggestion: entry.Suggestion,
			Source:     detector.SourceRule,
		})
	}

	risk := detector.OverallRiskOf(flags)
	return detector.AnalysisResult{
		OverallRisk: risk,
		Summary:     summarize(len(flags), risk),
		Flags:       flags,
	}
}

// clauseAt extracts the sentence enclosing the match at [start, end),
// falling back to a fixed window around the match when sentence
// splitting finds nothing usable.
func clauseAt(text string, start, end int) string {
	if s, e, ok := sentenceBounds(text, start); ok {
		if clause := strings.TrimSpace(text[s:e]); clause != "" {
			return detector.Truncate(clause, maxClauseExcerpt)
		}
	}

	ws := start - fallbackWindow
	if ws < 0 {
		ws = 0
	}
	we := end + fallbackWindow
	if we > len(text) {
		we = len(text)
	}
	return detector.Truncate(strings.TrimSpace(text[ws:we]), maxClauseExcerpt)
}

// sentenceBounds finds the sentence containing offset, where sentences
// terminate at '.', '!', or '?'. Trailing text without terminal
// punctuation counts as a final sentence.
func sentenceBounds(text string, offset int) (int, int, bool) {
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			end := i + 1
			if offset >= start && offset < end {
				return start, end, true
			}
			start = end
		}
	}
	if offset >= start && start < len(text) {
		return start, len(text), true
	}
	return 0, 0, false
}

func summarize(count int, risk detector.Severity) string {
	if count == 0 {
		return "No significant risk patterns were detected in this document."
	}
	switch risk {
	case detector.SeverityHigh:
		return fmt.Sprintf("Found %d potential issue(s), including high-risk terms that warrant close review before signing.", count)
	case detector.SeverityMedium:
		return fmt.Sprintf("Found %d potential issue(s); review the flagged clauses before signing.", count)
	default:
		return fmt.Sprintf("Found %d potential issue(s); nothing beyond routine contract terms was detected.", count)
	}
}
