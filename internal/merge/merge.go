// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package merge reconciles rule-engine and AI-analyzer results into one
// de-duplicated flag set.
package merge

import (
	"strings"

	"clausecheck/internal/detector"
)

// keyLen bounds the de-duplication key so near-identical long clauses
// with divergent tails still collide.
const keyLen = 140

// Merge combines a rule result and an AI result. Flags are de-duplicated
// by normalized clause; on collision the longer clause wins, AI
// rationale/suggestion win when present, and severity resolves upward
// with AI winning ties. Overall risk is the max of the two inputs and
// the AI summary is preferred when non-empty.
func Merge(rule, ai detector.AnalysisResult) detector.AnalysisResult {
	keys := make([]string, 0, len(rule.Flags)+len(ai.Flags))
	byKey := make(map[string]detector.Flag)

	for _, f := range rule.Flags {
		k := dedupeKey(f.Clause)
		if _, exists := byKey[k]; !exists {
			keys = append(keys, k)
		}
		byKey[k] = f
	}

	for _, aiFlag := range ai.Flags {
		k := dedupeKey(aiFlag.Clause)
		existing, exists := byKey[k]
		if !exists {
			keys = append(keys, k)
			byKey[k] = aiFlag
			continue
		}
		byKey[k] = reconcile(existing, aiFlag)
	}

	flags := make([]detector.Flag, 0, len(keys))
	for _, k := range keys {
		flags = append(flags, byKey[k])
	}

	summary := ai.Summary
	if summary == "" {
		summary = rule.Summary
	}

	return detector.AnalysisResult{
		OverallRisk: detector.MaxSeverity(rule.OverallRisk, ai.OverallRisk),
		Summary:     summary,
		Flags:       flags,
	}
}

// reconcile merges an AI flag into a rule flag sharing the same key.
// Severity ties go to the AI flag; an AI escalation is never downgraded
// by a weaker rule match.
func reconcile(ruleFlag, aiFlag detector.Flag) detector.Flag {
	merged := aiFlag

	if len(ruleFlag.Clause) > len(aiFlag.Clause) {
		merged.Clause = ruleFlag.Clause
	}
	if merged.Rationale == "" {
		merged.Rationale = ruleFlag.Rationale
	}
	if merged.Suggestion == "" {
		merged.Suggestion = ruleFlag.Suggestion
	}
	if ruleFlag.Severity.Rank() > aiFlag.Severity.Rank() {
		merged.Severity = ruleFlag.Severity
	}
	return merged
}

// dedupeKey normalizes a clause for de-duplication: lowercase, collapsed
// whitespace, bounded length.
func dedupeKey(clause string) string {
	key := strings.ToLower(strings.TrimSpace(clause))
	key = strings.Join(strings.Fields(key), " ")
	if len(key) > keyLen {
		key = key[:keyLen]
	}
	return key
}
