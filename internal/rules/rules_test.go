// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"strings"
	"testing"

	"clausecheck/internal/catalog"
	"clausecheck/internal/detector"
)

const sampleContract = "This Agreement shall automatically renew for successive one-year terms " +
	"unless either party provides written notice of non-renewal. " +
	"Developer agrees to indemnify and hold harmless Client from any and all claims arising out of the services."

func TestDetectSampleContract(t *testing.T) {
	result := Detect(sampleContract)

	if len(result.Flags) < 2 {
		t.Fatalf("expected at least 2 flags, got %d", len(result.Flags))
	}
	if result.OverallRisk != detector.SeverityHigh {
		t.Errorf("expected overall risk high, got %s", result.OverallRisk)
	}

	var sawIndemnity, sawRenewal bool
	for _, f := range result.Flags {
		if strings.Contains(strings.ToLower(f.Clause), "indemnify") && f.Severity == detector.SeverityHigh {
			sawIndemnity = true
		}
		if strings.Contains(strings.ToLower(f.Clause), "automatically renew") && f.Severity == detector.SeverityLow {
			sawRenewal = true
		}
	}
	if !sawIndemnity {
		t.Error("expected a high-severity indemnification flag")
	}
	if !sawRenewal {
		t.Error("expected a low-severity auto-renewal flag")
	}
}

func TestDetectOverallRiskEqualsMaxFlagSeverity(t *testing.T) {
	texts := []string{
		"",
		"Nothing remarkable here.",
		"The governing law of this agreement is the State of Delaware.",
		sampleContract,
		"This license is perpetual and exclusive. Payment due with late fee after 30 days.",
	}
	for _, text := range texts {
		result := Detect(text)
		want := detector.OverallRiskOf(result.Flags)
		if result.OverallRisk != want {
			t.Errorf("overall risk %s != max flag severity %s for %q", result.OverallRisk, want, text)
		}
	}
}

func TestDetectOneFlagPerPattern(t *testing.T) {
	// Repeat the same risky sentence many times; each pattern must still
	// fire at most once.
	text := strings.Repeat("Supplier shall indemnify Buyer. This contract shall automatically renew each year. ", 10)
	result := Detect(text)

	counts := make(map[string]int)
	lower := strings.ToLower(text)
	for _, entry := range catalog.Entries() {
		if strings.Contains(lower, entry.Phrase) {
			counts[entry.Phrase] = 0
		}
	}
	if len(result.Flags) > len(counts) {
		t.Errorf("got %d flags for %d matching patterns", len(result.Flags), len(counts))
	}
}

func TestDetectEmptyInput(t *testing.T) {
	result := Detect("")
	if len(result.Flags) != 0 {
		t.Errorf("expected zero flags, got %d", len(result.Flags))
	}
	if result.OverallRisk != detector.SeverityLow {
		t.Errorf("expected low risk, got %s", result.OverallRisk)
	}
	if !strings.Contains(result.Summary, "No significant risk patterns") {
		t.Errorf("unexpected summary: %q", result.Summary)
	}
}

func TestDetectClauseIsEnclosingSentence(t *testing.T) {
	text := "First sentence is harmless. Developer agrees to indemnify Client. Last sentence is harmless."
	result := Detect(text)
	if len(result.Flags) != 1 {
		t.Fatalf("expected 1 flag, got %d", len(result.Flags))
	}
	if result.Flags[0].Clause != "Developer agrees to indemnify Client." {
		t.Errorf("unexpected clause: %q", result.Flags[0].Clause)
	}
}

func TestDetectClauseBounded(t *testing.T) {
	// A giant run-on sentence must be truncated with an ellipsis marker.
	text := "The parties agree to indemnify each other " + strings.Repeat("and cooperate fully ", 50)
	result := Detect(text)
	if len(result.Flags) == 0 {
		t.Fatal("expected a flag")
	}
	clause := result.Flags[0].Clause
	if len(clause) > 240 {
		t.Errorf("clause length %d exceeds excerpt bound", len(clause))
	}
	if !strings.HasSuffix(clause, "...") {
		t.Errorf("truncated clause should end with ellipsis: %q", clause)
	}
}

func TestDetectFlagsAreRuleSourced(t *testing.T) {
	result := Detect(sampleContract)
	for _, f := range result.Flags {
		if f.Source != detector.SourceRule {
			t.Errorf("flag source = %q, want rule", f.Source)
		}
	}
}
