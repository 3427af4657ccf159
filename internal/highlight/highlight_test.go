// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package highlight

import (
	"strings"
	"testing"

	"clausecheck/internal/detector"
)

func TestKeywordsForTopics(t *testing.T) {
	f := detector.Flag{
		Clause:    "Developer agrees to indemnify Client and assign all copyright in deliverables.",
		Rationale: "Indemnification creates open-ended liability.",
		Severity:  detector.SeverityHigh,
	}
	keywords := KeywordsFor(f)

	want := map[string]bool{"liability": true, "intellectual property": true, "critical": true}
	got := make(map[string]bool)
	for _, kw := range keywords {
		if got[kw] {
			t.Errorf("duplicate keyword %q", kw)
		}
		got[kw] = true
	}
	for kw := range want {
		if !got[kw] {
			t.Errorf("missing keyword %q in %v", kw, keywords)
		}
	}
}

func TestKeywordsForSeverityTag(t *testing.T) {
	tests := []struct {
		severity detector.Severity
		tag      string
	}{
		{detector.SeverityHigh, "critical"},
		{detector.SeverityMedium, "caution"},
		{detector.SeverityLow, "advisory"},
	}
	for _, tt := range tests {
		keywords := KeywordsFor(detector.Flag{Clause: "plain clause", Severity: tt.severity})
		found := false
		for _, kw := range keywords {
			if kw == tt.tag {
				found = true
			}
		}
		if !found {
			t.Errorf("severity %s should derive tag %q, got %v", tt.severity, tt.tag, keywords)
		}
	}
}

func TestHighlightNoOps(t *testing.T) {
	if got := Highlight("some text", nil); got != "some text" {
		t.Errorf("empty keywords should return input unchanged, got %q", got)
	}
	if got := Highlight("some text", []string{}); got != "some text" {
		t.Errorf("empty keyword slice should return input unchanged, got %q", got)
	}
	if got := Highlight("", []string{"liability"}); got != "" {
		t.Errorf("empty text should return empty string, got %q", got)
	}
}

func TestHighlightWholeWord(t *testing.T) {
	got := Highlight("The fee schedule and coffee breaks.", []string{"fee"})
	if !strings.Contains(got, MarkOpen+"fee"+MarkClose+" schedule") {
		t.Errorf("expected whole word 'fee' highlighted: %q", got)
	}
	if strings.Contains(got, "cof"+MarkOpen) || strings.Contains(got, MarkOpen+"fee"+MarkClose+" breaks") {
		t.Errorf("'coffee' must not be partially highlighted: %q", got)
	}
}

func TestHighlightCaseInsensitivePreservesOriginal(t *testing.T) {
	got := Highlight("LIABILITY is capped. Liability survives.", []string{"liability"})
	if !strings.Contains(got, MarkOpen+"LIABILITY"+MarkClose) {
		t.Errorf("uppercase occurrence should be highlighted with original casing: %q", got)
	}
	if !strings.Contains(got, MarkOpen+"Liability"+MarkClose) {
		t.Errorf("title-case occurrence should be highlighted with original casing: %q", got)
	}
}

func TestHighlightLongestKeywordFirst(t *testing.T) {
	got := Highlight("intellectual property rights", []string{"property", "intellectual property"})
	if !strings.Contains(got, MarkOpen+"intellectual property"+MarkClose) {
		t.Errorf("longest keyword should win: %q", got)
	}
	if strings.Contains(got, MarkOpen+"intellectual "+MarkOpen) {
		t.Errorf("nested markers detected: %q", got)
	}
}

func TestHighlightSpecialCharacterKeyword(t *testing.T) {
	// Keywords containing regexp metacharacters must be neutralized,
	// never compiled as syntax.
	got := Highlight("a (fee) applies", []string{"(fee)"})
	if got == "" {
		t.Fatal("highlight must not fail on special characters")
	}
	got2 := Highlight("anything", []string{"a+b*c"})
	if got2 != "anything" {
		t.Errorf("non-matching special keyword should leave text unchanged: %q", got2)
	}
}
