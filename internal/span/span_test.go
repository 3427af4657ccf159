// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package span

import (
	"strings"
	"testing"

	"clausecheck/internal/detector"
)

const doc = "This Agreement is made between the parties. " +
	"Supplier shall indemnify and hold harmless Buyer against all third-party claims. " +
	"Payment is due within thirty days of invoice. " +
	"This Agreement shall be governed by the laws of Delaware."

func TestLocateExactSubstring(t *testing.T) {
	clause := "Payment is due within thirty days of invoice."
	loc := Locate(doc, clause)

	if !loc.Located {
		t.Fatal("expected a located span")
	}
	if got := doc[loc.Start:loc.End]; !strings.EqualFold(got, clause) {
		t.Errorf("source[start:end] = %q, want %q", got, clause)
	}
	if loc.Context == "" {
		t.Error("context must not be empty")
	}
}

func TestLocateExactSubstringCaseInsensitive(t *testing.T) {
	clause := "PAYMENT IS DUE WITHIN THIRTY DAYS OF INVOICE."
	loc := Locate(doc, clause)
	if !loc.Located {
		t.Fatal("case-insensitive exact match should locate")
	}
	if got := doc[loc.Start:loc.End]; !strings.EqualFold(got, clause) {
		t.Errorf("source[start:end] = %q, want %q (case-insensitive)", got, clause)
	}
}

func TestLocateContextMarkers(t *testing.T) {
	// Matching in the middle of a long document clamps context on both
	// sides and marks both ends.
	long := strings.Repeat("lorem ipsum dolor sit amet ", 20) +
		"Supplier shall indemnify Buyer here. " +
		strings.Repeat("lorem ipsum dolor sit amet ", 20)
	loc := Locate(long, "Supplier shall indemnify Buyer here.")
	if !loc.Located {
		t.Fatal("expected a located span")
	}
	if !strings.HasPrefix(loc.Context, "...") || !strings.HasSuffix(loc.Context, "...") {
		t.Errorf("clamped context should carry ellipsis markers: %q", loc.Context)
	}
}

func TestLocateMiddleWordsFallback(t *testing.T) {
	// The clause's head and tail are paraphrased, but its middle twelve
	// words survive verbatim in the source.
	source := "Preamble text here. The vendor will defend and settle any claim brought against the customer arising from the services provided hereunder at its own expense. Closing text."
	clause := "MANGLED LEAD-IN will defend and settle any claim brought against the customer arising from the MANGLED TAIL END HERE"
	loc := Locate(source, clause)
	if !loc.Located {
		t.Fatal("middle-words strategy should locate")
	}
	if !strings.Contains(source[loc.Start:loc.End], "claim brought against the customer") {
		t.Errorf("unexpected span text: %q", source[loc.Start:loc.End])
	}
}

func TestLocateKeywordSentenceFallback(t *testing.T) {
	source := "First sentence is plain. The parties agree to binding arbitration in Delaware. Final sentence is plain."
	clause := "completely unrelated paraphrase that matches nothing verbatim"
	loc := Locate(source, clause)
	if !loc.Located {
		t.Fatal("keyword-sentence strategy should locate")
	}
	if !strings.Contains(source[loc.Start:loc.End], "arbitration") {
		t.Errorf("span should cover the keyword sentence, got %q", source[loc.Start:loc.End])
	}
	// Context joins previous + matched + next sentences.
	for _, want := range []string{"First sentence is plain.", "arbitration", "Final sentence is plain."} {
		if !strings.Contains(loc.Context, want) {
			t.Errorf("context missing %q: %q", want, loc.Context)
		}
	}
}

func TestLocateTotalMiss(t *testing.T) {
	source := "Plain text with no shared vocabulary at all."
	clause := strings.Repeat("zzz unmatched clause content ", 20)
	loc := Locate(source, clause)
	if loc.Located {
		t.Error("expected no span on total miss")
	}
	if loc.Context == "" {
		t.Error("context must still be populated on a miss")
	}
	if len(loc.Context) > 200 {
		t.Errorf("miss context length %d exceeds bound", len(loc.Context))
	}
}

func TestLocateNeverEmptyContext(t *testing.T) {
	cases := []struct{ source, clause string }{
		{"", "some clause"},
		{doc, ""},
		{"", ""},
		{doc, "no overlap whatsoever qqq"},
	}
	for _, c := range cases {
		loc := Locate(c.source, c.clause)
		_ = loc.Context // must not panic; context may be empty only when clause is empty
		if c.clause != "" && !loc.Located && loc.Context == "" {
			t.Errorf("Locate(%q, %q) returned empty context", c.source, c.clause)
		}
	}
}

func TestEnrichPopulatesSpansAndKeywords(t *testing.T) {
	flags := []detector.Flag{
		{Clause: "Payment is due within thirty days of invoice.", Severity: detector.SeverityLow},
		{Clause: "matches nothing in the document qqq", Severity: detector.SeverityMedium},
	}
	enriched := Enrich(doc, flags, func(detector.Flag) []string { return []string{"payment"} })

	if len(enriched) != 2 {
		t.Fatalf("expected 2 flags, got %d", len(enriched))
	}
	if enriched[0].SpanStart == nil || enriched[0].SpanEnd == nil {
		t.Error("exact-match flag should have a span")
	}
	for _, f := range enriched {
		if f.Context == "" {
			t.Errorf("flag %q has empty context", f.Clause)
		}
		if len(f.Keywords) == 0 {
			t.Errorf("flag %q missing keywords", f.Clause)
		}
	}
}
