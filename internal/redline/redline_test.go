// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redline

import (
	"strings"
	"testing"
)

// reconstruct rebuilds one side of the diff: the original from non-insert
// segments, the rewrite from non-delete segments.
func reconstruct(segments []Segment, skip Op) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.Op == skip {
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func TestWordDiffRoundTrip(t *testing.T) {
	cases := []struct{ original, rewrite string }{
		{
			"Client may terminate at any time without notice.",
			"Client may terminate upon thirty days written notice.",
		},
		{
			"The Developer shall indemnify the Client.",
			"The parties shall mutually indemnify each other, capped at fees paid.",
		},
		{"", "entirely new text"},
		{"entirely removed text", ""},
		{"identical", "identical"},
		{"tabs\tand\nnewlines stay", "tabs\tand\nnewlines stay intact"},
	}
	for _, c := range cases {
		segments := WordDiff(c.original, c.rewrite)
		if got := reconstruct(segments, OpInsert); got != c.original {
			t.Errorf("original round-trip failed:\n got %q\nwant %q", got, c.original)
		}
		if got := reconstruct(segments, OpDelete); got != c.rewrite {
			t.Errorf("rewrite round-trip failed:\n got %q\nwant %q", got, c.rewrite)
		}
	}
}

func TestWordDiffWordGranularity(t *testing.T) {
	segments := WordDiff("the quick brown fox", "the slow brown fox")
	for _, seg := range segments {
		if seg.Op == OpEqual {
			continue
		}
		if strings.Contains(seg.Text, "brown") || strings.Contains(seg.Text, "fox") {
			t.Errorf("unchanged words appear in a changed segment: %+v", seg)
		}
	}
	var deleted, inserted string
	for _, seg := range segments {
		switch seg.Op {
		case OpDelete:
			deleted += seg.Text
		case OpInsert:
			inserted += seg.Text
		}
	}
	if !strings.Contains(deleted, "quick") {
		t.Errorf("expected 'quick' deleted, got %q", deleted)
	}
	if !strings.Contains(inserted, "slow") {
		t.Errorf("expected 'slow' inserted, got %q", inserted)
	}
}

func TestRedlineNoChange(t *testing.T) {
	text := "Client may terminate at any time."
	result := Redline(text, text)

	if strings.Contains(result.HTML, "<del>") || strings.Contains(result.HTML, "<ins>") {
		t.Errorf("identical input must produce no change markers: %q", result.HTML)
	}
	if result.HTML != text {
		t.Errorf("html should be the escaped original text: %q", result.HTML)
	}
	if result.PlainDiff != text {
		t.Errorf("plain diff should equal the original: %q", result.PlainDiff)
	}
}

func TestRedlineMarkup(t *testing.T) {
	result := Redline("payment due in 30 days", "payment due in 45 days")
	if !strings.Contains(result.HTML, "<del>30</del>") {
		t.Errorf("expected deletion markup for '30': %q", result.HTML)
	}
	if !strings.Contains(result.HTML, "<ins>45</ins>") {
		t.Errorf("expected insertion markup for '45': %q", result.HTML)
	}
	if !strings.Contains(result.PlainDiff, "[-30-]") || !strings.Contains(result.PlainDiff, "{+45+}") {
		t.Errorf("expected bracket notation: %q", result.PlainDiff)
	}
}

func TestRedlineEscapesHTML(t *testing.T) {
	result := Redline("a < b", "a <script>alert(1)</script> b")
	if strings.Contains(result.HTML, "<script>") {
		t.Errorf("rewrite markup must be escaped: %q", result.HTML)
	}
	if !strings.Contains(result.HTML, "&lt;") {
		t.Errorf("expected escaped angle brackets: %q", result.HTML)
	}
}

func TestFallbackRewrite(t *testing.T) {
	got := FallbackRewrite("Clause text.", "add a liability cap")
	want := "Clause text. (add a liability cap)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := FallbackRewrite("Clause text.", "   "); got != "Clause text." {
		t.Errorf("empty suggestion should return the original, got %q", got)
	}
}

func TestRedlineResultCarriesInputs(t *testing.T) {
	result := Redline("before", "after")
	if result.Original != "before" || result.Rewrite != "after" {
		t.Errorf("result should carry inputs verbatim: %+v", result)
	}
}
