// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package span locates a clause inside the source document it was
// extracted from. Clause text frequently differs from the source
// verbatim, especially when produced by the remote analyzer, so location
// is a tiered best-effort search that always returns usable context.
package span

import (
	"strings"

	"clausecheck/internal/detector"
)

const (
	contextPad       = 150
	middleWordsCount = 12
	missContextLimit = 200
)

// riskKeywords drives the tier-3 sentence fallback. It is a superset of
// the rule catalog's phrase list and intentionally maintained separately.
var riskKeywords = []string{
	"indemnify",
	"indemnification",
	"hold harmless",
	"liability",
	"liquidated damages",
	"arbitration",
	"jury trial",
	"class action",
	"renewal",
	"automatically renew",
	"auto-renew",
	"confidential",
	"non-disclosure",
	"warranty",
	"warranties",
	"as-is",
	"as is",
	"force majeure",
	"governing law",
	"jurisdiction",
	"non-compete",
	"non-solicit",
	"intellectual property",
	"work made for hire",
	"termination",
	"terminate",
	"breach",
	"penalty",
	"exclusivity",
	"assignment",
	"severability",
	"waiver",
}

// Location is the best-effort position of a clause within a document.
// When Located is false, Start and End are meaningless and Context holds
// a truncated copy of the clause itself.
type Location struct {
	Start   int
	End     int
	Located bool
	Context string
}

// Locate finds clause within source using three strategies of decreasing
// precision: exact case-insensitive substring, a middle-words slice of
// the clause, then the first sentence containing a risk keyword. It
// never fails; a total miss returns the clause itself as context.
func Locate(source, clause string) Location {
	lowerSource := strings.ToLower(source)
	trimmed := strings.TrimSpace(clause)

	if trimmed != "" {
		if idx := strings.Index(lowerSource, strings.ToLower(trimmed)); idx >= 0 {
			return located(source, idx, idx+len(trimmed))
		}
	}

	// Leading and trailing words are the part most often mangled by
	// extraction or paraphrasing; a contiguous middle slice survives.
	if middle := middleWords(trimmed); middle != "" {
		if idx := strings.Index(lowerSource, strings.ToLower(middle)); idx >= 0 {
			return located(source, idx, idx+len(middle))
		}
	}

	if loc, ok := keywordSentence(source); ok {
		return loc
	}

	return Location{Context: detector.Truncate(trimmed, missContextLimit)}
}

// Apply copies a location onto a flag, populating span and context.
func Apply(f detector.Flag, loc Location) detector.Flag {
	if loc.Located {
		start, end := loc.Start, loc.End
		f.SpanStart = &start
		f.SpanEnd = &end
	} else {
		f.SpanStart = nil
		f.SpanEnd = nil
	}
	f.Context = loc.Context
	return f
}

// Enrich locates every flag's clause in source and fills in spans,
// context, and highlight keywords via the supplied deriver.
func Enrich(source string, flags []detector.Flag, keywordsFor func(detector.Flag) []string) []detector.Flag {
	out := make([]detector.Flag, len(flags))
	for i, f := range flags {
		enriched := Apply(f, Locate(source, f.Clause))
		if keywordsFor != nil {
			enriched.Keywords = keywordsFor(enriched)
		}
		out[i] = enriched
	}
	return out
}

func located(source string, start, end int) Location {
	// Lowercasing can shift byte offsets on unusual Unicode input; clamp
	// so context slicing stays within the document.
	if end > len(source) {
		end = len(source)
	}
	if start > end {
		start = end
	}
	cs := start - contextPad
	ce := end + contextPad
	prefix, suffix := "", ""
	if cs <= 0 {
		cs = 0
	} else {
		prefix = "..."
	}
	if ce >= len(source) {
		ce = len(source)
	} else {
		suffix = "..."
	}
	return Location{
		Start:   start,
		End:     end,
		Located: true,
		Context: prefix + source[cs:ce] + suffix,
	}
}

// middleWords returns the middle contiguous 12-word slice of clause, or
// "" when the clause is too short for the strategy to add anything.
func middleWords(clause string) string {
	words := strings.Fields(clause)
	if len(words) < middleWordsCount {
		return ""
	}
	start := (len(words) - middleWordsCount) / 2
	return strings.Join(words[start:start+middleWordsCount], " ")
}

// keywordSentence finds the first source sentence containing any risk
// keyword. The span covers the matched sentence only; the context joins
// it with its neighbors when present.
func keywordSentence(source string) (Location, bool) {
	sentences := splitSentences(source)
	for i, s := range sentences {
		if !containsAnyKeyword(strings.ToLower(source[s.start:s.end])) {
			continue
		}
		parts := make([]string, 0, 3)
		if i > 0 {
			parts = append(parts, strings.TrimSpace(source[sentences[i-1].start:sentences[i-1].end]))
		}
		parts = append(parts, strings.TrimSpace(source[s.start:s.end]))
		if i+1 < len(sentences) {
			parts = append(parts, strings.TrimSpace(source[sentences[i+1].start:sentences[i+1].end]))
		}
		return Location{
			Start:   s.start,
			End:     s.end,
			Located: true,
			Context: strings.Join(parts, " "),
		}, true
	}
	return Location{}, false
}

func containsAnyKeyword(lowerSentence string) bool {
	for _, kw := range riskKeywords {
		if strings.Contains(lowerSentence, kw) {
			return true
		}
	}
	return false
}

type sentenceSpan struct {
	start, end int
}

// splitSentences returns offset ranges of sentences terminated by '.',
// '!', or '?', plus any trailing unterminated text.
func splitSentences(text string) []sentenceSpan {
	var spans []sentenceSpan
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if strings.TrimSpace(text[start:i+1]) != "" {
				spans = append(spans, sentenceSpan{start: start, end: i + 1})
			}
			start = i + 1
		}
	}
	if start < len(text) && strings.TrimSpace(text[start:]) != "" {
		spans = append(spans, sentenceSpan{start: start, end: len(text)})
	}
	return spans
}
