// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package highlight derives topical keywords for flags and marks their
// occurrences in display text.
package highlight

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"clausecheck/internal/detector"
)

// topic maps a display tag to the substrings that trigger it.
type topic struct {
	tag      string
	triggers []string
}

// Taxonomy order is the output order for derived keywords.
var taxonomy = []topic{
	{"payment", []string{"payment", "fee", "invoice", "compensat", "refund", "price"}},
	{"liability", []string{"liabilit", "indemn", "hold harmless", "damages"}},
	{"termination", []string{"terminat", "cancel", "expir"}},
	{"confidentiality", []string{"confidential", "non-disclosure", "nda", "proprietary information"}},
	{"intellectual property", []string{"intellectual property", "copyright", "patent", "trademark", "work made for hire", "license"}},
	{"governing law", []string{"governing law", "jurisdiction", "dispute", "arbitration", "venue"}},
	{"deadlines", []string{"deadline", "delivery", "due date", "milestone", "time is of the essence"}},
	{"warranty", []string{"warrant", "guarantee", "as is", "as-is"}},
}

var severityTags = map[detector.Severity]string{
	detector.SeverityHigh:   "critical",
	detector.SeverityMedium: "caution",
	detector.SeverityLow:    "advisory",
}

// KeywordsFor derives the topical tags for a flag from its clause and
// rationale, plus a severity-derived tag. The result is de-duplicated;
// order follows the taxonomy.
func KeywordsFor(f detector.Flag) []string {
	haystack := strings.ToLower(f.Clause + " " + f.Rationale)

	var keywords []string
	for _, tp := range taxonomy {
		for _, trigger := range tp.triggers {
			if strings.Contains(haystack, trigger) {
				keywords = append(keywords, tp.tag)
				break
			}
		}
	}
	if tag, ok := severityTags[f.Severity]; ok {
		keywords = append(keywords, tag)
	}
	return keywords
}

// Markers wrapped around highlighted matches.
const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

var (
	patternMu    sync.Mutex
	patternCache = map[string]*regexp.Regexp{}
)

// Highlight wraps whole-word, case-insensitive occurrences of keywords
// in text with highlight markers. Longer keywords match first so a
// shorter keyword never splits a longer one's match. Empty text or an
// empty keyword set returns text unchanged.
func Highlight(text string, keywords []string) string {
	if text == "" || len(keywords) == 0 {
		return text
	}

	re := pattern(keywords)
	if re == nil {
		return text
	}
	return re.ReplaceAllString(text, MarkOpen+"${0}"+MarkClose)
}

// pattern builds (and caches) the alternation regexp for a keyword set.
// Keywords are quoted before compilation so special characters cannot
// produce a malformed or surprising pattern.
func pattern(keywords []string) *regexp.Regexp {
	cleaned := make([]string, 0, len(keywords))
	seen := make(map[string]bool)
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" || seen[strings.ToLower(kw)] {
			continue
		}
		seen[strings.ToLower(kw)] = true
		cleaned = append(cleaned, kw)
	}
	if len(cleaned) == 0 {
		return nil
	}
	sort.Slice(cleaned, func(i, j int) bool { return len(cleaned[i]) > len(cleaned[j]) })

	quoted := make([]string, len(cleaned))
	for i, kw := range cleaned {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	expr := `(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`

	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := patternCache[expr]; ok {
		return re
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil
	}
	patternCache[expr] = re
	return re
}
