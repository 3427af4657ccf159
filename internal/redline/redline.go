// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package redline renders a word-level tracked-changes diff between an
// original clause and its rewrite.
package redline

import (
	"html"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"clausecheck/internal/detector"
)

// Op classifies a diff segment.
type Op int

const (
	OpEqual Op = iota
	OpDelete
	OpInsert
)

// Segment is one run of the word-level diff. Concatenating the Text of
// all non-insert segments reproduces the original string; all non-delete
// segments reproduce the rewrite.
type Segment struct {
	Op   Op
	Text string
}

// Redline diffs original against rewrite at word granularity and renders
// both an HTML view (del/ins markup, all literal text escaped) and a
// plain-text bracket notation ([-removed-], {+added+}).
func Redline(original, rewrite string) detector.RedlineResult {
	segments := WordDiff(original, rewrite)

	var htmlOut, plain strings.Builder
	for _, seg := range segments {
		escaped := html.EscapeString(seg.Text)
		switch seg.Op {
		case OpDelete:
			htmlOut.WriteString("<del>" + escaped + "</del>")
			plain.WriteString("[-" + seg.Text + "-]")
		case OpInsert:
			htmlOut.WriteString("<ins>" + escaped + "</ins>")
			plain.WriteString("{+" + seg.Text + "+}")
		default:
			htmlOut.WriteString(escaped)
			plain.WriteString(seg.Text)
		}
	}

	return detector.RedlineResult{
		Original:  original,
		Rewrite:   rewrite,
		HTML:      htmlOut.String(),
		PlainDiff: plain.String(),
	}
}

// FallbackRewrite builds a deterministic rewrite when no AI rewrite is
// available: the original clause with the suggestion appended
// parenthetically. An empty suggestion returns the original unchanged,
// keeping the diff well-defined without a remote call.
func FallbackRewrite(original, suggestion string) string {
	suggestion = strings.TrimSpace(suggestion)
	if suggestion == "" {
		return original
	}
	return strings.TrimRight(original, " ") + " (" + suggestion + ")"
}

// WordDiff computes a word-level diff. Tokens are words and the
// separator runs between them, so reassembling either side is exact.
// The token streams are mapped onto private runes and diffed with
// diffmatchpatch, then mapped back.
func WordDiff(original, rewrite string) []Segment {
	enc := newTokenEncoder()
	r1 := enc.encode(tokenize(original))
	r2 := enc.encode(tokenize(rewrite))

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(r1, r2, false)

	segments := make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		text := enc.decode([]rune(d.Text))
		if text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			segments = append(segments, Segment{Op: OpDelete, Text: text})
		case diffmatchpatch.DiffInsert:
			segments = append(segments, Segment{Op: OpInsert, Text: text})
		default:
			segments = append(segments, Segment{Op: OpEqual, Text: text})
		}
	}
	return coalesce(segments)
}

// coalesce joins adjacent segments with the same op.
func coalesce(segments []Segment) []Segment {
	out := segments[:0]
	for _, seg := range segments {
		if n := len(out); n > 0 && out[n-1].Op == seg.Op {
			out[n-1].Text += seg.Text
			continue
		}
		out = append(out, seg)
	}
	return out
}

// tokenize splits text into alternating word and separator tokens.
// Every byte of the input lands in exactly one token.
func tokenize(text string) []string {
	var tokens []string
	start := 0
	inWord := false
	for i, r := range text {
		word := isWordRune(r)
		if i == 0 {
			inWord = word
			continue
		}
		if word != inWord {
			tokens = append(tokens, text[start:i])
			start = i
			inWord = word
		}
	}
	if start < len(text) {
		tokens = append(tokens, text[start:])
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || r == '-' || r == '\'' ||
		('0' <= r && r <= '9') ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z') ||
		r > 127
}

// tokenEncoder maps distinct tokens to distinct runes so the rune-based
// diff operates on whole words. Indices are offset past the surrogate
// range, which cannot round-trip through a Go string.
type tokenEncoder struct {
	index  map[string]rune
	tokens []string
}

func newTokenEncoder() *tokenEncoder {
	return &tokenEncoder{index: make(map[string]rune)}
}

func (e *tokenEncoder) encode(tokens []string) []rune {
	runes := make([]rune, len(tokens))
	for i, tok := range tokens {
		r, ok := e.index[tok]
		if !ok {
			r = indexToRune(len(e.tokens))
			e.index[tok] = r
			e.tokens = append(e.tokens, tok)
		}
		runes[i] = r
	}
	return runes
}

func (e *tokenEncoder) decode(runes []rune) string {
	var b strings.Builder
	for _, r := range runes {
		idx := runeToIndex(r)
		if idx >= 0 && idx < len(e.tokens) {
			b.WriteString(e.tokens[idx])
		}
	}
	return b.String()
}

const surrogateStart = 0xD800
const surrogateSize = 0x800

func indexToRune(i int) rune {
	r := rune(i + 1)
	if r >= surrogateStart {
		r += surrogateSize
	}
	return r
}

func runeToIndex(r rune) int {
	if r >= surrogateStart+surrogateSize {
		r -= surrogateSize
	}
	return int(r) - 1
}
