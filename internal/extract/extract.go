// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extract turns uploaded documents into analyzable plain text.
// It handles UTF-8 text files and PDFs; anything it cannot turn into
// usable text comes back with notes explaining why instead of silently
// producing garbage for the analyzers downstream.
package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// maxPages bounds PDF processing time on very large documents.
const maxPages = 50

var pdfMagic = []byte("%PDF-")

// Result is the outcome of one extraction. Notes carry human-readable
// caveats (truncation, unreadable pages, suspected scanned images);
// they accompany the result rather than failing it.
type Result struct {
	Text      string
	PageCount int
	Notes     []string
}

// Usable reports whether the extracted text is worth analyzing: it is
// non-empty and mostly printable. A scanned-image PDF with no text
// layer typically fails this check.
func (r Result) Usable() bool {
	text := strings.TrimSpace(r.Text)
	if text == "" {
		return false
	}
	return printableRatio(text) >= 0.8
}

// FromBytes dispatches on content: PDFs are recognized by their magic
// prefix, everything else is treated as plain text.
func FromBytes(data []byte) (Result, error) {
	if bytes.HasPrefix(data, pdfMagic) {
		return FromPDF(data)
	}
	return FromPlainText(data)
}

// FromPlainText accepts a UTF-8 text document as-is, normalizing line
// endings and rejecting binary content.
func FromPlainText(data []byte) (Result, error) {
	if bytes.ContainsRune(data, 0) {
		return Result{}, fmt.Errorf("file is binary, not text")
	}
	if !utf8.Valid(data) {
		return Result{}, fmt.Errorf("file is not valid UTF-8 text")
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	result := Result{Text: strings.TrimSpace(text)}
	if result.Text == "" {
		result.Notes = append(result.Notes, "file contains no text")
	}
	return result, nil
}

// FromPDF validates the document and extracts its text layer page by
// page. Unreadable pages are skipped and noted; a structurally broken
// PDF is an error.
func FromPDF(data []byte) (Result, error) {
	if err := api.Validate(bytes.NewReader(data), model.NewDefaultConfiguration()); err != nil {
		return Result{}, fmt.Errorf("invalid PDF: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("reading PDF: %w", err)
	}

	result := Result{PageCount: reader.NumPage()}

	pages := result.PageCount
	if pages > maxPages {
		pages = maxPages
		result.Notes = append(result.Notes,
			fmt.Sprintf("document truncated to the first %d of %d pages", maxPages, result.PageCount))
	}

	var buf bytes.Buffer
	failed := 0
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			failed++
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			failed++
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(strings.TrimSpace(text))
	}

	result.Text = cleanText(buf.String())
	if failed > 0 {
		result.Notes = append(result.Notes,
			fmt.Sprintf("%d of %d pages yielded no text", failed, pages))
	}
	if strings.TrimSpace(result.Text) == "" {
		result.Notes = append(result.Notes,
			"no extractable text; the document may be a scanned image without a text layer")
	}
	return result, nil
}

// cleanText collapses extraction artifacts while keeping line structure,
// so clause boundaries survive into span location.
func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	var kept []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func printableRatio(text string) float64 {
	printable := 0
	total := 0
	for _, r := range text {
		total++
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			printable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(printable) / float64(total)
}
