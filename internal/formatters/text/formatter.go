// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"sort"
	"strings"

	"clausecheck/internal/detector"
	"clausecheck/internal/formatters"

	"github.com/fatih/color"
)

func init() {
	formatters.Register(NewFormatter())
}

// Formatter implements text-based output formatting.
type Formatter struct {
	colors map[detector.Severity]*color.Color
	plain  *color.Color
}

// NewFormatter creates a new text formatter.
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[detector.Severity]*color.Color{
			detector.SeverityHigh:   color.New(color.FgRed, color.Bold),
			detector.SeverityMedium: color.New(color.FgYellow),
			detector.SeverityLow:    color.New(color.FgGreen),
		},
		plain: color.New(color.FgCyan),
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with severity colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

// Format renders flags grouped high to low, with the overall risk and
// summary up front.
func (f *Formatter) Format(result detector.AnalysisResult, options formatters.FormatterOptions) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Overall risk: %s\n", f.colorize(result.OverallRisk, strings.ToUpper(string(result.OverallRisk)))))
	if result.Summary != "" {
		builder.WriteString(result.Summary + "\n")
	}
	builder.WriteString("\n")

	if len(result.Flags) == 0 {
		builder.WriteString("No risky clauses found.\n")
	} else {
		flags := make([]detector.Flag, len(result.Flags))
		copy(flags, result.Flags)
		sort.SliceStable(flags, func(i, j int) bool {
			return flags[i].Severity.Rank() > flags[j].Severity.Rank()
		})

		for i, flag := range flags {
			tag := f.colorize(flag.Severity, fmt.Sprintf("[%s]", strings.ToUpper(string(flag.Severity))))
			builder.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, tag, flag.Clause))
			if flag.Rationale != "" {
				builder.WriteString("   Why:     " + flag.Rationale + "\n")
			}
			if flag.Suggestion != "" {
				builder.WriteString("   Suggest: " + flag.Suggestion + "\n")
			}
			if len(flag.Keywords) > 0 {
				builder.WriteString("   Topics:  " + strings.Join(flag.Keywords, ", ") + "\n")
			}
			if options.Verbose {
				if flag.SpanStart != nil && flag.SpanEnd != nil {
					builder.WriteString(fmt.Sprintf("   Span:    %d-%d\n", *flag.SpanStart, *flag.SpanEnd))
				}
				if flag.Context != "" {
					builder.WriteString("   Context: " + flag.Context + "\n")
				}
			}
			builder.WriteString("\n")
		}
	}

	if result.AIFallbackUsed {
		builder.WriteString(f.plain.Sprint("Note: AI analysis was unavailable; results are rule-based only.") + "\n")
	}
	for _, note := range result.Notes {
		builder.WriteString(f.plain.Sprint("Note: "+note) + "\n")
	}
	return builder.String(), nil
}

func (f *Formatter) colorize(severity detector.Severity, text string) string {
	if c, ok := f.colors[severity]; ok {
		return c.Sprint(text)
	}
	return text
}
