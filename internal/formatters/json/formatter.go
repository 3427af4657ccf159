// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"

	"clausecheck/internal/detector"
	"clausecheck/internal/formatters"
)

func init() {
	formatters.Register(&Formatter{})
}

// Formatter implements JSON output formatting. The shape matches the
// web API's analyze response result field.
type Formatter struct{}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Machine-readable JSON output"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

func (f *Formatter) Format(result detector.AnalysisResult, _ formatters.FormatterOptions) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
