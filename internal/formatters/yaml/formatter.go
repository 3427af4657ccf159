// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"clausecheck/internal/detector"
	"clausecheck/internal/formatters"

	goyaml "gopkg.in/yaml.v3"
)

func init() {
	formatters.Register(&Formatter{})
}

// Formatter implements YAML output formatting.
type Formatter struct{}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "YAML output for configuration-style tooling"
}

func (f *Formatter) FileExtension() string {
	return ".yaml"
}

func (f *Formatter) Format(result detector.AnalysisResult, _ formatters.FormatterOptions) (string, error) {
	data, err := goyaml.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
