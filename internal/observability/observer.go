// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package observability emits structured operation telemetry. Metadata
// is allow-listed by field name so contract text, prompts, and provider
// payloads can never reach the log stream.
package observability

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// StandardObserver implements observability for all components.
type StandardObserver struct {
	level  Level
	writer io.Writer
	mu     sync.Mutex
}

// Level controls how much telemetry is emitted.
type Level int

const (
	LevelOff     Level = 0
	LevelMetrics Level = 1
	LevelDebug   Level = 2
)

// allowedMetadataKeys is the complete set of metadata fields that may be
// logged. Everything else is dropped, by name, before encoding.
var allowedMetadataKeys = map[string]bool{
	"model":            true,
	"models_tried":     true,
	"attempts":         true,
	"fallback_used":    true,
	"tokens_in":        true,
	"tokens_out":       true,
	"flag_count":       true,
	"overall_risk":     true,
	"input_chars":      true,
	"truncated":        true,
	"ai_ran":           true,
	"ai_fallback":      true,
	"located_spans":    true,
	"page_count":       true,
	"extraction_notes": true,
	"format":           true,
	"status":           true,
	"blocked":          true,
}

// NewStandardObserver creates the observability component.
func NewStandardObserver(level Level, writer io.Writer) *StandardObserver {
	return &StandardObserver{
		level:  level,
		writer: writer,
	}
}

// Record is one structured operation log entry.
type Record struct {
	Component  string         `json:"component"`
	Operation  string         `json:"operation"`
	RequestID  string         `json:"request_id"`
	DurationMs int64          `json:"duration_ms,omitempty"`
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// StartTiming returns a function that completes timing for an operation.
func (o *StandardObserver) StartTiming(component, operation string) func(success bool, metadata map[string]any) {
	if o == nil {
		return func(bool, map[string]any) {}
	}
	start := time.Now()

	return func(success bool, metadata map[string]any) {
		o.LogOperation(Record{
			Component:  component,
			Operation:  operation,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation logs operation data at metrics level and above.
func (o *StandardObserver) LogOperation(rec Record) {
	if o == nil || o.level == LevelOff || o.writer == nil {
		return
	}

	rec.RequestID = "req-" + time.Now().Format("20060102-150405.000")
	rec.Metadata = filterMetadata(rec.Metadata)

	o.mu.Lock()
	defer o.mu.Unlock()
	json.NewEncoder(o.writer).Encode(rec)
}

// LogError logs a failed operation with its error text. Provider error
// strings never embed document content.
func (o *StandardObserver) LogError(component, operation string, err error) {
	if err == nil {
		return
	}
	o.LogOperation(Record{
		Component: component,
		Operation: operation,
		Success:   false,
		Error:     err.Error(),
	})
}

func filterMetadata(metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return nil
	}
	filtered := make(map[string]any, len(metadata))
	for k, v := range metadata {
		if allowedMetadataKeys[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}
