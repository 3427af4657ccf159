// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ai adapts a remote language-model analyzer to the contract
// pipeline. The adapter owns prompt construction, strict response-schema
// validation, a single same-request retry, and fallover across an
// ordered list of alternate models. Callers see either a conforming
// result or a distinguishable "unavailable" error, never a partial parse.
package ai

import (
	"context"
	"errors"
	"sort"
	"sync"

	"clausecheck/internal/detector"
)

// ErrUnavailable is returned when every configured model failed. The
// pipeline reacts by falling over to rule-only results.
var ErrUnavailable = errors.New("ai analyzer unavailable")

// Meta is per-call telemetry for one analyzer invocation.
type Meta struct {
	Model       string   `json:"model"`
	TokensIn    int      `json:"tokens_in"`
	TokensOut   int      `json:"tokens_out"`
	LatencyMS   int64    `json:"latency_ms"`
	Attempts    int      `json:"attempts"`
	ModelsTried []string `json:"models_tried,omitempty"`
}

// Analyzer is the capability interface for a remote contract analyzer.
// Implementations are selected by name from the registry at startup,
// never by per-call string dispatch.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, text string) (detector.AnalysisResult, Meta, error)
}

// Rewriter is an optional capability for producing a clause rewrite.
type Rewriter interface {
	Rewrite(ctx context.Context, clause, instruction string) (string, error)
}

// Registry holds named analyzer implementations.
type Registry struct {
	mu        sync.RWMutex
	analyzers map[string]Analyzer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{analyzers: make(map[string]Analyzer)}
}

// Register adds an analyzer to the registry.
func (r *Registry) Register(a Analyzer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyzers[a.Name()] = a
}

// Get retrieves an analyzer by name.
func (r *Registry) Get(name string) (Analyzer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.analyzers[name]
	return a, ok
}

// List returns registered analyzer names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.analyzers))
	for name := range r.analyzers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the process-wide analyzer registry.
var DefaultRegistry = NewRegistry()

// Register adds an analyzer to the default registry.
func Register(a Analyzer) {
	DefaultRegistry.Register(a)
}

// Get retrieves an analyzer from the default registry.
func Get(name string) (Analyzer, bool) {
	return DefaultRegistry.Get(name)
}
