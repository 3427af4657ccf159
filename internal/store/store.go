// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package store persists contracts and their analysis results behind an
// interface with opaque string IDs, so the web layer never depends on a
// concrete backend.
package store

import (
	"context"
	"errors"
	"time"

	"clausecheck/internal/detector"
)

// ErrNotFound is returned when a lookup misses.
var ErrNotFound = errors.New("not found")

// Contract is a stored source document.
type Contract struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Filename  string    `json:"filename,omitempty"`
	Text      string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Analysis is a stored analysis result tied to a contract.
type Analysis struct {
	ID         string                  `json:"id"`
	ContractID string                  `json:"contract_id"`
	Owner      string                  `json:"owner"`
	Result     detector.AnalysisResult `json:"result"`
	CreatedAt  time.Time               `json:"created_at"`
}

// Store is the persistence collaborator. Implementations assign IDs;
// callers treat them as opaque.
type Store interface {
	SaveContract(ctx context.Context, c Contract) (string, error)
	GetContract(ctx context.Context, id string) (Contract, error)
	SaveAnalysis(ctx context.Context, a Analysis) (string, error)
	GetAnalysis(ctx context.Context, id string) (Analysis, error)
	ListAnalyses(ctx context.Context, owner string) ([]Analysis, error)
}
