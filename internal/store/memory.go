// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store. It backs the server in single-node
// deployments and the tests everywhere.
type Memory struct {
	mu        sync.RWMutex
	contracts map[string]Contract
	analyses  map[string]Analysis
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		contracts: make(map[string]Contract),
		analyses:  make(map[string]Analysis),
	}
}

// SaveContract implements Store.
func (m *Memory) SaveContract(_ context.Context, c Contract) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	m.contracts[c.ID] = c
	return c.ID, nil
}

// GetContract implements Store.
func (m *Memory) GetContract(_ context.Context, id string) (Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.contracts[id]
	if !ok {
		return Contract{}, ErrNotFound
	}
	return c, nil
}

// SaveAnalysis implements Store.
func (m *Memory) SaveAnalysis(_ context.Context, a Analysis) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	m.analyses[a.ID] = a
	return a.ID, nil
}

// GetAnalysis implements Store.
func (m *Memory) GetAnalysis(_ context.Context, id string) (Analysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.analyses[id]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return a, nil
}

// ListAnalyses implements Store. Results are newest first.
func (m *Memory) ListAnalyses(_ context.Context, owner string) ([]Analysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Analysis
	for _, a := range m.analyses {
		if owner == "" || a.Owner == owner {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
