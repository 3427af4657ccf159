// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ratelimit provides a fixed-window request limiter keyed by
// caller. The web layer owns limiting; the analysis pipeline itself
// never consults a limiter.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits or rejects a keyed request.
type Limiter interface {
	Allow(key string) bool
}

// FixedWindow allows up to limit requests per key per window. Counts
// reset at window boundaries rather than sliding.
type FixedWindow struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	windowStart time.Time
	count       int
}

// NewFixedWindow creates a limiter admitting limit requests per window
// for each key. A non-positive limit admits everything.
func NewFixedWindow(limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Allow implements Limiter.
func (f *FixedWindow) Allow(key string) bool {
	if f.limit <= 0 {
		return true
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	b, ok := f.buckets[key]
	if !ok || now.Sub(b.windowStart) >= f.window {
		f.buckets[key] = &bucket{windowStart: now, count: 1}
		f.sweep(now)
		return true
	}
	if b.count >= f.limit {
		return false
	}
	b.count++
	return true
}

// sweep drops expired buckets so idle keys do not accumulate. Called
// with the lock held, only on the bucket-rotation path.
func (f *FixedWindow) sweep(now time.Time) {
	for key, b := range f.buckets {
		if now.Sub(b.windowStart) >= f.window {
			delete(f.buckets, key)
		}
	}
}
