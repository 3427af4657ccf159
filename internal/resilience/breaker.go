// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"fmt"
	"sync"
	"time"
)

// BreakerState represents the state of a circuit breaker.
type BreakerState int

const (
	StateClosed   BreakerState = iota // Normal operation
	StateOpen                         // Failing fast
	StateHalfOpen                     // Probing whether the service recovered
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// BreakerOpenError is returned when a request is rejected without being
// attempted because the breaker is open.
type BreakerOpenError struct {
	Name string
}

func (e *BreakerOpenError) Error() string {
	return fmt.Sprintf("circuit breaker %q is open", e.Name)
}

// Breaker is a minimal circuit breaker keyed to one remote model. After
// FailureThreshold consecutive failures it rejects requests for Cooldown,
// then admits a single probe.
type Breaker struct {
	name             string
	failureThreshold int
	cooldown         time.Duration

	mu           sync.Mutex
	state        BreakerState
	failures     int
	lastFailedAt time.Time
}

// NewBreaker creates a closed breaker.
func NewBreaker(name string, failureThreshold int, cooldown time.Duration) *Breaker {
	if failureThreshold <= 0 {
		failureThreshold = 3
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{
		name:             name,
		failureThreshold: failureThreshold,
		cooldown:         cooldown,
		state:            StateClosed,
	}
}

// Allow reports whether a request may proceed. When the breaker is open
// and the cooldown has elapsed it transitions to half-open and admits
// one probe.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if time.Since(b.lastFailedAt) >= b.cooldown {
			b.state = StateHalfOpen
			return nil
		}
		return &BreakerOpenError{Name: b.name}
	default:
		return nil
	}
}

// Record feeds a request outcome back into the breaker. Only retryable
// errors count as failures; a permanent error (bad credentials) opening
// the breaker would mask the real problem.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failures = 0
		b.state = StateClosed
		return
	}
	if !ClassifyError(err).IsRetryable() {
		return
	}

	b.failures++
	b.lastFailedAt = time.Now()
	if b.state == StateHalfOpen || b.failures >= b.failureThreshold {
		b.state = StateOpen
	}
}

// State returns the current breaker state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
