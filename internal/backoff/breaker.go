// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backoff

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// Breaker is a circuit breaker scoped to one logical collaborator. It counts
// consecutive failures; once the threshold is reached the circuit opens and
// calls fail fast with a non-retryable error until the recovery timeout
// elapses, at which point a single trial call is allowed to close it again.
//
// One Breaker instance is constructed per collaborator and shared by every
// concurrent run that calls it, so all state access is mutex-guarded. The
// lock is never held across the wrapped call.
type Breaker struct {
	name      string
	threshold int
	recovery  time.Duration

	mu       sync.Mutex
	state    breakerState
	failures int
	openedAt time.Time

	// now is a test hook for clock control.
	now func() time.Time
}

// NewBreaker returns a closed Breaker for the named collaborator.
// Non-positive threshold or recovery fall back to 5 failures and 60s.
func NewBreaker(name string, threshold int, recovery time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if recovery <= 0 {
		recovery = 60 * time.Second
	}
	return &Breaker{
		name:      name,
		threshold: threshold,
		recovery:  recovery,
		now:       time.Now,
	}
}

// Do runs op through the breaker. While the circuit is open it fails fast
// without invoking op.
func (b *Breaker) Do(ctx context.Context, op func(context.Context) error) error {
	if err := b.allow(); err != nil {
		return err
	}
	err := op(ctx)
	b.record(err)
	return err
}

// allow decides whether a call may proceed, moving an open circuit to
// half-open once the recovery timeout has elapsed.
func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateClosed:
		return nil
	case stateOpen:
		if b.now().Sub(b.openedAt) < b.recovery {
			return NonRetryable(fmt.Errorf("%s: %w", b.name, ErrCircuitOpen))
		}
		b.state = stateHalfOpen
		return nil
	default: // half-open: one trial already in flight
		return NonRetryable(fmt.Errorf("%s: %w", b.name, ErrCircuitOpen))
	}
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.state = stateClosed
		b.failures = 0
		return
	}

	b.failures++
	if b.state == stateHalfOpen || b.failures >= b.threshold {
		b.state = stateOpen
		b.openedAt = b.now()
	}
}
