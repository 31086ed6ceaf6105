// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backoff

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func failingOp(context.Context) error { return errBoom }
func okOp(context.Context) error      { return nil }

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := NewBreaker("search", 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := b.Do(ctx, failingOp)
		assert.ErrorIs(t, err, errBoom)
	}

	// Circuit now open: fail fast without invoking the op.
	called := false
	err := b.Do(ctx, func(context.Context) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.True(t, IsNonRetryable(err))
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestBreakerSuccessResetsCount(t *testing.T) {
	b := NewBreaker("llm", 3, time.Minute)
	ctx := context.Background()

	require.Error(t, b.Do(ctx, failingOp))
	require.Error(t, b.Do(ctx, failingOp))
	require.NoError(t, b.Do(ctx, okOp))

	// Two more failures do not reach the threshold after the reset.
	require.Error(t, b.Do(ctx, failingOp))
	require.Error(t, b.Do(ctx, failingOp))
	assert.NoError(t, b.Do(ctx, okOp))
}

func TestBreakerTrialClosesCircuit(t *testing.T) {
	b := NewBreaker("search", 2, time.Minute)
	now := time.Now()
	b.now = func() time.Time { return now }
	ctx := context.Background()

	require.Error(t, b.Do(ctx, failingOp))
	require.Error(t, b.Do(ctx, failingOp))
	require.ErrorIs(t, b.Do(ctx, okOp), ErrCircuitOpen)

	// After the recovery timeout one trial call is allowed through.
	now = now.Add(2 * time.Minute)
	require.NoError(t, b.Do(ctx, okOp))

	// Closed again: calls pass normally.
	assert.NoError(t, b.Do(ctx, okOp))
}

func TestBreakerFailedTrialReopens(t *testing.T) {
	b := NewBreaker("search", 2, time.Minute)
	now := time.Now()
	b.now = func() time.Time { return now }
	ctx := context.Background()

	require.Error(t, b.Do(ctx, failingOp))
	require.Error(t, b.Do(ctx, failingOp))

	now = now.Add(2 * time.Minute)
	require.ErrorIs(t, b.Do(ctx, failingOp), errBoom)

	// Trial failed: open again, before another recovery window elapses.
	err := b.Do(ctx, okOp)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestBreakerConcurrentCalls(t *testing.T) {
	b := NewBreaker("search", 50, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = b.Do(ctx, failingOp)
			} else {
				_ = b.Do(ctx, okOp)
			}
		}(i)
	}
	wg.Wait()

	// Interleaved successes keep the circuit closed; this call must pass.
	assert.NoError(t, b.Do(ctx, okOp))
}
