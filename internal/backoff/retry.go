// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backoff

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
	defaultMaxDelay    = 60 * time.Second
)

// Policy describes the retry discipline for one unit of work: up to
// MaxAttempts attempts with exponential delay BaseDelay * 2^attempt,
// capped at MaxDelay.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultBaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = defaultMaxDelay
	}
	return p
}

// delay returns the backoff before attempt n+1 (n is zero-based).
func (p Policy) delay(n int) time.Duration {
	d := time.Duration(math.Pow(2, float64(n))) * p.BaseDelay
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Do runs op under the policy. A NonRetryableError aborts immediately. A
// RetryableError is retried up to the attempt cap. Any uncategorized error
// is promoted to retryable by wrapping it. If the context is cancelled
// during a backoff wait, Do returns ctx.Err().
func Do(ctx context.Context, p Policy, op func(context.Context) error) error {
	p = p.withDefaults()

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.delay(attempt - 1)):
			}
		}

		err := op(ctx)
		if err == nil {
			return nil
		}

		var nre *NonRetryableError
		if errors.As(err, &nre) {
			return err
		}
		if !IsRetryable(err) {
			err = Retryable(err)
		}
		lastErr = err
	}

	return fmt.Errorf("after %d attempts: %w", p.MaxAttempts, lastErr)
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	var out T
	err := Do(ctx, p, func(ctx context.Context) error {
		v, opErr := op(ctx)
		if opErr == nil {
			out = v
		}
		return opErr
	})
	return out, err
}
