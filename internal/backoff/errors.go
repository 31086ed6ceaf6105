// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backoff provides the retry and circuit-breaker wrappers shared by
// every pipeline stage. It also defines the error taxonomy the wrappers act
// on: retryable (transient collaborator failure), non-retryable (malformed
// response, schema violation, open circuit), and everything else, which is
// promoted to retryable on first sight.
package backoff

import (
	"errors"
	"fmt"
)

// ErrCircuitOpen is the sentinel wrapped into the non-retryable error a
// breaker returns while its circuit is open.
var ErrCircuitOpen = errors.New("circuit open")

// RetryableError marks a transient failure worth retrying: network errors,
// timeouts, rate limits.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// NonRetryableError marks a failure that retrying cannot fix: malformed
// responses, schema violations, an open circuit.
type NonRetryableError struct {
	Err error
}

func (e *NonRetryableError) Error() string { return e.Err.Error() }
func (e *NonRetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as retryable. Returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Retryablef wraps a formatted error as retryable.
func Retryablef(format string, args ...any) error {
	return &RetryableError{Err: fmt.Errorf(format, args...)}
}

// NonRetryable wraps err as non-retryable. Returns nil for a nil err.
func NonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &NonRetryableError{Err: err}
}

// NonRetryablef wraps a formatted error as non-retryable.
func NonRetryablef(format string, args ...any) error {
	return &NonRetryableError{Err: fmt.Errorf(format, args...)}
}

// IsRetryable reports whether err carries a RetryableError anywhere in its chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// IsNonRetryable reports whether err carries a NonRetryableError anywhere in its chain.
func IsNonRetryable(err error) bool {
	var nre *NonRetryableError
	return errors.As(err, &nre)
}
