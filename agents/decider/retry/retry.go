/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry retries model API calls that fail with rate limit or
// transient server errors.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config configures exponential backoff.
type Config struct {
	// MaxRetries is the number of retries after the first attempt.
	// 0 disables retrying.
	MaxRetries int
	// BaseBackoff is the delay before the first retry. It doubles on each
	// subsequent retry.
	BaseBackoff time.Duration
	// MaxBackoff caps the doubled delay.
	MaxBackoff time.Duration
	// MaxJitter bounds the random delay added to each backoff.
	MaxJitter time.Duration
}

// Validate checks that no field is negative.
func (c Config) Validate() error {
	switch {
	case c.MaxRetries < 0:
		return errors.New("max retries cannot be negative")
	case c.BaseBackoff < 0:
		return errors.New("base backoff cannot be negative")
	case c.MaxBackoff < 0:
		return errors.New("max backoff cannot be negative")
	case c.MaxJitter < 0:
		return errors.New("max jitter cannot be negative")
	}
	return nil
}

// Default returns a configuration tuned for quota errors, which tend to
// take seconds rather than milliseconds to clear.
func Default() Config {
	return Config{
		MaxRetries:  5,
		BaseBackoff: time.Second,
		MaxBackoff:  time.Minute,
		MaxJitter:   500 * time.Millisecond,
	}
}

// Backoff returns the delay before retry number attempt (0 based),
// excluding jitter.
func (c Config) Backoff(attempt int) time.Duration {
	if attempt > 30 {
		return c.MaxBackoff
	}
	return min(c.BaseBackoff<<attempt, c.MaxBackoff)
}

// StatusRetryable reports whether an HTTP status code from a model API is
// worth retrying: rate limited, unavailable, gateway timeout, overloaded.
func StatusRetryable(code int) bool {
	switch code {
	case 429, 503, 504, 529:
		return true
	}
	return false
}

// Do calls fn until it succeeds, returns an error isRetryable rejects, the
// retries are exhausted, or ctx is done.
func Do[T any](ctx context.Context, cfg Config, operation string, isRetryable func(error) bool, fn func(context.Context) (T, error)) (T, error) {
	var (
		result  T
		lastErr error
	)

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, lastErr = fn(ctx)
		if lastErr == nil {
			return result, nil
		}
		if !isRetryable(lastErr) {
			return result, lastErr
		}
		if attempt == cfg.MaxRetries {
			break
		}

		wait := cfg.Backoff(attempt)
		if cfg.MaxJitter > 0 {
			wait += rand.N(cfg.MaxJitter)
		}

		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("max_retries", cfg.MaxRetries).
			With("backoff", wait).
			With("error", lastErr.Error()).
			Warn("Retryable model API error, backing off")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		case <-timer.C:
		}
	}

	if cfg.MaxRetries == 0 {
		return result, lastErr
	}
	return result, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxRetries, lastErr)
}
