/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package retry_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"chainguard.dev/quickreview/agents/decider/retry"
)

func testConfig() retry.Config {
	return retry.Config{
		MaxRetries:  3,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  5 * time.Millisecond,
		MaxJitter:   time.Millisecond,
	}
}

func always(err error) bool { return err != nil }
func never(error) bool      { return false }

func TestDoSuccessAfterRetries(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32

	got, err := retry.Do(context.Background(), testConfig(), "op", always, func(context.Context) (string, error) {
		if attempts.Add(1) < 3 {
			return "", errors.New("429")
		}
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got != "recovered" {
		t.Errorf("result: got = %q, wanted = recovered", got)
	}
	if n := attempts.Load(); n != 3 {
		t.Errorf("attempts: got = %d, wanted = 3", n)
	}
}

func TestDoExhausted(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32
	cause := errors.New("overloaded")

	_, err := retry.Do(context.Background(), testConfig(), "op", always, func(context.Context) (int, error) {
		attempts.Add(1)
		return 0, cause
	})
	if !errors.Is(err, cause) {
		t.Fatalf("Do error: got = %v, wanted wrapping %v", err, cause)
	}
	if n := attempts.Load(); n != 4 {
		t.Errorf("attempts: got = %d, wanted = 4", n)
	}
}

func TestDoNonRetryable(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32
	cause := errors.New("bad request")

	_, err := retry.Do(context.Background(), testConfig(), "op", never, func(context.Context) (int, error) {
		attempts.Add(1)
		return 0, cause
	})
	if err != cause {
		t.Errorf("Do error: got = %v, wanted unwrapped %v", err, cause)
	}
	if n := attempts.Load(); n != 1 {
		t.Errorf("attempts: got = %d, wanted = 1", n)
	}
}

func TestDoContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cfg := testConfig()
	cfg.BaseBackoff = time.Hour
	cfg.MaxBackoff = time.Hour

	_, err := retry.Do(ctx, cfg, "op", always, func(context.Context) (int, error) {
		cancel()
		return 0, errors.New("429")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do error: got = %v, wanted context.Canceled", err)
	}
}

func TestConfig(t *testing.T) {
	if err := retry.Default().Validate(); err != nil {
		t.Errorf("Default().Validate: %v", err)
	}
	if err := (retry.Config{MaxRetries: -1}).Validate(); err == nil {
		t.Error("Validate negative retries: got = nil, wanted error")
	}

	cfg := retry.Config{BaseBackoff: time.Second, MaxBackoff: 5 * time.Second}
	for attempt, want := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second} {
		if got := cfg.Backoff(attempt); got != want {
			t.Errorf("Backoff(%d): got = %v, wanted = %v", attempt, got, want)
		}
	}
	if got := cfg.Backoff(100); got != 5*time.Second {
		t.Errorf("Backoff(100): got = %v, wanted cap", got)
	}
}

func TestStatusRetryable(t *testing.T) {
	for code, want := range map[int]bool{429: true, 503: true, 504: true, 529: true, 400: false, 500: false} {
		if got := retry.StatusRetryable(code); got != want {
			t.Errorf("StatusRetryable(%d): got = %v, wanted = %v", code, got, want)
		}
	}
}
