/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package executor

import (
	"errors"
	"fmt"

	"chainguard.dev/quickreview/agents/metrics"
)

// DefaultMaxRounds bounds a run when WithMaxRounds is not given.
const DefaultMaxRounds = 20

// Option configures an Executor.
type Option func(*config) error

type config struct {
	maxRounds int
	parallel  bool
	metrics   *metrics.GenAI
}

// WithMaxRounds caps the number of rounds. 0 disables the cap.
func WithMaxRounds(n int) Option {
	return func(c *config) error {
		if n < 0 {
			return fmt.Errorf("max rounds cannot be negative, got %d", n)
		}
		c.maxRounds = n
		return nil
	}
}

// WithParallelToolCalls runs the calls of a round concurrently.
func WithParallelToolCalls(parallel bool) Option {
	return func(c *config) error {
		c.parallel = parallel
		return nil
	}
}

// WithMetrics replaces the default metrics instance.
func WithMetrics(m *metrics.GenAI) Option {
	return func(c *config) error {
		if m == nil {
			return errors.New("metrics cannot be nil")
		}
		c.metrics = m
		return nil
	}
}

// WithAttributeEnricher adds contextual attributes to every metric.
func WithAttributeEnricher(enricher metrics.AttributeEnricher) Option {
	return func(c *config) error {
		c.metrics.SetAttributeEnricher(enricher)
		return nil
	}
}
