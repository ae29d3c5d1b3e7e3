/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googledecider

import (
	"fmt"
	"strings"

	"chainguard.dev/quickreview/agents/decider/retry"
)

// Option configures the Gemini decider.
type Option func(*googleDecider) error

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(d *googleDecider) error {
		if !strings.HasPrefix(model, "gemini-") {
			return fmt.Errorf("model %q does not appear to be a Gemini model (expected gemini-* format)", model)
		}
		d.model = model
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0 and 2.
func WithTemperature(temp float32) Option {
	return func(d *googleDecider) error {
		if temp < 0 || temp > 2 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
		}
		d.temperature = temp
		return nil
	}
}

// WithMaxOutputTokens bounds each response.
func WithMaxOutputTokens(tokens int32) Option {
	return func(d *googleDecider) error {
		if tokens <= 0 {
			return fmt.Errorf("max output tokens must be positive, got %d", tokens)
		}
		d.maxOutputTokens = tokens
		return nil
	}
}

// WithThinking enables thought summaries with the given token budget.
func WithThinking(budget int32) Option {
	return func(d *googleDecider) error {
		if budget < 0 {
			return fmt.Errorf("thinking budget cannot be negative, got %d", budget)
		}
		d.thinkingBudget = &budget
		return nil
	}
}

// WithRetryConfig replaces retry.Default.
func WithRetryConfig(cfg retry.Config) Option {
	return func(d *googleDecider) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		d.retryConfig = cfg
		return nil
	}
}
