/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudedecider

import (
	"fmt"
	"strings"

	"chainguard.dev/quickreview/agents/decider/retry"
)

// Option configures the Claude decider.
type Option func(*claudeDecider) error

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(d *claudeDecider) error {
		if !strings.HasPrefix(model, "claude-") {
			return fmt.Errorf("model %q does not appear to be a Claude model (expected claude-* format)", model)
		}
		d.model = model
		return nil
	}
}

// WithMaxTokens bounds each response.
func WithMaxTokens(tokens int64) Option {
	return func(d *claudeDecider) error {
		if tokens <= 0 || tokens > 32000 {
			return fmt.Errorf("max tokens must be in (0, 32000], got %d", tokens)
		}
		d.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0 and 1.
func WithTemperature(temp float64) Option {
	return func(d *claudeDecider) error {
		if temp < 0 || temp > 1 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
		}
		d.temperature = temp
		return nil
	}
}

// WithRetryConfig replaces retry.Default.
func WithRetryConfig(cfg retry.Config) Option {
	return func(d *claudeDecider) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		d.retryConfig = cfg
		return nil
	}
}
