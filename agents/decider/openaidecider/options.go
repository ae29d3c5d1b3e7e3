/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaidecider

import (
	"fmt"
	"strings"

	"chainguard.dev/quickreview/agents/decider/retry"
)

// Option configures the OpenAI decider.
type Option func(*openaiDecider) error

// IsModel reports whether model names an OpenAI chat model.
func IsModel(model string) bool {
	return strings.HasPrefix(model, "gpt-") ||
		(len(model) > 1 && model[0] == 'o' && model[1] >= '0' && model[1] <= '9')
}

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(d *openaiDecider) error {
		if !IsModel(model) {
			return fmt.Errorf("model %q does not appear to be an OpenAI model (expected gpt-* or o<N>* format)", model)
		}
		d.model = model
		return nil
	}
}

// WithMaxTokens bounds each completion.
func WithMaxTokens(tokens int64) Option {
	return func(d *openaiDecider) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		d.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature. Reasoning models reject
// it, so it is only sent when set.
func WithTemperature(temp float64) Option {
	return func(d *openaiDecider) error {
		if temp < 0 || temp > 2 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
		}
		d.temperature = &temp
		return nil
	}
}

// WithRetryConfig replaces retry.Default.
func WithRetryConfig(cfg retry.Config) Option {
	return func(d *openaiDecider) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		d.retryConfig = cfg
		return nil
	}
}
