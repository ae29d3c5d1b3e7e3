/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import "chainguard.dev/quickreview/agents/decider/retry"

// Config identifies the model to use and how to reach it.
type Config struct {
	// Model selects the provider by prefix.
	Model string

	// ProjectID and Region locate Vertex AI for Claude and Gemini models.
	ProjectID string
	Region    string

	// AnthropicAPIKey, when set, routes Claude models to the public
	// Anthropic API instead of Vertex AI.
	AnthropicAPIKey string

	// GeminiAPIKey, when set, routes Gemini models to the Gemini API
	// instead of Vertex AI.
	GeminiAPIKey string

	// OpenAIAPIKey is required for OpenAI models.
	OpenAIAPIKey string

	// BaseURL overrides the API endpoint. Only honored with API keys.
	BaseURL string

	// Retry overrides retry.Default when non-nil.
	Retry *retry.Config
}

func (c Config) retryConfig() retry.Config {
	if c.Retry != nil {
		return *c.Retry
	}
	return retry.Default()
}
