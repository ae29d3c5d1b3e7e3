/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/quickreview/agents/decider"
	"chainguard.dev/quickreview/agents/decider/openaidecider"
)

// ErrUnsupportedModel is returned for model names no provider claims.
var ErrUnsupportedModel = errors.New("unsupported model")

// New creates the decider for config.Model:
//   - Models starting with "gemini-" use Google's Generative AI SDK
//   - Models starting with "claude-" use Anthropic's SDK
//   - Models starting with "gpt-" or "o<N>" use OpenAI's SDK
func New(ctx context.Context, config Config) (decider.Decider, error) {
	modelLower := strings.ToLower(config.Model)

	switch {
	case strings.HasPrefix(modelLower, "gemini-"):
		return newGoogleDecider(ctx, config)
	case strings.HasPrefix(modelLower, "claude-"):
		return newClaudeDecider(ctx, config)
	case openaidecider.IsModel(modelLower):
		return newOpenAIDecider(config)
	default:
		return nil, fmt.Errorf("%w: %q (expected gemini-*, claude-* or gpt-*)", ErrUnsupportedModel, config.Model)
	}
}
