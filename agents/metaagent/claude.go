/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/quickreview/agents/decider"
	"chainguard.dev/quickreview/agents/decider/claudedecider"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func newClaudeDecider(ctx context.Context, config Config) (decider.Decider, error) {
	var client anthropic.Client
	switch {
	case config.AnthropicAPIKey != "":
		var opts []option.RequestOption
		if config.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(config.BaseURL))
		}
		client = claudedecider.NewAPIKeyClient(config.AnthropicAPIKey, opts...)
	case config.ProjectID == "" || config.Region == "":
		return nil, errors.New("claude models need a Google Cloud project and region, or an Anthropic API key")
	default:
		client = claudedecider.NewVertexClient(ctx, config.ProjectID, config.Region)
	}

	d, err := claudedecider.New(client,
		claudedecider.WithModel(config.Model),
		claudedecider.WithRetryConfig(config.retryConfig()),
	)
	if err != nil {
		return nil, fmt.Errorf("creating Claude decider: %w", err)
	}
	return d, nil
}
