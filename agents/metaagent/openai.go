/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"errors"
	"fmt"

	"chainguard.dev/quickreview/agents/decider"
	"chainguard.dev/quickreview/agents/decider/openaidecider"
	"github.com/openai/openai-go/option"
)

func newOpenAIDecider(config Config) (decider.Decider, error) {
	if config.OpenAIAPIKey == "" {
		return nil, errors.New("openai models need an OpenAI API key")
	}
	var opts []option.RequestOption
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	d, err := openaidecider.New(openaidecider.NewClient(config.OpenAIAPIKey, opts...),
		openaidecider.WithModel(config.Model),
		openaidecider.WithRetryConfig(config.retryConfig()),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI decider: %w", err)
	}
	return d, nil
}
