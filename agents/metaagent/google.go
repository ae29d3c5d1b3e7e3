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
	"chainguard.dev/quickreview/agents/decider/googledecider"
	"google.golang.org/genai"
)

func newGoogleDecider(ctx context.Context, config Config) (decider.Decider, error) {
	var cc *genai.ClientConfig
	switch {
	case config.GeminiAPIKey != "":
		cc = &genai.ClientConfig{
			APIKey:      config.GeminiAPIKey,
			Backend:     genai.BackendGeminiAPI,
			HTTPOptions: genai.HTTPOptions{BaseURL: config.BaseURL},
		}
	case config.ProjectID == "" || config.Region == "":
		return nil, errors.New("gemini models need a Google Cloud project and region, or a Gemini API key")
	default:
		cc = &genai.ClientConfig{
			Project:  config.ProjectID,
			Location: config.Region,
			Backend:  genai.BackendVertexAI,
		}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating Google AI client: %w", err)
	}

	d, err := googledecider.New(client,
		googledecider.WithModel(config.Model),
		googledecider.WithRetryConfig(config.retryConfig()),
	)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini decider: %w", err)
	}
	return d, nil
}
