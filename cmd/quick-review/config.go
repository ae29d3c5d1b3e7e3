/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"

	"chainguard.dev/quickreview/agents/decider"
	"chainguard.dev/quickreview/agents/decider/claudedecider"
	"chainguard.dev/quickreview/agents/metaagent"
	"chainguard.dev/quickreview/provider"
	"chainguard.dev/quickreview/provider/githubprovider"
	"chainguard.dev/quickreview/provider/gitlabprovider"
	"chainguard.dev/quickreview/provider/multiprovider"
	"chainguard.dev/quickreview/review"
	"cloud.google.com/go/compute/metadata"
	"github.com/chainguard-dev/clog"
)

type config struct {
	// Model configuration
	Model           string `env:"MODEL"`
	ProjectID       string `env:"GOOGLE_CLOUD_PROJECT"`
	Region          string `env:"GOOGLE_CLOUD_REGION,default=us-east5"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	MaxRounds       int    `env:"MAX_ROUNDS,default=20"`

	// GitHub authentication. App credentials take precedence over a token.
	GitHubToken          string `env:"GITHUB_TOKEN"`
	GitHubAppID          int64  `env:"GITHUB_APP_ID"`
	GitHubInstallationID int64  `env:"GITHUB_APP_INSTALLATION_ID"`
	GitHubAppKeyPath     string `env:"GITHUB_APP_PRIVATE_KEY_PATH"`
	GitHubBaseURL        string `env:"GITHUB_BASE_URL"`

	// GitLab authentication
	GitLabToken   string `env:"GITLAB_TOKEN"`
	GitLabBaseURL string `env:"GITLAB_BASE_URL,default=https://gitlab.com"`
}

// newProvider builds a provider for every supported platform.
func newProvider(ctx context.Context, cfg config) (provider.Provider, error) {
	var opts []githubprovider.Option
	switch {
	case cfg.GitHubAppID != 0:
		opts = append(opts, githubprovider.WithAppAuth(cfg.GitHubAppID, cfg.GitHubInstallationID, cfg.GitHubAppKeyPath))
	case cfg.GitHubToken != "":
		opts = append(opts, githubprovider.WithToken(cfg.GitHubToken))
	default:
		clog.FromContext(ctx).Warn("No GitHub credentials configured, publishing to GitHub will fail")
	}
	if cfg.GitHubBaseURL != "" {
		opts = append(opts, githubprovider.WithBaseURL(cfg.GitHubBaseURL))
	}
	gh, err := githubprovider.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating GitHub provider: %w", err)
	}

	gl, err := gitlabprovider.New(cfg.GitLabToken, cfg.GitLabBaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating GitLab provider: %w", err)
	}

	return multiprovider.Provider{
		review.PlatformGitHub: gh,
		review.PlatformGitLab: gl,
	}, nil
}

// newDecider builds the decider for the configured model. The Google Cloud
// project is read from the metadata server when running on GCP without
// GOOGLE_CLOUD_PROJECT.
func newDecider(ctx context.Context, cfg config) (decider.Decider, error) {
	model := cfg.Model
	if model == "" {
		model = claudedecider.DefaultModel
	}

	project := cfg.ProjectID
	if project == "" && metadata.OnGCE() {
		p, err := metadata.ProjectIDWithContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading project from metadata server: %w", err)
		}
		project = p
	}

	return metaagent.New(ctx, metaagent.Config{
		Model:           model,
		ProjectID:       project,
		Region:          cfg.Region,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
	})
}
