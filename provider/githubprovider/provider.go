/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package githubprovider implements provider.Provider for GitHub pull
// requests.
//
// Verdicts are posted as a single pull request review. Comments on lines
// that are not part of the diff would be rejected by the API, so they are
// folded into the review body instead.
package githubprovider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"chainguard.dev/quickreview/provider"
	"chainguard.dev/quickreview/review"
	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
)

// Provider talks to the GitHub REST API.
type Provider struct {
	client *github.Client

	mu    sync.Mutex
	diffs map[review.Identity]string
}

var _ provider.Provider = (*Provider)(nil)

type config struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures New.
type Option func(ctx context.Context, c *config) error

// WithToken authenticates with a personal access or installation token.
func WithToken(token string) Option {
	return func(ctx context.Context, c *config) error {
		if token == "" {
			return errors.New("token cannot be empty")
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		c.httpClient = oauth2.NewClient(ctx, ts)
		return nil
	}
}

// WithAppAuth authenticates as a GitHub App installation using the private
// key at keyPath. Installation tokens are refreshed as they expire.
func WithAppAuth(appID, installationID int64, keyPath string) Option {
	return func(_ context.Context, c *config) error {
		tr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, appID, installationID, keyPath)
		if err != nil {
			return fmt.Errorf("creating GitHub App transport: %w", err)
		}
		c.httpClient = &http.Client{Transport: tr}
		return nil
	}
}

// WithBaseURL points the client at a GitHub Enterprise or test server.
func WithBaseURL(base string) Option {
	return func(_ context.Context, c *config) error {
		if _, err := url.Parse(base); err != nil {
			return fmt.Errorf("parsing base URL: %w", err)
		}
		c.baseURL = base
		return nil
	}
}

// New returns a provider. Without an auth option requests are anonymous,
// which is enough to fetch public pull requests but not to publish.
func New(ctx context.Context, opts ...Option) (*Provider, error) {
	var c config
	for _, opt := range opts {
		if err := opt(ctx, &c); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	client := github.NewClient(c.httpClient)
	if c.baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(c.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing base URL: %w", err)
		}
		client.BaseURL = u
		client.UploadURL = u
	}
	return NewFromClient(client), nil
}

// NewFromClient wraps an already configured client.
func NewFromClient(client *github.Client) *Provider {
	return &Provider{client: client, diffs: make(map[review.Identity]string)}
}

// Fetch implements provider.Provider.
func (p *Provider) Fetch(ctx context.Context, id review.Identity) (*review.Bundle, error) {
	b, err := p.fetch(ctx, id)
	return b, provider.Wrap(provider.OpFetch, review.PlatformGitHub, err)
}

func (p *Provider) fetch(ctx context.Context, id review.Identity) (*review.Bundle, error) {
	number, err := checkIdentity(id)
	if err != nil {
		return nil, err
	}
	log := clog.FromContext(ctx).With("owner", id.Owner, "repo", id.Repo, "pr", number)

	pr, _, err := p.client.PullRequests.Get(ctx, id.Owner, id.Repo, number)
	if err != nil {
		return nil, fmt.Errorf("getting pull request: %w", err)
	}

	var files []review.FileEntry
	opts := &github.ListOptions{PerPage: 100}
	for {
		page, resp, err := p.client.PullRequests.ListFiles(ctx, id.Owner, id.Repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing files: %w", err)
		}
		for _, f := range page {
			files = append(files, review.FileEntry{Path: f.GetFilename(), Diff: f.GetPatch()})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	bundle := &review.Bundle{
		Title:       pr.GetTitle(),
		Description: pr.GetBody(),
		Files:       files,
	}

	diff, _, err := p.client.PullRequests.GetRaw(ctx, id.Owner, id.Repo, number, github.RawOptions{Type: github.Diff})
	if err != nil {
		// Very large diffs are refused by the raw endpoint; the per-file
		// patches are still usable.
		log.Warn("Raw diff unavailable, assembling from file patches", "error", err)
		diff = bundle.FullDiff()
	}
	bundle.Diff = diff

	p.mu.Lock()
	p.diffs[id] = diff
	p.mu.Unlock()

	log.Info("Fetched pull request", "files", len(files))
	return bundle, nil
}

// Publish implements provider.Provider.
func (p *Provider) Publish(ctx context.Context, id review.Identity, v review.Verdict) error {
	return provider.Wrap(provider.OpPublish, review.PlatformGitHub, p.publish(ctx, id, v))
}

func (p *Provider) publish(ctx context.Context, id review.Identity, v review.Verdict) error {
	number, err := checkIdentity(id)
	if err != nil {
		return err
	}

	diff, err := p.diff(ctx, id, number)
	if err != nil {
		return err
	}
	inline, outside := review.ConstrainToDiff(v, diff)

	comments := make([]*github.DraftReviewComment, 0, len(inline))
	for _, c := range inline {
		comments = append(comments, &github.DraftReviewComment{
			Path: github.Ptr(c.Path),
			Line: github.Ptr(c.Line),
			Side: github.Ptr("RIGHT"),
			Body: github.Ptr(c.Body),
		})
	}

	req := &github.PullRequestReviewRequest{
		Body:     github.Ptr(review.AppendOutside(v.Summary, outside)),
		Event:    github.Ptr("COMMENT"),
		Comments: comments,
	}
	if _, _, err := p.client.PullRequests.CreateReview(ctx, id.Owner, id.Repo, number, req); err != nil {
		return fmt.Errorf("creating review: %w", err)
	}

	clog.FromContext(ctx).With("owner", id.Owner, "repo", id.Repo, "pr", number).
		Info("Published review", "inline_comments", len(inline), "folded_comments", len(outside))
	return nil
}

// diff returns the diff seen by Fetch, or fetches it.
func (p *Provider) diff(ctx context.Context, id review.Identity, number int) (string, error) {
	p.mu.Lock()
	diff, ok := p.diffs[id]
	p.mu.Unlock()
	if ok {
		return diff, nil
	}
	diff, _, err := p.client.PullRequests.GetRaw(ctx, id.Owner, id.Repo, number, github.RawOptions{Type: github.Diff})
	if err != nil {
		return "", fmt.Errorf("getting diff: %w", err)
	}
	return diff, nil
}

func checkIdentity(id review.Identity) (int, error) {
	if id.Platform != review.PlatformGitHub {
		return 0, fmt.Errorf("%w: %s", provider.ErrUnsupportedPlatform, id.Platform)
	}
	return id.Number()
}
