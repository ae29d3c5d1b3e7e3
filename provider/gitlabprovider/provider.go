/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gitlabprovider implements provider.Provider for GitLab merge
// requests.
//
// A verdict becomes one merge request note carrying the summary, plus one
// diff discussion per line comment that lands on the diff. Comments off the
// diff are appended to the note.
package gitlabprovider

import (
	"context"
	"fmt"
	"sync"

	"chainguard.dev/quickreview/provider"
	"chainguard.dev/quickreview/review"
	"github.com/chainguard-dev/clog"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// DefaultBaseURL is gitlab.com.
const DefaultBaseURL = "https://gitlab.com"

// Provider talks to the GitLab REST API.
type Provider struct {
	client *gitlab.Client

	mu    sync.Mutex
	state map[review.Identity]mrState
}

// mrState is what Publish needs from a previous Fetch.
type mrState struct {
	diff                       string
	baseSHA, headSHA, startSHA string
}

var _ provider.Provider = (*Provider)(nil)

// New returns a provider for the GitLab instance at baseURL, authenticated
// with a personal, project or group access token.
func New(token, baseURL string) (*Provider, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client, err := gitlab.NewClient(token, gitlab.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("creating GitLab client: %w", err)
	}
	return NewFromClient(client), nil
}

// NewFromClient wraps an already configured client.
func NewFromClient(client *gitlab.Client) *Provider {
	return &Provider{client: client, state: make(map[review.Identity]mrState)}
}

// Fetch implements provider.Provider.
func (p *Provider) Fetch(ctx context.Context, id review.Identity) (*review.Bundle, error) {
	b, err := p.fetch(ctx, id)
	return b, provider.Wrap(provider.OpFetch, review.PlatformGitLab, err)
}

func (p *Provider) fetch(ctx context.Context, id review.Identity) (*review.Bundle, error) {
	iid, err := checkIdentity(id)
	if err != nil {
		return nil, err
	}
	pid := id.ProjectPath()

	mr, _, err := p.client.MergeRequests.GetMergeRequest(pid, iid, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("getting merge request: %w", err)
	}

	var files []review.FileEntry
	opts := &gitlab.ListMergeRequestDiffsOptions{ListOptions: gitlab.ListOptions{PerPage: 100}}
	for {
		diffs, resp, err := p.client.MergeRequests.ListMergeRequestDiffs(pid, iid, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("listing merge request diffs: %w", err)
		}
		for _, d := range diffs {
			if d.DeletedFile {
				files = append(files, review.FileEntry{Path: d.OldPath, Diff: d.Diff})
				continue
			}
			files = append(files, review.FileEntry{Path: d.NewPath, Diff: d.Diff})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	bundle := &review.Bundle{
		Title:       mr.Title,
		Description: mr.Description,
		Files:       files,
	}
	// GitLab serves per-file hunks without headers.
	bundle.Diff = bundle.FullDiff()

	p.mu.Lock()
	p.state[id] = mrState{
		diff:     bundle.Diff,
		baseSHA:  mr.DiffRefs.BaseSha,
		headSHA:  mr.DiffRefs.HeadSha,
		startSHA: mr.DiffRefs.StartSha,
	}
	p.mu.Unlock()

	clog.FromContext(ctx).With("project", pid, "mr", iid).Info("Fetched merge request", "files", len(files))
	return bundle, nil
}

// Publish implements provider.Provider.
func (p *Provider) Publish(ctx context.Context, id review.Identity, v review.Verdict) error {
	return provider.Wrap(provider.OpPublish, review.PlatformGitLab, p.publish(ctx, id, v))
}

func (p *Provider) publish(ctx context.Context, id review.Identity, v review.Verdict) error {
	iid, err := checkIdentity(id)
	if err != nil {
		return err
	}
	pid := id.ProjectPath()

	p.mu.Lock()
	st, ok := p.state[id]
	p.mu.Unlock()
	if !ok {
		if _, err := p.fetch(ctx, id); err != nil {
			return err
		}
		p.mu.Lock()
		st = p.state[id]
		p.mu.Unlock()
	}

	inline, outside := review.ConstrainToDiff(v, st.diff)
	log := clog.FromContext(ctx).With("project", pid, "mr", iid)

	// Inline comments that GitLab refuses after all are folded into the
	// note rather than failing the whole publication.
	posted := 0
	for _, c := range inline {
		opt := &gitlab.CreateMergeRequestDiscussionOptions{
			Body: gitlab.Ptr(c.Body),
			Position: &gitlab.PositionOptions{
				BaseSHA:      gitlab.Ptr(st.baseSHA),
				HeadSHA:      gitlab.Ptr(st.headSHA),
				StartSHA:     gitlab.Ptr(st.startSHA),
				PositionType: gitlab.Ptr("text"),
				NewPath:      gitlab.Ptr(c.Path),
				NewLine:      gitlab.Ptr(c.Line),
			},
		}
		if _, _, err := p.client.Discussions.CreateMergeRequestDiscussion(pid, iid, opt, gitlab.WithContext(ctx)); err != nil {
			log.Warn("Inline comment rejected, folding into summary", "path", c.Path, "line", c.Line, "error", err)
			outside = append(outside, c)
			continue
		}
		posted++
	}

	note := &gitlab.CreateMergeRequestNoteOptions{Body: gitlab.Ptr(review.AppendOutside(v.Summary, outside))}
	if _, _, err := p.client.Notes.CreateMergeRequestNote(pid, iid, note, gitlab.WithContext(ctx)); err != nil {
		return fmt.Errorf("creating merge request note: %w", err)
	}

	log.Info("Published review", "inline_comments", posted, "folded_comments", len(outside))
	return nil
}

func checkIdentity(id review.Identity) (int, error) {
	if id.Platform != review.PlatformGitLab {
		return 0, fmt.Errorf("%w: %s", provider.ErrUnsupportedPlatform, id.Platform)
	}
	return id.Number()
}
