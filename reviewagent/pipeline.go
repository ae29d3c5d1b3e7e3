/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reviewagent

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/quickreview/provider"
	"chainguard.dev/quickreview/review"
)

// Pipeline stage errors. Failures returned by Pipeline.Run wrap exactly one
// of them.
var (
	ErrFetch  = errors.New("fetch")
	ErrReview = errors.New("review")
	ErrPost   = errors.New("post")
)

// Pipeline fetches a request, reviews the fetched content and publishes
// the verdict.
type Pipeline struct {
	provider provider.Provider
	reviewer *Reviewer
}

// NewPipeline creates a pipeline over p and r.
func NewPipeline(p provider.Provider, r *Reviewer) (*Pipeline, error) {
	if p == nil {
		return nil, errNilProvider
	}
	if r == nil {
		return nil, errors.New("reviewer cannot be nil")
	}
	return &Pipeline{provider: p, reviewer: r}, nil
}

// Run reviews the request named by id and returns the published verdict.
func (p *Pipeline) Run(ctx context.Context, id review.Identity) (review.Verdict, error) {
	ctx = withRequest(ctx, id)

	b, err := p.provider.Fetch(ctx, id)
	if err != nil {
		return review.Verdict{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	v, err := p.reviewer.Review(ctx, b)
	if err != nil {
		return review.Verdict{}, fmt.Errorf("%w: %w", ErrReview, err)
	}

	if err := p.provider.Publish(ctx, id, v); err != nil {
		return review.Verdict{}, fmt.Errorf("%w: %w", ErrPost, err)
	}
	return v, nil
}
