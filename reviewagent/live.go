/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reviewagent

import (
	"context"
	"errors"
	"sync"

	"chainguard.dev/quickreview/agents/submitresult"
	"chainguard.dev/quickreview/agents/toolcall"
	"chainguard.dev/quickreview/provider"
	"chainguard.dev/quickreview/review"
	"github.com/chainguard-dev/clog"
)

var (
	errNilSlot     = errors.New("result slot cannot be nil")
	errNilProvider = errors.New("provider cannot be nil")
)

// liveSource fetches the request on first use and serves every later call
// from the cached bundle. A failed fetch is not cached.
type liveSource struct {
	provider provider.Provider
	identity review.Identity

	mu     sync.Mutex
	bundle *review.Bundle
}

func (s *liveSource) content(ctx context.Context) (*review.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bundle != nil {
		return s.bundle, nil
	}
	b, err := s.provider.Fetch(ctx, s.identity)
	if err != nil {
		clog.FromContext(ctx).Warn("Fetching request content failed", "request", s.identity.String(), "error", err)
		return nil, err
	}
	if b == nil {
		b = &review.Bundle{}
	}
	s.bundle = b
	return b, nil
}

// NewLiveDispatcher serves the review tools from p. Content is fetched at
// most once per dispatcher. A submission is published to p before it is
// written to slot, so a publish failure leaves slot untouched and is
// reported to the model as a tool failure.
func NewLiveDispatcher(p provider.Provider, id review.Identity, slot *submitresult.Slot[review.Verdict]) (*toolcall.Registry, error) {
	if p == nil {
		return nil, errNilProvider
	}
	src := &liveSource{provider: p, identity: id}
	return newRegistry(src, slot, func(ctx context.Context, v review.Verdict) (string, error) {
		if err := p.Publish(ctx, id, v); err != nil {
			clog.FromContext(ctx).Warn("Publishing review failed", "request", id.String(), "error", err)
			return "", err
		}
		record(ctx, slot, v)
		return ackPosted, nil
	})
}
