/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package providertest provides an in-memory provider.Provider for tests.
package providertest

import (
	"context"
	"sync"

	"chainguard.dev/quickreview/provider"
	"chainguard.dev/quickreview/review"
)

// Fake serves a fixed bundle and records publications. FetchErrs and
// PublishErrs are consumed one per call; once exhausted calls succeed.
type Fake struct {
	Bundle      review.Bundle
	FetchErrs   []error
	PublishErrs []error

	mu        sync.Mutex
	fetches   int
	published []review.Verdict
}

var _ provider.Provider = (*Fake)(nil)

// Fetch implements provider.Provider.
func (f *Fake) Fetch(ctx context.Context, id review.Identity) (*review.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if len(f.FetchErrs) > 0 {
		err := f.FetchErrs[0]
		f.FetchErrs = f.FetchErrs[1:]
		if err != nil {
			return nil, provider.Wrap(provider.OpFetch, id.Platform, err)
		}
	}
	b := f.Bundle
	b.Files = append([]review.FileEntry(nil), f.Bundle.Files...)
	return &b, nil
}

// Publish implements provider.Provider.
func (f *Fake) Publish(ctx context.Context, id review.Identity, v review.Verdict) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.PublishErrs) > 0 {
		err := f.PublishErrs[0]
		f.PublishErrs = f.PublishErrs[1:]
		if err != nil {
			return provider.Wrap(provider.OpPublish, id.Platform, err)
		}
	}
	f.published = append(f.published, v)
	return nil
}

// Fetches returns the number of Fetch calls.
func (f *Fake) Fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

// Published returns the verdicts published so far.
func (f *Fake) Published() []review.Verdict {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]review.Verdict(nil), f.published...)
}
