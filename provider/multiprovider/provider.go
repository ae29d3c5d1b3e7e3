/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package multiprovider routes each request to the provider registered for
// its platform.
package multiprovider

import (
	"context"
	"fmt"

	"chainguard.dev/quickreview/provider"
	"chainguard.dev/quickreview/review"
)

// Provider dispatches on review.Identity.Platform.
type Provider map[review.Platform]provider.Provider

var _ provider.Provider = Provider(nil)

func (m Provider) lookup(p review.Platform) (provider.Provider, error) {
	if inner, ok := m[p]; ok && inner != nil {
		return inner, nil
	}
	return nil, fmt.Errorf("%w: no provider configured for %s", provider.ErrUnsupportedPlatform, p)
}

// Fetch implements provider.Provider.
func (m Provider) Fetch(ctx context.Context, id review.Identity) (*review.Bundle, error) {
	inner, err := m.lookup(id.Platform)
	if err != nil {
		return nil, provider.Wrap(provider.OpFetch, id.Platform, err)
	}
	return inner.Fetch(ctx, id)
}

// Publish implements provider.Provider.
func (m Provider) Publish(ctx context.Context, id review.Identity, v review.Verdict) error {
	inner, err := m.lookup(id.Platform)
	if err != nil {
		return provider.Wrap(provider.OpPublish, id.Platform, err)
	}
	return inner.Publish(ctx, id, v)
}
