/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package multiprovider_test

import (
	"context"
	"errors"
	"testing"

	"chainguard.dev/quickreview/provider"
	"chainguard.dev/quickreview/provider/multiprovider"
	"chainguard.dev/quickreview/provider/providertest"
	"chainguard.dev/quickreview/review"
)

func TestRouting(t *testing.T) {
	ctx := context.Background()
	gh := &providertest.Fake{Bundle: review.Bundle{Title: "from github"}}
	mp := multiprovider.Provider{review.PlatformGitHub: gh}

	b, err := mp.Fetch(ctx, review.NewIdentity(review.PlatformGitHub, "o", "r", "1"))
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if b.Title != "from github" {
		t.Errorf("Fetch() title = %q", b.Title)
	}

	glID := review.NewIdentity(review.PlatformGitLab, "o", "r", "1")
	if _, err := mp.Fetch(ctx, glID); !errors.Is(err, provider.ErrUnsupportedPlatform) {
		t.Errorf("Fetch(gitlab) error = %v, want ErrUnsupportedPlatform", err)
	}
	if err := mp.Publish(ctx, glID, review.NewVerdict("x", nil)); !errors.Is(err, provider.ErrUnsupportedPlatform) {
		t.Errorf("Publish(gitlab) error = %v, want ErrUnsupportedPlatform", err)
	}
	if gh.Fetches() != 1 || len(gh.Published()) != 0 {
		t.Errorf("github fake: fetches = %d, published = %d", gh.Fetches(), len(gh.Published()))
	}
}
