/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubprovider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"chainguard.dev/quickreview/provider"
	"chainguard.dev/quickreview/review"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-github/v84/github"
	"github.com/stretchr/testify/require"
)

const rawDiff = `diff --git a/main.go b/main.go
index 1111111..2222222 100644
--- a/main.go
+++ b/main.go
@@ -1,3 +1,4 @@
 package main
+
+import "fmt"
 func main() {}
`

type fakeGitHub struct {
	mu      sync.Mutex
	reviews []github.PullRequestReviewRequest
	failGet bool
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/repos/acme/widgets/pulls/42":
		if f.failGet {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"Not Found"}`)
			return
		}
		if strings.Contains(r.Header.Get("Accept"), "diff") {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = io.WriteString(w, rawDiff)
			return
		}
		_, _ = io.WriteString(w, `{"number":42,"title":"Add fmt import","body":"Needed for logging."}`)

	case r.Method == http.MethodGet && r.URL.Path == "/repos/acme/widgets/pulls/42/files":
		_, _ = io.WriteString(w, `[{"filename":"main.go","patch":"@@ -1,3 +1,4 @@\n package main\n+\n+import \"fmt\"\n func main() {}"}]`)

	case r.Method == http.MethodPost && r.URL.Path == "/repos/acme/widgets/pulls/42/reviews":
		var req github.PullRequestReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.reviews = append(f.reviews, req)
		f.mu.Unlock()
		_, _ = io.WriteString(w, `{"id":1}`)

	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"unexpected `+r.Method+` `+r.URL.Path+`"}`)
	}
}

func newTestProvider(t *testing.T, fake *fakeGitHub) *Provider {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	p, err := New(context.Background(), WithBaseURL(srv.URL))
	require.NoError(t, err)
	return p
}

var prID = review.NewIdentity(review.PlatformGitHub, "acme", "widgets", "42")

func TestFetch(t *testing.T) {
	p := newTestProvider(t, &fakeGitHub{})

	got, err := p.Fetch(context.Background(), prID)
	require.NoError(t, err)

	want := &review.Bundle{
		Title:       "Add fmt import",
		Description: "Needed for logging.",
		Diff:        rawDiff,
		Files: []review.FileEntry{{
			Path: "main.go",
			Diff: "@@ -1,3 +1,4 @@\n package main\n+\n+import \"fmt\"\n func main() {}",
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Fetch() mismatch (-want, +got):\n%s", diff)
	}
}

func TestFetchError(t *testing.T) {
	p := newTestProvider(t, &fakeGitHub{failGet: true})

	_, err := p.Fetch(context.Background(), prID)
	var perr *provider.Error
	if !errors.As(err, &perr) || perr.Op != provider.OpFetch || perr.Platform != review.PlatformGitHub {
		t.Fatalf("Fetch() error = %v, want a github fetch provider.Error", err)
	}
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) || ghErr.Response.StatusCode != http.StatusNotFound {
		t.Errorf("Fetch() error = %v, want a wrapped 404", err)
	}
}

func TestPublishFoldsCommentsOutsideDiff(t *testing.T) {
	fake := &fakeGitHub{}
	p := newTestProvider(t, fake)
	ctx := context.Background()

	_, err := p.Fetch(ctx, prID)
	require.NoError(t, err)

	v := review.NewVerdict("A few nits.", []review.LineComment{
		{Path: "main.go", Line: 3, Body: "Unused import."},
		{Path: "main.go", Line: 40, Body: "Not in the diff."},
	})
	require.NoError(t, p.Publish(ctx, prID, v))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.reviews) != 1 {
		t.Fatalf("reviews posted: got = %d, wanted = 1", len(fake.reviews))
	}
	got := fake.reviews[0]
	if got.GetEvent() != "COMMENT" {
		t.Errorf("event: got = %q", got.GetEvent())
	}
	if len(got.Comments) != 1 || got.Comments[0].GetLine() != 3 || got.Comments[0].GetSide() != "RIGHT" {
		t.Errorf("inline comments: got = %+v", got.Comments)
	}
	if body := got.GetBody(); !strings.HasPrefix(body, "A few nits.") || !strings.Contains(body, "`main.go:40` Not in the diff.") {
		t.Errorf("body: got = %q", body)
	}
}

func TestWrongPlatform(t *testing.T) {
	p := newTestProvider(t, &fakeGitHub{})
	id := review.NewIdentity(review.PlatformGitLab, "g", "r", "1")
	if _, err := p.Fetch(context.Background(), id); !errors.Is(err, provider.ErrUnsupportedPlatform) {
		t.Errorf("Fetch() error = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestOptions(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, WithToken("")); err == nil {
		t.Error("WithToken(\"\"): error = nil")
	}
	if _, err := New(ctx, WithAppAuth(1, 2, "/does/not/exist.pem")); err == nil {
		t.Error("WithAppAuth(missing key): error = nil")
	}
	if _, err := New(ctx, WithToken("ghp_test")); err != nil {
		t.Errorf("WithToken: error = %v", err)
	}
}
