/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"chainguard.dev/quickreview/agents/decider"
	"chainguard.dev/quickreview/agents/decider/decidertest"
	"chainguard.dev/quickreview/provider"
	"chainguard.dev/quickreview/provider/providertest"
	"chainguard.dev/quickreview/review"
	"github.com/sethvargo/go-envconfig"
)

const prURL = "https://github.com/acme/widgets/pull/42"

var bundle = review.Bundle{
	Title: "Add widget cache",
	Diff:  "--- a/src/lib.rs\n+++ b/src/lib.rs\n@@ -1 +1,2 @@\n fn a() {}\n+fn b() {}\n",
	Files: []review.FileEntry{{Path: "src/lib.rs"}},
}

func submitNits() decidertest.Step {
	return decidertest.Calls(decidertest.Call("c1", "submit_review", map[string]any{
		"summary": "A few nits.",
		"line_comments": []any{
			map[string]any{"path": "src/lib.rs", "line": float64(10), "body": "Use Option here."},
		},
	}))
}

func testDeps(env map[string]string, fake *providertest.Fake, d decider.Decider) deps {
	return deps{
		lookuper: envconfig.MapLookuper(env),
		newProvider: func(context.Context, config) (provider.Provider, error) {
			return fake, nil
		},
		newDecider: func(context.Context, config) (decider.Decider, error) {
			return d, nil
		},
	}
}

func execute(t *testing.T, d deps, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr, d)
	return code, stdout.String(), stderr.String()
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"https://example.com/acme/widgets/pull/42"},
		{"https://github.com/acme/widgets/issues/42"},
		{prURL, "extra"},
	} {
		fake := &providertest.Fake{Bundle: bundle}
		code, stdout, stderr := execute(t, testDeps(nil, fake, decidertest.New(submitNits())), args...)
		if code != 1 {
			t.Errorf("run(%q): got exit %d, wanted 1", args, code)
		}
		if stdout != "" {
			t.Errorf("run(%q): got stdout %q, wanted none", args, stdout)
		}
		if stderr != usage+"\n" {
			t.Errorf("run(%q): got stderr %q, wanted usage", args, stderr)
		}
		if fake.Fetches() != 0 {
			t.Errorf("run(%q): fetched despite usage error", args)
		}
	}
}

func TestReviewAndPost(t *testing.T) {
	fake := &providertest.Fake{Bundle: bundle}
	code, stdout, stderr := execute(t, testDeps(nil, fake, decidertest.New(submitNits())), prURL)
	if code != 0 {
		t.Fatalf("run: got exit %d, stderr:\n%s", code, stderr)
	}

	want := "A few nits.\n  src/lib.rs:10 - Use Option here.\n"
	if stdout != want {
		t.Errorf("stdout: got = %q, wanted = %q", stdout, want)
	}
	if fake.Fetches() != 1 || len(fake.Published()) != 1 {
		t.Errorf("provider: got %d fetches and %d publications, wanted 1 and 1", fake.Fetches(), len(fake.Published()))
	}
}

func TestModes(t *testing.T) {
	tests := []struct {
		flag      string
		fetches   int
		published int
	}{
		{flag: "--dry-run", fetches: 1, published: 0},
		// The model submits without retrieving anything.
		{flag: "--live", fetches: 0, published: 1},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			fake := &providertest.Fake{Bundle: bundle}
			code, _, stderr := execute(t, testDeps(nil, fake, decidertest.New(submitNits())), tt.flag, prURL)
			if code != 0 {
				t.Fatalf("run: got exit %d, stderr:\n%s", code, stderr)
			}
			if got := fake.Fetches(); got != tt.fetches {
				t.Errorf("fetches: got = %d, wanted = %d", got, tt.fetches)
			}
			if got := len(fake.Published()); got != tt.published {
				t.Errorf("published: got = %d, wanted = %d", got, tt.published)
			}
		})
	}
}

func TestTableOutput(t *testing.T) {
	fake := &providertest.Fake{Bundle: bundle}
	code, stdout, stderr := execute(t, testDeps(nil, fake, decidertest.New(submitNits())), "--output", "table", prURL)
	if code != 0 {
		t.Fatalf("run: got exit %d, stderr:\n%s", code, stderr)
	}
	if !strings.HasPrefix(stdout, "A few nits.\n") {
		t.Errorf("stdout: got %q, wanted the summary first", stdout)
	}
	for _, want := range []string{"Path", "Comment", "src/lib.rs", "10", "Use Option here."} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout: missing %q in\n%s", want, stdout)
		}
	}
}

func TestFailures(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		d    decider.Decider
		want string
	}{{
		name: "no submission",
		args: []string{prURL},
		d:    decidertest.New(decidertest.Answer("Looks fine.")),
		want: "Error: review: review agent did not call submit_review",
	}, {
		name: "bad config",
		env:  map[string]string{"MAX_ROUNDS": "lots"},
		args: []string{prURL},
		d:    decidertest.New(submitNits()),
		want: "Error: processing config:",
	}, {
		name: "bad output format",
		args: []string{"--output", "xml", prURL},
		d:    decidertest.New(submitNits()),
		want: `Error: unknown output format "xml"`,
	}, {
		name: "conflicting modes",
		args: []string{"--live", "--dry-run", prURL},
		d:    decidertest.New(submitNits()),
		want: "none of the others can be",
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &providertest.Fake{Bundle: bundle}
			code, stdout, stderr := execute(t, testDeps(tt.env, fake, tt.d), tt.args...)
			if code != 1 {
				t.Errorf("run: got exit %d, wanted 1", code)
			}
			if stdout != "" {
				t.Errorf("stdout: got %q, wanted none", stdout)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr: missing %q in\n%s", tt.want, stderr)
			}
			if n := len(fake.Published()); n != 0 {
				t.Errorf("published: got = %d, wanted = 0", n)
			}
		})
	}
}
