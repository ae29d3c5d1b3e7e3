/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    Identity
		wantErr bool
	}{{
		name: "github pull request",
		url:  "https://github.com/acme/widgets/pull/42",
		want: Identity{Platform: PlatformGitHub, Owner: "acme", Repo: "widgets", ID: "42"},
	}, {
		name: "github pull request files tab",
		url:  "https://github.com/acme/widgets/pull/42/files",
		want: Identity{Platform: PlatformGitHub, Owner: "acme", Repo: "widgets", ID: "42"},
	}, {
		name: "surrounding whitespace",
		url:  "  https://github.com/acme/widgets/pull/7\n",
		want: Identity{Platform: PlatformGitHub, Owner: "acme", Repo: "widgets", ID: "7"},
	}, {
		name: "gitlab merge request",
		url:  "https://gitlab.com/acme/widgets/-/merge_requests/456",
		want: Identity{Platform: PlatformGitLab, Owner: "acme", Repo: "widgets", ID: "456"},
	}, {
		name: "gitlab nested group",
		url:  "https://gitlab.com/acme/platform/widgets/-/merge_requests/9",
		want: Identity{Platform: PlatformGitLab, Owner: "acme/platform", Repo: "widgets", ID: "9"},
	}, {
		name:    "github issue",
		url:     "https://github.com/acme/widgets/issues/42",
		wantErr: true,
	}, {
		name:    "github missing id",
		url:     "https://github.com/acme/widgets/pull/",
		wantErr: true,
	}, {
		name:    "github non numeric id",
		url:     "https://github.com/acme/widgets/pull/abc",
		wantErr: true,
	}, {
		name:    "gitlab missing separator",
		url:     "https://gitlab.com/acme/widgets/merge_requests/456",
		wantErr: true,
	}, {
		name:    "gitlab issue",
		url:     "https://gitlab.com/acme/widgets/-/issues/456",
		wantErr: true,
	}, {
		name:    "gitlab missing repo",
		url:     "https://gitlab.com/acme/-/merge_requests/456",
		wantErr: true,
	}, {
		name:    "other host",
		url:     "https://example.com/acme/widgets/pull/42",
		wantErr: true,
	}, {
		name:    "plain http",
		url:     "http://github.com/acme/widgets/pull/42",
		wantErr: true,
	}, {
		name:    "empty",
		url:     "",
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseURL(%q): got = %v, wanted error", tt.url, got)
				}
				if !errors.Is(err, ErrUnrecognizedURL) {
					t.Errorf("ParseURL(%q) error: got = %v, wanted ErrUnrecognizedURL", tt.url, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseURL(%q): %v", tt.url, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseURL(%q) mismatch (-want, +got):\n%s", tt.url, diff)
			}
		})
	}
}

func TestIdentityRoundTrip(t *testing.T) {
	for _, raw := range []string{
		"https://github.com/acme/widgets/pull/42",
		"https://gitlab.com/acme/platform/widgets/-/merge_requests/9",
	} {
		id, err := ParseURL(raw)
		if err != nil {
			t.Fatalf("ParseURL(%q): %v", raw, err)
		}
		if got := id.URL(); got != raw {
			t.Errorf("URL(): got = %q, wanted = %q", got, raw)
		}
	}
}

func TestIdentityNumber(t *testing.T) {
	n, err := NewIdentity(PlatformGitHub, "acme", "widgets", "42").Number()
	if err != nil {
		t.Fatalf("Number: %v", err)
	}
	if n != 42 {
		t.Errorf("Number: got = %d, wanted = 42", n)
	}

	if _, err := NewIdentity(PlatformGitHub, "acme", "widgets", "4x").Number(); err == nil {
		t.Error("Number: got = nil, wanted error")
	}
}

func TestPlatformNames(t *testing.T) {
	if got := PlatformGitHub.DisplayName(); got != "GitHub" {
		t.Errorf("DisplayName: got = %q, wanted = GitHub", got)
	}
	if got := PlatformGitLab.RequestNoun(); got != "MR" {
		t.Errorf("RequestNoun: got = %q, wanted = MR", got)
	}
}
