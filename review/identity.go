/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Platform identifies the code hosting service of a review request.
type Platform string

const (
	// PlatformGitHub is github.com pull requests.
	PlatformGitHub Platform = "github"
	// PlatformGitLab is gitlab.com merge requests.
	PlatformGitLab Platform = "gitlab"
)

// DisplayName returns the human readable name of the platform.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformGitHub:
		return "GitHub"
	case PlatformGitLab:
		return "GitLab"
	default:
		return string(p)
	}
}

// RequestNoun is what the platform calls a reviewable unit.
func (p Platform) RequestNoun() string {
	if p == PlatformGitLab {
		return "MR"
	}
	return "PR"
}

const (
	githubPrefix = "https://github.com/"
	gitlabPrefix = "https://gitlab.com/"
)

// ErrUnrecognizedURL is returned by ParseURL for anything that is not a
// GitHub pull request or GitLab merge request URL.
var ErrUnrecognizedURL = errors.New("unrecognized pull/merge request URL")

// Identity uniquely identifies one pull or merge request.
type Identity struct {
	Platform Platform `json:"platform"`

	// Owner is the account or (possibly nested) group owning the repository.
	Owner string `json:"owner"`

	Repo string `json:"repo"`

	// ID is the request number as it appears in the URL.
	ID string `json:"id"`
}

// NewIdentity builds an Identity from known parts.
func NewIdentity(platform Platform, owner, repo, id string) Identity {
	return Identity{Platform: platform, Owner: owner, Repo: repo, ID: id}
}

// ParseURL parses a pull or merge request URL of one of the forms
//
//	https://github.com/{owner}/{repo}/pull/{id}
//	https://gitlab.com/{group...}/{repo}/-/merge_requests/{id}
//
// Surrounding whitespace is ignored. Anything else, including URLs on other
// hosts, yields ErrUnrecognizedURL.
func ParseURL(raw string) (Identity, error) {
	s := strings.TrimSpace(raw)

	if rest, ok := strings.CutPrefix(s, githubPrefix); ok {
		parts := strings.Split(rest, "/")
		if len(parts) >= 4 && parts[2] == "pull" && parts[0] != "" && parts[1] != "" && isNumber(parts[3]) {
			return NewIdentity(PlatformGitHub, parts[0], parts[1], parts[3]), nil
		}
	}

	if rest, ok := strings.CutPrefix(s, gitlabPrefix); ok {
		parts := strings.Split(rest, "/")
		for i, p := range parts {
			if p != "-" {
				continue
			}
			// Need at least {owner}/{repo} before the separator and
			// merge_requests/{id} after it.
			if i < 2 || i+2 >= len(parts) || parts[i+1] != "merge_requests" || !isNumber(parts[i+2]) {
				break
			}
			owner := strings.Join(parts[:i-1], "/")
			repo := parts[i-1]
			if owner == "" || repo == "" || strings.Contains(owner, "//") {
				break
			}
			return NewIdentity(PlatformGitLab, owner, repo, parts[i+2]), nil
		}
	}

	return Identity{}, fmt.Errorf("%w: %q", ErrUnrecognizedURL, s)
}

// Number returns the request ID as an integer.
func (id Identity) Number() (int, error) {
	if !isNumber(id.ID) {
		return 0, fmt.Errorf("request id %q is not a number", id.ID)
	}
	return strconv.Atoi(id.ID)
}

// ProjectPath is the "owner/repo" path of the repository.
func (id Identity) ProjectPath() string {
	return id.Owner + "/" + id.Repo
}

// URL reconstructs the canonical web URL of the request.
func (id Identity) URL() string {
	switch id.Platform {
	case PlatformGitLab:
		return gitlabPrefix + id.ProjectPath() + "/-/merge_requests/" + id.ID
	default:
		return githubPrefix + id.ProjectPath() + "/pull/" + id.ID
	}
}

// String returns the URL without its scheme.
func (id Identity) String() string {
	return strings.TrimPrefix(id.URL(), "https://")
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
