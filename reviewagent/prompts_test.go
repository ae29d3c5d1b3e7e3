/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reviewagent

import (
	"strings"
	"testing"

	"chainguard.dev/quickreview/agents/promptbuilder"
	"chainguard.dev/quickreview/review"
	"github.com/stretchr/testify/require"
)

func TestRequestPrompt(t *testing.T) {
	id := review.NewIdentity(review.PlatformGitLab, "group/sub", "proj", "7")
	got, err := promptbuilder.Render(requestPrompt, requestBinding(id))
	require.NoError(t, err)

	for _, want := range []string{
		"platform: GitLab\nkind: MR\nowner: group/sub\nrepo: proj\nid: \"7\"\n",
		"url: https://gitlab.com/group/sub/proj/-/merge_requests/7",
		"part one of title, description, diff, files",
		"call submit_review",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("request prompt: missing %q in\n%s", want, got)
		}
	}
}

func TestChangePrompt(t *testing.T) {
	b := review.Bundle{
		Title:       "Fix <script> handling",
		Description: "Line one\nLine two",
		Diff:        "--- a/x\n+++ b/x\n@@ -1 +1 @@\n-if a < b {\n+if a <= b {\n",
		Files:       []review.FileEntry{{Path: "x", Diff: "@@ -1 +1 @@", Content: "package x"}},
	}
	got, err := promptbuilder.Render(changePrompt, changeBinding{bundle: &b})
	require.NoError(t, err)

	for _, want := range []string{
		"<title>Fix &lt;script&gt; handling</title>",
		"<description><![CDATA[Line one\nLine two]]></description>",
		"<diff><![CDATA[" + b.Diff + "]]></diff>",
		`<files count="1">x (diff+content)</files>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("change prompt: missing %q in\n%s", want, got)
		}
	}
}

func TestChangePromptWithoutFiles(t *testing.T) {
	got, err := promptbuilder.Render(changePrompt, changeBinding{bundle: &review.Bundle{Title: "t"}})
	require.NoError(t, err)
	if !strings.Contains(got, `<files count="0">(none)</files>`) {
		t.Errorf("change prompt: got\n%s\nwanted an empty file list", got)
	}
}

func TestSystemPrompt(t *testing.T) {
	got, err := systemPrompt()
	require.NoError(t, err)
	for _, want := range []string{"part is one of title, description, diff, files.", SubmitReviewTool, "exactly once", "fails the review"} {
		if !strings.Contains(got, want) {
			t.Errorf("system prompt: missing %q", want)
		}
	}
}
