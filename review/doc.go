/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package review holds the value types shared by every stage of an
// automated code review.
//
// An Identity names one reviewable unit (a GitHub pull request or a GitLab
// merge request) and is usually produced by ParseURL:
//
//	id, err := review.ParseURL("https://github.com/acme/widgets/pull/42")
//	if err != nil {
//		return err
//	}
//	fmt.Println(id) // github.com/acme/widgets/pull/42
//
// A Bundle is the read-only content of that unit (title, description, the
// unified diff and per-file entries) and a Verdict is the structured
// outcome (summary plus inline LineComments).
//
// Line comments are lenient: entries with an empty path, an empty body or a
// line below 1 are dropped by FilterLineComments rather than rejected.
package review
