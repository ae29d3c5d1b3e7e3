/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"fmt"
	"strings"

	"github.com/waigani/diffparser"
)

// LineSet is the set of new-file line numbers per path that appear in a
// diff, either as added or as context lines.
type LineSet map[string]map[int]struct{}

// Contains reports whether path:line appears in the diff.
func (ls LineSet) Contains(path string, line int) bool {
	lines, ok := ls[path]
	if !ok {
		return false
	}
	_, ok = lines[line]
	return ok
}

// CommentableLines parses a unified diff and returns the lines that the
// hosting platforms accept inline comments on.
func CommentableLines(diff string) (LineSet, error) {
	ls := make(LineSet)
	if strings.TrimSpace(diff) == "" {
		return ls, nil
	}

	parsed, err := diffparser.Parse(diff)
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	for _, file := range parsed.Files {
		if file.Mode == diffparser.DELETED || file.NewName == "" {
			continue
		}
		name := strings.TrimPrefix(file.NewName, "b/")
		lines, ok := ls[name]
		if !ok {
			lines = make(map[int]struct{})
			ls[name] = lines
		}
		for _, hunk := range file.Hunks {
			for _, l := range hunk.NewRange.Lines {
				if l.Mode == diffparser.REMOVED {
					continue
				}
				lines[l.Number] = struct{}{}
			}
		}
	}
	return ls, nil
}

// ConstrainToDiff splits the verdict's comments into those that land on a
// line of the diff and those that do not. Order is preserved in both.
// When the diff cannot be parsed every comment is treated as inline.
func ConstrainToDiff(v Verdict, diff string) (inline, outside []LineComment) {
	ls, err := CommentableLines(diff)
	if err != nil {
		return v.LineComments, nil
	}
	for _, c := range v.LineComments {
		if ls.Contains(c.Path, c.Line) {
			inline = append(inline, c)
		} else {
			outside = append(outside, c)
		}
	}
	return inline, outside
}

// AppendOutside folds comments that cannot be posted inline into a review
// body.
func AppendOutside(body string, outside []LineComment) string {
	if len(outside) == 0 {
		return body
	}
	var sb strings.Builder
	sb.WriteString(body)
	sb.WriteString("\n\n**Additional comments**\n")
	for _, c := range outside {
		sb.WriteString(fmt.Sprintf("\n- `%s:%d` %s", c.Path, c.Line, c.Body))
	}
	return sb.String()
}
