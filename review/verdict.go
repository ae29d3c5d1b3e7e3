/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// LineComment is an inline comment anchored to a line of the new version
// of a file.
type LineComment struct {
	Path string `json:"path" jsonschema:"description=File path relative to the repository root,required"`
	Line int    `json:"line" jsonschema:"description=Line number in the new version of the file,minimum=1,required"`
	Body string `json:"body" jsonschema:"description=Comment text,required"`
}

// Valid reports whether the comment can be published.
func (c LineComment) Valid() bool {
	return c.Path != "" && c.Body != "" && c.Line >= 1
}

// String renders the comment as "path:line - body".
func (c LineComment) String() string {
	return fmt.Sprintf("%s:%d - %s", c.Path, c.Line, c.Body)
}

// Verdict is the final outcome of a review.
type Verdict struct {
	Summary      string        `json:"summary"`
	LineComments []LineComment `json:"line_comments"`
}

// NewVerdict builds a Verdict, dropping invalid line comments.
func NewVerdict(summary string, comments []LineComment) Verdict {
	return Verdict{
		Summary:      summary,
		LineComments: FilterLineComments(comments),
	}
}

// Render formats the verdict as plain text: the summary followed by one
// indented "path:line - body" line per comment.
func (v Verdict) Render() string {
	var sb strings.Builder
	sb.WriteString(v.Summary)
	for _, c := range v.LineComments {
		sb.WriteString("\n  ")
		sb.WriteString(c.String())
	}
	return sb.String()
}

// FilterLineComments returns the valid comments in their original order.
// The result is never nil. Filtering an already filtered list is a no-op.
func FilterLineComments(comments []LineComment) []LineComment {
	out := make([]LineComment, 0, len(comments))
	for _, c := range comments {
		if c.Valid() {
			out = append(out, c)
		}
	}
	return out
}

// DecodeLineComments converts loosely typed tool arguments into line
// comments. Anything other than an array yields no comments; entries that
// are not objects or whose fields have the wrong type are skipped. The
// result is filtered with FilterLineComments.
func DecodeLineComments(raw any) []LineComment {
	if s, ok := raw.(string); ok {
		// Some models send the array JSON-encoded inside a string.
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return []LineComment{}
		}
		raw = decoded
	}

	items, ok := raw.([]any)
	if !ok {
		return []LineComment{}
	}

	comments := make([]LineComment, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		path, _ := m["path"].(string)
		body, _ := m["body"].(string)
		line, ok := toLine(m["line"])
		if !ok {
			continue
		}
		comments = append(comments, LineComment{Path: path, Line: line, Body: body})
	}
	return FilterLineComments(comments)
}

func toLine(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}
