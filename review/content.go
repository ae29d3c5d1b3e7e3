/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import "strings"

// FileEntry is one changed file of a request. Diff and Content are empty
// when the provider did not supply them.
type FileEntry struct {
	Path    string `json:"path" yaml:"path"`
	Diff    string `json:"diff,omitempty" yaml:"diff,omitempty"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

// Label returns the path annotated with the kind of data available,
// e.g. "main.go (diff)" or "main.go (diff+content)".
func (f FileEntry) Label() string {
	switch {
	case f.Diff != "" && f.Content != "":
		return f.Path + " (diff+content)"
	case f.Diff != "":
		return f.Path + " (diff)"
	case f.Content != "":
		return f.Path + " (content)"
	default:
		return f.Path
	}
}

// Bundle is the read-only content of a single request.
type Bundle struct {
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Diff        string      `json:"diff" yaml:"diff"`
	Files       []FileEntry `json:"files" yaml:"files"`
}

// Paths returns the file paths in order.
func (b *Bundle) Paths() []string {
	out := make([]string, 0, len(b.Files))
	for _, f := range b.Files {
		out = append(out, f.Path)
	}
	return out
}

// FileList renders the files as a comma separated list of labels, or
// "(none)" when there are no files.
func (b *Bundle) FileList() string {
	if len(b.Files) == 0 {
		return "(none)"
	}
	labels := make([]string, 0, len(b.Files))
	for _, f := range b.Files {
		labels = append(labels, f.Label())
	}
	return strings.Join(labels, ", ")
}

// FullDiff returns the bundle diff, assembling it from the per-file diffs
// when the provider only supplied those.
func (b *Bundle) FullDiff() string {
	if b.Diff != "" || len(b.Files) == 0 {
		return b.Diff
	}
	var sb strings.Builder
	for _, f := range b.Files {
		if f.Diff == "" {
			continue
		}
		if !strings.HasPrefix(f.Diff, "diff --git ") && !strings.HasPrefix(f.Diff, "--- ") {
			sb.WriteString("diff --git a/" + f.Path + " b/" + f.Path + "\n")
			sb.WriteString("--- a/" + f.Path + "\n")
			sb.WriteString("+++ b/" + f.Path + "\n")
		}
		sb.WriteString(f.Diff)
		if !strings.HasSuffix(f.Diff, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
