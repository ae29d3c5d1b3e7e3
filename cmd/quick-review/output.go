/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"io"
	"strconv"

	"chainguard.dev/quickreview/review"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

const (
	outputText  = "text"
	outputTable = "table"
)

func writeVerdict(w io.Writer, format string, v review.Verdict) error {
	switch format {
	case outputText, "":
		_, err := fmt.Fprintln(w, v.Render())
		return err
	case outputTable:
		return writeTable(w, v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// writeTable prints the summary followed by a markdown table of the line
// comments, if any.
func writeTable(w io.Writer, v review.Verdict) error {
	if _, err := fmt.Fprintln(w, v.Summary); err != nil {
		return err
	}
	if len(v.LineComments) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			MaxWidth: 120,
			Behavior: tw.Behavior{TrimSpace: tw.Off},
		}),
		tablewriter.WithHeader([]string{"Path", "Line", "Comment"}),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
	for _, c := range v.LineComments {
		if err := table.Append([]string{c.Path, strconv.Itoa(c.Line), c.Body}); err != nil {
			return err
		}
	}
	return table.Render()
}
