/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reviewagent

import (
	"context"
	"strings"

	"chainguard.dev/quickreview/agents/schema"
	"chainguard.dev/quickreview/agents/submitresult"
	"chainguard.dev/quickreview/agents/toolcall"
	"chainguard.dev/quickreview/agents/toolcall/params"
	"chainguard.dev/quickreview/review"
	"github.com/chainguard-dev/clog"
)

// Tool names offered to the model.
const (
	RetrieveContextTool = "retrieve_context"
	SubmitReviewTool    = "submit_review"
)

// Parts accepted by retrieve_context.
const (
	PartTitle       = "title"
	PartDescription = "description"
	PartDiff        = "diff"
	PartFiles       = "files"
)

// Acknowledgements returned by submit_review.
const (
	ackSubmitted = "Review submitted."
	ackPosted    = "Review submitted and posted."
)

type retrieveArgs struct {
	Part string `json:"part" jsonschema:"description=Which part of the request to load,enum=title,enum=description,enum=diff,enum=files,required"`
}

type submitArgs struct {
	Summary      string               `json:"summary" jsonschema:"description=Overall review summary,required"`
	LineComments []review.LineComment `json:"line_comments,omitempty" jsonschema:"description=Inline comments on lines of the new version of changed files"`
}

func retrieveDefinition() toolcall.Definition {
	return toolcall.Definition{
		Name:        RetrieveContextTool,
		Description: "Load part of the pull or merge request: its title, description, unified diff, or the list of changed files.",
		Schema:      schema.ReflectType[retrieveArgs](),
	}
}

func submitDefinition() toolcall.Definition {
	return toolcall.Definition{
		Name:        SubmitReviewTool,
		Description: "Submit the review. Call exactly once with a summary and optional line comments.",
		Schema:      schema.ReflectType[submitArgs](),
	}
}

// contentSource supplies the bundle a retrieve_context call renders from.
type contentSource interface {
	content(ctx context.Context) (*review.Bundle, error)
}

type staticSource struct {
	bundle *review.Bundle
}

func (s staticSource) content(context.Context) (*review.Bundle, error) {
	return s.bundle, nil
}

// NewBundleDispatcher serves the review tools from a bundle already in
// memory. A valid submission is written to slot.
func NewBundleDispatcher(bundle *review.Bundle, slot *submitresult.Slot[review.Verdict]) (*toolcall.Registry, error) {
	if bundle == nil {
		bundle = &review.Bundle{}
	}
	return newRegistry(staticSource{bundle: bundle}, slot, func(ctx context.Context, v review.Verdict) (string, error) {
		record(ctx, slot, v)
		return ackSubmitted, nil
	})
}

func newRegistry(src contentSource, slot *submitresult.Slot[review.Verdict], submit func(context.Context, review.Verdict) (string, error)) (*toolcall.Registry, error) {
	if slot == nil {
		return nil, errNilSlot
	}
	return toolcall.NewRegistry(
		toolcall.Tool{
			Def: retrieveDefinition(),
			Handler: func(ctx context.Context, call toolcall.ToolCall) (toolcall.Response, error) {
				part := params.Lenient(call.Args, "part", "")
				bundle, err := src.content(ctx)
				if err != nil {
					return toolcall.Response{}, toolcall.InvalidInput(call.Name, err)
				}
				return toolcall.Text(renderPart(bundle, part)), nil
			},
		},
		toolcall.Tool{
			Def: submitDefinition(),
			Handler: func(ctx context.Context, call toolcall.ToolCall) (toolcall.Response, error) {
				v, err := decodeVerdict(call.Args)
				if err != nil {
					return toolcall.Response{}, toolcall.InvalidInput(call.Name, err)
				}
				ack, err := submit(ctx, v)
				if err != nil {
					return toolcall.Response{}, toolcall.InvalidInput(call.Name, err)
				}
				return toolcall.Response{Text: ack, Terminal: true}, nil
			},
		},
	)
}

// renderPart returns the text of one part of b. Unknown parts, including
// the empty string, are reported in the text rather than as a failure.
func renderPart(b *review.Bundle, part string) string {
	switch part {
	case PartTitle:
		return b.Title
	case PartDescription:
		return b.Description
	case PartDiff:
		return b.FullDiff()
	case PartFiles:
		return strings.Join(b.Paths(), ", ")
	default:
		return "Unknown part: " + part
	}
}

// decodeVerdict builds a verdict from submit_review arguments. summary is
// required; line comments are taken from line_comments, or lineComments
// when the former is absent, and filtered rather than rejected.
func decodeVerdict(args map[string]any) (review.Verdict, error) {
	summary, err := params.Extract[string](args, "summary")
	if err != nil {
		return review.Verdict{}, err
	}
	raw, ok := args["line_comments"]
	if !ok || raw == nil {
		raw = args["lineComments"]
	}
	return review.NewVerdict(summary, review.DecodeLineComments(raw)), nil
}

// record writes v to slot. Later submissions are acknowledged but dropped.
func record(ctx context.Context, slot *submitresult.Slot[review.Verdict], v review.Verdict) {
	if !slot.Set(v) {
		clog.FromContext(ctx).Info("Ignoring repeated review submission")
	}
}
