/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reviewagent

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/quickreview/agents/agenttrace"
	"chainguard.dev/quickreview/agents/conversation"
	"chainguard.dev/quickreview/agents/decider"
	"chainguard.dev/quickreview/agents/executor"
	"chainguard.dev/quickreview/agents/promptbuilder"
	"chainguard.dev/quickreview/agents/submitresult"
	"chainguard.dev/quickreview/agents/toolcall"
	"chainguard.dev/quickreview/provider"
	"chainguard.dev/quickreview/review"
	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel/attribute"
)

// ErrNonCompliance is returned when the loop ends without a submission.
var ErrNonCompliance = errors.New("review agent did not call submit_review")

// Reviewer produces one verdict per review request.
type Reviewer struct {
	exec *executor.Executor[review.Verdict]
}

// New creates a Reviewer driven by d. Options configure the underlying
// executor.
func New(d decider.Decider, opts ...executor.Option) (*Reviewer, error) {
	opts = append([]executor.Option{
		executor.WithAttributeEnricher(func(ctx context.Context, base []attribute.KeyValue) []attribute.KeyValue {
			return agenttrace.GetExecutionContext(ctx).EnrichAttributes(base)
		}),
	}, opts...)

	exec, err := executor.New[review.Verdict](d, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating executor: %w", err)
	}
	return &Reviewer{exec: exec}, nil
}

// Review reviews content that is already in memory. The model reads it
// from the prompt or through retrieve_context; nothing is published.
func (r *Reviewer) Review(ctx context.Context, b *review.Bundle) (review.Verdict, error) {
	if b == nil {
		b = &review.Bundle{}
	}
	return r.run(ctx, changePrompt, changeBinding{bundle: b}, func(slot *submitresult.Slot[review.Verdict]) (toolcall.Dispatcher, error) {
		return NewBundleDispatcher(b, slot)
	})
}

// ReviewRequest reviews the request named by id. The model fetches content
// from p through retrieve_context and its submission is published to p.
func (r *Reviewer) ReviewRequest(ctx context.Context, p provider.Provider, id review.Identity) (review.Verdict, error) {
	ctx = withRequest(ctx, id)
	return r.run(ctx, requestPrompt, requestBinding(id), func(slot *submitresult.Slot[review.Verdict]) (toolcall.Dispatcher, error) {
		return NewLiveDispatcher(p, id, slot)
	})
}

func (r *Reviewer) run(ctx context.Context, tmpl *promptbuilder.Prompt, req promptbuilder.Bindable, tools func(*submitresult.Slot[review.Verdict]) (toolcall.Dispatcher, error)) (review.Verdict, error) {
	log := clog.FromContext(ctx)

	slot := submitresult.New[review.Verdict]()
	dispatcher, err := tools(slot)
	if err != nil {
		return review.Verdict{}, fmt.Errorf("constructing review tools: %w", err)
	}

	system, err := systemPrompt()
	if err != nil {
		return review.Verdict{}, fmt.Errorf("building system prompt: %w", err)
	}
	user, err := promptbuilder.Render(tmpl, req)
	if err != nil {
		return review.Verdict{}, fmt.Errorf("building user prompt: %w", err)
	}

	trace := agenttrace.StartTrace[review.Verdict](ctx, user)
	res, err := r.exec.Run(ctx, trace, conversation.New(system, user), dispatcher)
	if err != nil {
		err = fmt.Errorf("running review loop: %w", err)
		trace.Complete(review.Verdict{}, err)
		return review.Verdict{}, err
	}

	v, ok := slot.Get()
	if !ok {
		log.Warn("Review finished without a submission", "rounds", res.Rounds, "final_text", res.FinalText)
		trace.Complete(review.Verdict{}, ErrNonCompliance)
		return review.Verdict{}, ErrNonCompliance
	}

	log.Info("Review submitted", "rounds", res.Rounds, "line_comments", len(v.LineComments))
	trace.Complete(v, nil)
	return v, nil
}

// withRequest labels ctx with id for traces, metrics and logs.
func withRequest(ctx context.Context, id review.Identity) context.Context {
	ctx = agenttrace.WithExecutionContext(ctx, agenttrace.ExecutionContext{
		Platform:   string(id.Platform),
		Repository: id.ProjectPath(),
		RequestID:  id.ID,
	})
	return clog.WithLogger(ctx, clog.FromContext(ctx).With("request", id.String()))
}
