/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/quickreview/agents/agenttrace"
	"chainguard.dev/quickreview/agents/conversation"
	"chainguard.dev/quickreview/agents/decider"
	"chainguard.dev/quickreview/agents/metrics"
	"chainguard.dev/quickreview/agents/toolcall"
	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Executor runs the reasoning loop. T is the result type of the traces it
// records into.
type Executor[T any] struct {
	decider decider.Decider
	config
}

// New creates an executor around d.
func New[T any](d decider.Decider, opts ...Option) (*Executor[T], error) {
	if d == nil {
		return nil, errors.New("decider cannot be nil")
	}
	e := &Executor[T]{
		decider: d,
		config: config{
			maxRounds: DefaultMaxRounds,
			metrics:   metrics.NewGenAI("chainguard.dev/quickreview"),
		},
	}
	for _, opt := range opts {
		if err := opt(&e.config); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}
	return e, nil
}

// Run drives conv to a terminal state. The dispatcher's catalog is offered
// to the decider every round. Tool calls and token usage are recorded on
// trace, which the caller completes.
//
// Run returns an error wrapping ErrDecider if the decider fails, ErrAborted
// if the round cap is exceeded, or the context error if ctx is done before
// a decider call.
func (e *Executor[T]) Run(ctx context.Context, trace *agenttrace.Trace[T], conv *conversation.Conversation, dispatcher toolcall.Dispatcher) (Result, error) {
	if trace == nil {
		return Result{}, errors.New("trace cannot be nil")
	}
	if conv == nil || dispatcher == nil {
		return Result{}, errors.New("conversation and dispatcher are required")
	}

	var (
		state    = StateThink
		round    int
		decision decider.Decision
		calls    []toolcall.ToolCall
		results  []conversation.Result
		model    = e.decider.Model()
		tools    = dispatcher.ListTools()
	)

	for {
		log := clog.FromContext(ctx).With("round", round, "state", state.String())

		switch state {
		case StateThink:
			if e.maxRounds > 0 && round >= e.maxRounds {
				log.Warn("Round cap reached without a terminal tool call", "max_rounds", e.maxRounds)
				e.metrics.RecordRun(ctx, model, "aborted")
				return Result{State: StateAborted, Rounds: round, FinalText: decision.Text},
					fmt.Errorf("%w (%d rounds)", ErrAborted, e.maxRounds)
			}
			if err := ctx.Err(); err != nil {
				return Result{State: StateAborted, Rounds: round}, err
			}

			round++
			trace.RecordRound()
			ctx = agenttrace.WithRound(ctx, round)

			var err error
			decision, err = e.decider.Decide(ctx, conv, tools)
			if err != nil {
				e.metrics.RecordRun(ctx, model, "decider_error")
				return Result{State: StateAborted, Rounds: round}, fmt.Errorf("%w (round %d): %w", ErrDecider, round, err)
			}

			trace.RecordTokenUsage(model, decision.Usage.InputTokens, decision.Usage.OutputTokens)
			e.metrics.RecordTokens(ctx, model, decision.Usage.InputTokens, decision.Usage.OutputTokens)
			trace.RecordReasoning(decision.Reasoning...)

			calls = assignIDs(decision.ToolCalls, round)
			conv.AddAssistant(decision.Text, calls)
			log.Debug("Decider responded", "tool_calls", len(calls))
			state = StateAct

		case StateAct:
			results = e.execute(ctx, trace, dispatcher, model, calls)
			state = StateObserve

		case StateObserve:
			conv.AddResults(results)
			e.metrics.RecordRound(ctx, model)

			switch {
			case len(calls) == 0:
				log.Info("Decider answered without calling a tool")
				e.metrics.RecordRun(ctx, model, "answered")
				return Result{State: StateTerminal, Rounds: round, FinalText: decision.Text}, nil
			case anyTerminal(results):
				e.metrics.RecordRun(ctx, model, "submitted")
				return Result{State: StateTerminal, Submitted: true, Rounds: round, FinalText: decision.Text}, nil
			default:
				state = StateThink
			}

		default:
			return Result{State: state, Rounds: round}, fmt.Errorf("unexpected loop state %s", state)
		}
	}
}

// execute runs the calls of one round. The returned results are in call
// order regardless of how the calls were scheduled.
func (e *Executor[T]) execute(ctx context.Context, trace *agenttrace.Trace[T], dispatcher toolcall.Dispatcher, model string, calls []toolcall.ToolCall) []conversation.Result {
	results := make([]conversation.Result, len(calls))
	if !e.parallel || len(calls) < 2 {
		for i, call := range calls {
			results[i] = e.callOne(ctx, trace, dispatcher, model, call)
		}
		return results
	}

	var g errgroup.Group
	for i, call := range calls {
		g.Go(func() error {
			results[i] = e.callOne(ctx, trace, dispatcher, model, call)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (e *Executor[T]) callOne(ctx context.Context, trace *agenttrace.Trace[T], dispatcher toolcall.Dispatcher, model string, call toolcall.ToolCall) conversation.Result {
	log := clog.FromContext(ctx).With("tool", call.Name, "call_id", call.ID)

	tc := trace.StartToolCall(call.ID, call.Name, call.Args)
	resp, err := dispatcher.CallTool(ctx, call)
	if err != nil {
		log.Warn("Tool call failed", "error", err)
		tc.Complete(nil, err)
		e.metrics.RecordToolCall(ctx, model, call.Name, failureClass(err))
		return conversation.Result{
			CallID:  call.ID,
			Name:    call.Name,
			Content: "Error: " + err.Error(),
			IsError: true,
		}
	}

	tc.Complete(resp.Text, nil)
	e.metrics.RecordToolCall(ctx, model, call.Name, "")
	return conversation.Result{
		CallID:   call.ID,
		Name:     call.Name,
		Content:  resp.Text,
		Terminal: resp.Terminal,
	}
}

func failureClass(err error) string {
	switch {
	case errors.Is(err, toolcall.ErrNotFound):
		return "not_found"
	case errors.Is(err, toolcall.ErrInvalidInput):
		return "invalid_input"
	default:
		return "other"
	}
}

// assignIDs fills in IDs the model did not supply so results can always be
// correlated with their calls.
func assignIDs(calls []toolcall.ToolCall, round int) []toolcall.ToolCall {
	out := make([]toolcall.ToolCall, len(calls))
	for i, c := range calls {
		if strings.TrimSpace(c.ID) == "" {
			c.ID = fmt.Sprintf("call_%d_%d", round, i+1)
		}
		out[i] = c
	}
	return out
}

func anyTerminal(results []conversation.Result) bool {
	for _, r := range results {
		if r.Terminal && !r.IsError {
			return true
		}
	}
	return false
}
