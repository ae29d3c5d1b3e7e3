/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package decidertest provides a scripted Decider for tests.
package decidertest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"chainguard.dev/quickreview/agents/conversation"
	"chainguard.dev/quickreview/agents/decider"
	"chainguard.dev/quickreview/agents/toolcall"
)

// ErrExhausted is returned when Decide is called more times than the script
// has steps.
var ErrExhausted = errors.New("scripted decider exhausted")

// Step is one scripted response. A non-nil Err is returned instead of the
// decision.
type Step struct {
	Decision decider.Decision
	Err      error
}

// Scripted replays a fixed sequence of steps and records what it saw.
type Scripted struct {
	mu    sync.Mutex
	steps []Step
	calls int

	// Seen holds a snapshot of the messages passed to each Decide call.
	Seen [][]conversation.Message
	// Tools is the catalog passed to the most recent Decide call.
	Tools []toolcall.Definition

	// Repeat, when set, makes the final step repeat forever instead of
	// returning ErrExhausted.
	Repeat bool
}

var _ decider.Decider = (*Scripted)(nil)

// New returns a decider that replays steps in order.
func New(steps ...Step) *Scripted {
	return &Scripted{steps: steps}
}

// Calls returns a step proposing the given tool calls.
func Calls(calls ...toolcall.ToolCall) Step {
	return Step{Decision: decider.Decision{ToolCalls: calls}}
}

// Answer returns a content-only step.
func Answer(text string) Step {
	return Step{Decision: decider.Decision{Text: text}}
}

// Fail returns a step that fails with err.
func Fail(err error) Step {
	return Step{Err: err}
}

// Call is shorthand for building a toolcall.ToolCall.
func Call(id, name string, args map[string]any) toolcall.ToolCall {
	return toolcall.ToolCall{ID: id, Name: name, Args: args}
}

// Decide implements decider.Decider.
func (s *Scripted) Decide(ctx context.Context, conv *conversation.Conversation, tools []toolcall.Definition) (decider.Decision, error) {
	if err := ctx.Err(); err != nil {
		return decider.Decision{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Seen = append(s.Seen, append([]conversation.Message(nil), conv.Messages...))
	s.Tools = tools

	idx := s.calls
	s.calls++
	if idx >= len(s.steps) {
		if !s.Repeat || len(s.steps) == 0 {
			return decider.Decision{}, fmt.Errorf("%w after %d steps", ErrExhausted, len(s.steps))
		}
		idx = len(s.steps) - 1
	}
	step := s.steps[idx]
	return step.Decision, step.Err
}

// Model implements decider.Decider.
func (s *Scripted) Model() string { return "scripted" }

// CallCount returns how many times Decide was called.
func (s *Scripted) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
