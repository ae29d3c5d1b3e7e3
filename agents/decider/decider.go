/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package decider defines the boundary between the reasoning loop and a
// language model. A Decider looks at the conversation so far and the tool
// catalog, and either proposes tool calls or answers with plain text.
//
// Implementations live in the claudedecider, googledecider and
// openaidecider subpackages. They retry rate limits inside Decide; any
// error that escapes Decide is fatal to the loop.
package decider

import (
	"context"

	"chainguard.dev/quickreview/agents/conversation"
	"chainguard.dev/quickreview/agents/toolcall"
)

// Usage is the token accounting of one Decide call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Decision is the next step proposed by a model.
type Decision struct {
	// Text is any prose the model produced alongside or instead of tool
	// calls.
	Text string

	// ToolCalls are the proposed calls, in the order the model emitted
	// them. Empty means a content-only answer.
	ToolCalls []toolcall.ToolCall

	// Reasoning holds any thinking blocks the model exposed.
	Reasoning []string

	Usage Usage
}

// Decider proposes the next step of a conversation.
type Decider interface {
	Decide(ctx context.Context, conv *conversation.Conversation, tools []toolcall.Definition) (Decision, error)

	// Model names the underlying model, for traces and metrics.
	Model() string
}
