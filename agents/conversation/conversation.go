/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package conversation holds the provider neutral transcript of one agent
// run. Only the reasoning loop mutates it; model adapters read it and
// translate it into their own message formats.
package conversation

import (
	"maps"

	"chainguard.dev/quickreview/agents/toolcall"
)

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry of the transcript.
type Message struct {
	Role    Role
	Content string

	// ToolCalls are the calls requested by an assistant message.
	ToolCalls []toolcall.ToolCall

	// ToolCallID and ToolName link a tool message to the call it answers.
	ToolCallID string
	ToolName   string
	IsError    bool
}

// Result is the outcome of one tool call.
type Result struct {
	CallID   string
	Name     string
	Content  string
	IsError  bool
	Terminal bool
}

// Conversation is the mutable state of one agent run.
type Conversation struct {
	Messages []Message

	// Pending holds the calls of the latest assistant turn until their
	// results are recorded.
	Pending []toolcall.ToolCall

	// Results accumulates every tool result in the order it was recorded.
	Results []Result
}

// New seeds a conversation with a system instruction and the first user
// turn. An empty system instruction is omitted.
func New(system, user string) *Conversation {
	c := &Conversation{}
	if system != "" {
		c.Messages = append(c.Messages, Message{Role: RoleSystem, Content: system})
	}
	c.Messages = append(c.Messages, Message{Role: RoleUser, Content: user})
	return c
}

// System returns the system instruction, if any.
func (c *Conversation) System() string {
	for _, m := range c.Messages {
		if m.Role == RoleSystem {
			return m.Content
		}
	}
	return ""
}

// Turns returns the messages after the system instruction.
func (c *Conversation) Turns() []Message {
	out := make([]Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		if m.Role != RoleSystem {
			out = append(out, m)
		}
	}
	return out
}

// AddAssistant records an assistant turn. Its calls become pending.
func (c *Conversation) AddAssistant(text string, calls []toolcall.ToolCall) {
	cloned := make([]toolcall.ToolCall, 0, len(calls))
	for _, call := range calls {
		cloned = append(cloned, cloneCall(call))
	}
	c.Messages = append(c.Messages, Message{
		Role:      RoleAssistant,
		Content:   text,
		ToolCalls: cloned,
	})
	c.Pending = cloned
}

// AddResults appends tool results as tool messages in the given order and
// clears the pending calls.
func (c *Conversation) AddResults(results []Result) {
	for _, r := range results {
		c.Messages = append(c.Messages, Message{
			Role:       RoleTool,
			Content:    r.Content,
			ToolCallID: r.CallID,
			ToolName:   r.Name,
			IsError:    r.IsError,
		})
	}
	c.Results = append(c.Results, results...)
	c.Pending = nil
}

// LastAssistantText returns the text of the most recent assistant turn.
func (c *Conversation) LastAssistantText() string {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i].Content
		}
	}
	return ""
}

func cloneCall(in toolcall.ToolCall) toolcall.ToolCall {
	out := in
	if in.Args != nil {
		out.Args = make(map[string]any, len(in.Args))
		maps.Copy(out.Args, in.Args)
	}
	return out
}
