/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package conversation_test

import (
	"testing"

	"chainguard.dev/quickreview/agents/conversation"
	"chainguard.dev/quickreview/agents/toolcall"
	"github.com/google/go-cmp/cmp"
)

func TestConversationFlow(t *testing.T) {
	c := conversation.New("be terse", "review this")
	if got := c.System(); got != "be terse" {
		t.Errorf("System: got = %q, wanted = %q", got, "be terse")
	}

	args := map[string]any{"part": "diff"}
	c.AddAssistant("looking", []toolcall.ToolCall{{ID: "a", Name: "retrieve_context", Args: args}})
	args["part"] = "mutated"

	if len(c.Pending) != 1 || c.Pending[0].Args["part"] != "diff" {
		t.Fatalf("Pending: got = %+v, wanted one call with part=diff", c.Pending)
	}

	c.AddResults([]conversation.Result{{CallID: "a", Name: "retrieve_context", Content: "+line"}})
	if c.Pending != nil {
		t.Errorf("Pending after results: got = %+v, wanted nil", c.Pending)
	}

	var roles []conversation.Role
	for _, m := range c.Turns() {
		roles = append(roles, m.Role)
	}
	want := []conversation.Role{conversation.RoleUser, conversation.RoleAssistant, conversation.RoleTool}
	if diff := cmp.Diff(want, roles); diff != "" {
		t.Errorf("roles mismatch (-want, +got):\n%s", diff)
	}

	last := c.Messages[len(c.Messages)-1]
	if last.ToolCallID != "a" || last.ToolName != "retrieve_context" || last.Content != "+line" {
		t.Errorf("tool message: got = %+v", last)
	}
	if got := c.LastAssistantText(); got != "looking" {
		t.Errorf("LastAssistantText: got = %q, wanted = looking", got)
	}
}

func TestConversationNoSystem(t *testing.T) {
	c := conversation.New("", "hi")
	if len(c.Messages) != 1 || c.Messages[0].Role != conversation.RoleUser {
		t.Errorf("Messages: got = %+v, wanted a single user message", c.Messages)
	}
	if c.System() != "" {
		t.Errorf("System: got = %q, wanted empty", c.System())
	}
}
