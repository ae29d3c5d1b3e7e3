/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall_test

import (
	"context"
	"errors"
	"testing"

	"chainguard.dev/quickreview/agents/schema"
	"chainguard.dev/quickreview/agents/toolcall"
	"github.com/google/go-cmp/cmp"
)

type echoArgs struct {
	Input string `json:"input" jsonschema:"description=Text to echo,required"`
	Times int    `json:"times,omitempty" jsonschema:"description=Repeat count"`
}

func echoTool() toolcall.Tool {
	return toolcall.Tool{
		Def: toolcall.Definition{
			Name:        "echo",
			Description: "Echo the input back",
			Schema:      schema.ReflectType[echoArgs](),
		},
		Handler: func(_ context.Context, call toolcall.ToolCall) (toolcall.Response, error) {
			s, ok := call.Args["input"].(string)
			if !ok {
				return toolcall.Response{}, errors.New("input must be a string")
			}
			return toolcall.Text(s), nil
		},
	}
}

func TestRegistryCallTool(t *testing.T) {
	reg, err := toolcall.NewRegistry(echoTool())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	resp, err := reg.CallTool(context.Background(), toolcall.ToolCall{
		ID:   "1",
		Name: "echo",
		Args: map[string]any{"input": "hello"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if diff := cmp.Diff(toolcall.Response{Text: "hello"}, resp); diff != "" {
		t.Errorf("CallTool mismatch (-want, +got):\n%s", diff)
	}
}

func TestRegistryFailures(t *testing.T) {
	reg, err := toolcall.NewRegistry(echoTool())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	tests := []struct {
		name     string
		call     toolcall.ToolCall
		wantKind error
		wantMsg  string
	}{{
		name:     "unknown tool",
		call:     toolcall.ToolCall{Name: "nope"},
		wantKind: toolcall.ErrNotFound,
		wantMsg:  "unknown tool: nope",
	}, {
		name:     "missing required",
		call:     toolcall.ToolCall{Name: "echo", Args: map[string]any{"times": float64(2)}},
		wantKind: toolcall.ErrInvalidInput,
		wantMsg:  "echo: missing input",
	}, {
		name:     "nil args",
		call:     toolcall.ToolCall{Name: "echo"},
		wantKind: toolcall.ErrInvalidInput,
		wantMsg:  "echo: missing input",
	}, {
		name:     "handler error is classified",
		call:     toolcall.ToolCall{Name: "echo", Args: map[string]any{"input": 42}},
		wantKind: toolcall.ErrInvalidInput,
		wantMsg:  "echo: input must be a string",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.CallTool(context.Background(), tt.call)
			if err == nil {
				t.Fatal("CallTool: got = nil, wanted error")
			}
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("CallTool error kind: got = %v, wanted %v", err, tt.wantKind)
			}
			if got := err.Error(); got != tt.wantMsg {
				t.Errorf("CallTool error: got = %q, wanted = %q", got, tt.wantMsg)
			}
		})
	}
}

func TestRegistryListTools(t *testing.T) {
	second := echoTool()
	second.Def.Name = "echo2"

	reg, err := toolcall.NewRegistry(echoTool(), second)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	var names []string
	for _, d := range reg.ListTools() {
		names = append(names, d.Name)
	}
	if diff := cmp.Diff([]string{"echo", "echo2"}, names); diff != "" {
		t.Errorf("ListTools mismatch (-want, +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"input"}, reg.ListTools()[0].Required()); diff != "" {
		t.Errorf("Required mismatch (-want, +got):\n%s", diff)
	}
}

func TestRegistryRegisterValidation(t *testing.T) {
	if _, err := toolcall.NewRegistry(echoTool(), echoTool()); err == nil {
		t.Error("duplicate registration: got = nil, wanted error")
	}
	if _, err := toolcall.NewRegistry(toolcall.Tool{Def: toolcall.Definition{Name: "x"}}); err == nil {
		t.Error("missing handler: got = nil, wanted error")
	}
	if _, err := toolcall.NewRegistry(toolcall.Tool{Handler: echoTool().Handler}); err == nil {
		t.Error("missing name: got = nil, wanted error")
	}
}
