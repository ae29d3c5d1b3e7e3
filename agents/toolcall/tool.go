/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"

	"github.com/invopop/jsonschema"
)

// ToolCall is a single tool invocation proposed by a model.
type ToolCall struct {
	// ID correlates the call with its result. Some model APIs do not supply
	// one, in which case the loop assigns a synthetic ID.
	ID   string
	Name string
	Args map[string]any
}

// Definition declares a tool to the model.
type Definition struct {
	Name        string
	Description string
	// Schema describes the argument object. It must be an object schema.
	Schema *jsonschema.Schema
}

// Required returns the names of the required top level arguments.
func (d Definition) Required() []string {
	if d.Schema == nil {
		return nil
	}
	return d.Schema.Required
}

// Response is the successful outcome of a tool call.
type Response struct {
	// Text is returned to the model verbatim.
	Text string
	// Terminal marks a call that produced the final answer of the loop.
	Terminal bool
}

// Text returns a non-terminal response.
func Text(s string) Response {
	return Response{Text: s}
}

// Handler executes a tool call.
type Handler func(ctx context.Context, call ToolCall) (Response, error)

// Tool is a Definition paired with the Handler that serves it.
type Tool struct {
	Def     Definition
	Handler Handler
}

// Dispatcher exposes a tool catalog and executes calls against it.
type Dispatcher interface {
	// ListTools returns the catalog in a stable order.
	ListTools() []Definition

	// CallTool executes the named tool. Failures wrap ErrNotFound or
	// ErrInvalidInput.
	CallTool(ctx context.Context, call ToolCall) (Response, error)
}
