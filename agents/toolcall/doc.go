/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package toolcall defines the tool catalog shared between the reasoning
// loop and the tools it can invoke.
//
// A Tool pairs a Definition (name, description and JSON schema for its
// arguments) with a Handler. Tools are collected in a Registry, which
// implements Dispatcher:
//
//	reg, err := toolcall.NewRegistry(
//		toolcall.Tool{
//			Def: toolcall.Definition{
//				Name:        "echo",
//				Description: "Echo the input back",
//				Schema:      schema.ReflectType[echoArgs](),
//			},
//			Handler: func(ctx context.Context, call toolcall.ToolCall) (toolcall.Response, error) {
//				return toolcall.Text(call.Args["input"].(string)), nil
//			},
//		},
//	)
//
// # Failures
//
// Dispatch failures are recoverable and are reported back to the model
// rather than aborting the loop. They are classified with the sentinels
// ErrNotFound (the model named a tool that does not exist) and
// ErrInvalidInput (arguments were missing, malformed, or a collaborator the
// tool depends on failed). Use errors.Is to classify an error returned by
// Dispatcher.CallTool.
package toolcall
