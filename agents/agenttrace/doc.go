/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package agenttrace records what happened during one agent run.

A Trace[T] spans the run from its initial prompt to its result of type T.
Every tool invocation is recorded as a ToolCall[T] child, every round as an
increment of Trace.Rounds. Both are mirrored as OpenTelemetry spans, so a
configured trace exporter sees one "agent.execution" span per review with
"agent.tool_call" children.

Execution context (platform, repository, request) travels on the Go
context and is attached to spans and metrics:

	ctx = agenttrace.WithExecutionContext(ctx, agenttrace.ExecutionContext{
		Platform:   "github",
		Repository: "acme/widgets",
		RequestID:  "42",
	})

Traces are created by a Tracer taken from the context. Without one, the
default tracer logs each completed trace through clog:

	ctx = agenttrace.WithTracer(ctx, agenttrace.ByCode(func(tr *agenttrace.Trace[review.Verdict]) {
		fmt.Println(tr)
	}))
	tr := agenttrace.StartTrace[review.Verdict](ctx, prompt)
	tc := tr.StartToolCall("call-1", "retrieve_context", map[string]any{"part": "diff"})
	tc.Complete("...", nil)
	tr.Complete(verdict, nil)
*/
package agenttrace
