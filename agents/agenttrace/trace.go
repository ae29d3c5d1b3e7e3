/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "chainguard.dev/quickreview/agents/agenttrace"

func tracer() oteltrace.Tracer {
	return otel.Tracer(instrumentationName, oteltrace.WithInstrumentationVersion("1.0.0"))
}

// ToolCall records one tool invocation within a trace.
type ToolCall[T any] struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Params    map[string]any `json:"params"`
	Result    any            `json:"result"`
	Error     error          `json:"error,omitempty"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`

	trace *Trace[T]
	mu    sync.Mutex
	span  oteltrace.Span
}

// Trace records one agent run from prompt to result.
type Trace[T any] struct {
	ID           string           `json:"id"`
	InputPrompt  string           `json:"input_prompt"`
	ExecContext  ExecutionContext `json:"exec_context,omitempty"`
	ToolCalls    []*ToolCall[T]   `json:"tool_calls"`
	Reasoning    []string         `json:"reasoning,omitempty"`
	Rounds       int              `json:"rounds"`
	InputTokens  int64            `json:"input_tokens"`
	OutputTokens int64            `json:"output_tokens"`
	Result       T                `json:"result"`
	Error        error            `json:"error,omitempty"`
	StartTime    time.Time        `json:"start_time"`
	EndTime      time.Time        `json:"end_time"`
	Metadata     map[string]any   `json:"metadata,omitempty"`

	tracer Tracer[T]
	mu     sync.Mutex
	ctx    context.Context
	span   oteltrace.Span
}

func newTrace[T any](ctx context.Context, tr Tracer[T], prompt string) *Trace[T] {
	execCtx := GetExecutionContext(ctx)

	attrs := append([]attribute.KeyValue{attribute.String("agent.prompt", prompt)}, execCtx.SpanAttributes()...)
	ctx, span := tracer().Start(ctx, "agent.execution", oteltrace.WithAttributes(attrs...))

	return &Trace[T]{
		ID:          newTraceID(),
		InputPrompt: prompt,
		ExecContext: execCtx,
		ToolCalls:   []*ToolCall[T]{},
		StartTime:   time.Now(),
		Metadata:    make(map[string]any),
		tracer:      tr,
		ctx:         ctx,
		span:        span,
	}
}

// Context returns a context carrying the trace's span, for child work.
func (t *Trace[T]) Context() context.Context {
	return t.ctx
}

// StartToolCall opens a tool call record. Call Complete on the result.
func (t *Trace[T]) StartToolCall(id, name string, params map[string]any) *ToolCall[T] {
	_, span := tracer().Start(t.ctx, "agent.tool_call", oteltrace.WithAttributes(
		attribute.String("tool.name", name),
		attribute.String("tool.id", id),
	))

	return &ToolCall[T]{
		ID:        id,
		Name:      name,
		Params:    params,
		StartTime: time.Now(),
		trace:     t,
		span:      span,
	}
}

// BadToolCall records a call that was rejected before it ran.
func (t *Trace[T]) BadToolCall(id, name string, params map[string]any, err error) {
	tc := t.StartToolCall(id, name, params)
	tc.Complete(nil, err)
}

// RecordRound counts one think/act/observe cycle.
func (t *Trace[T]) RecordRound() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Rounds++
	return t.Rounds
}

// RecordReasoning keeps thinking output exposed by the model.
func (t *Trace[T]) RecordReasoning(blocks ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, b := range blocks {
		if b != "" {
			t.Reasoning = append(t.Reasoning, b)
		}
	}
}

// RecordTokenUsage accumulates token counts and mirrors the running totals
// onto the span.
func (t *Trace[T]) RecordTokenUsage(model string, inputTokens, outputTokens int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.InputTokens += inputTokens
	t.OutputTokens += outputTokens
	if t.span != nil {
		t.span.SetAttributes(
			attribute.String("model", model),
			attribute.Int64("tokens.input", t.InputTokens),
			attribute.Int64("tokens.output", t.OutputTokens),
			attribute.Int64("tokens.total", t.InputTokens+t.OutputTokens),
		)
	}
}

// Complete closes the tool call and attaches it to its trace.
func (tc *ToolCall[T]) Complete(result any, err error) {
	tc.mu.Lock()
	tc.Result = result
	tc.Error = err
	tc.EndTime = time.Now()
	span := tc.span
	tc.mu.Unlock()

	endSpan(span, err)

	tc.trace.mu.Lock()
	defer tc.trace.mu.Unlock()
	tc.trace.ToolCalls = append(tc.trace.ToolCalls, tc)
}

// Duration returns how long the tool call ran, or has been running.
func (tc *ToolCall[T]) Duration() time.Duration {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return elapsed(tc.StartTime, tc.EndTime)
}

// Complete closes the trace and hands it to its tracer.
func (t *Trace[T]) Complete(result T, err error) {
	t.mu.Lock()
	t.Result = result
	t.Error = err
	t.EndTime = time.Now()
	tr := t.tracer
	span := t.span
	if span != nil {
		span.SetAttributes(attribute.Int("agent.rounds", t.Rounds))
	}
	t.mu.Unlock()

	endSpan(span, err)

	if tr != nil {
		tr.RecordTrace(t)
	}
}

// Duration returns the run time of the trace.
func (t *Trace[T]) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return elapsed(t.StartTime, t.EndTime)
}

// RoundCount returns the number of recorded rounds.
func (t *Trace[T]) RoundCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Rounds
}

// Err returns the error the trace completed with.
func (t *Trace[T]) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Error
}

// String renders the trace for logs. Long values are truncated.
func (t *Trace[T]) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Trace %s ===\n", t.ID)
	fmt.Fprintf(&sb, "Prompt: %q\n", truncate(t.InputPrompt, 200))
	fmt.Fprintf(&sb, "Duration: %v\n", elapsed(t.StartTime, t.EndTime))
	fmt.Fprintf(&sb, "Rounds: %d\n", t.Rounds)
	fmt.Fprintf(&sb, "Tokens: %d in, %d out\n", t.InputTokens, t.OutputTokens)

	if len(t.Reasoning) > 0 {
		fmt.Fprintf(&sb, "\nReasoning (%d blocks):\n", len(t.Reasoning))
		for i, r := range t.Reasoning {
			fmt.Fprintf(&sb, "  [%d] %s\n", i+1, truncate(r, 200))
		}
	}

	if len(t.ToolCalls) == 0 {
		sb.WriteString("\nNo tool calls\n")
	} else {
		fmt.Fprintf(&sb, "\nTool Calls (%d):\n", len(t.ToolCalls))
		for i, tc := range t.ToolCalls {
			fmt.Fprintf(&sb, "  [%d] %s (ID: %s) %v\n", i+1, tc.Name, tc.ID, elapsed(tc.StartTime, tc.EndTime))
			for _, k := range slices.Sorted(maps.Keys(tc.Params)) {
				fmt.Fprintf(&sb, "      %s: %s\n", k, truncate(fmt.Sprint(tc.Params[k]), 120))
			}
			if tc.Error != nil {
				fmt.Fprintf(&sb, "      Error: %v\n", tc.Error)
			} else if tc.Result != nil {
				fmt.Fprintf(&sb, "      Result: %s\n", truncate(fmt.Sprint(tc.Result), 200))
			}
		}
	}

	sb.WriteString("\nCompletion:\n")
	if t.Error != nil {
		fmt.Fprintf(&sb, "  Error: %v\n", t.Error)
	} else {
		fmt.Fprintf(&sb, "  Result: %s\n", truncate(fmt.Sprintf("%+v", t.Result), 500))
	}

	if len(t.Metadata) > 0 {
		sb.WriteString("\nMetadata:\n")
		for _, k := range slices.Sorted(maps.Keys(t.Metadata)) {
			fmt.Fprintf(&sb, "  %s: %v\n", k, t.Metadata[k])
		}
	}
	return sb.String()
}

func endSpan(span oteltrace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func elapsed(start, end time.Time) time.Duration {
	if end.IsZero() {
		return time.Since(start)
	}
	return end.Sub(start)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// newTraceID returns "YYYYMMDD-HHMMSS-xxxxxxxx".
func newTraceID() string {
	now := time.Now()
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return now.Format("20060102-150405.000000")
	}
	return now.Format("20060102-150405") + "-" + hex.EncodeToString(b)
}
