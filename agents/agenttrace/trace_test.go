/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

type recordingTracer[T any] struct {
	mu     sync.Mutex
	traces []*Trace[T]
}

func (r *recordingTracer[T]) NewTrace(ctx context.Context, prompt string) *Trace[T] {
	return newTrace[T](ctx, r, prompt)
}

func (r *recordingTracer[T]) RecordTrace(trace *Trace[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.traces = append(r.traces, trace)
}

func TestTraceLifecycle(t *testing.T) {
	rec := &recordingTracer[string]{}
	ctx := WithTracer[string](context.Background(), rec)
	ctx = WithExecutionContext(ctx, ExecutionContext{Platform: "github", Repository: "acme/widgets", RequestID: "42"})

	tr := StartTrace[string](ctx, "review it")
	if tr.ExecContext.Repository != "acme/widgets" {
		t.Errorf("exec context: got = %+v, wanted repository acme/widgets", tr.ExecContext)
	}

	tr.RecordRound()
	tc := tr.StartToolCall("c1", "retrieve_context", map[string]any{"part": "diff"})
	tc.Complete("+added", nil)
	tr.BadToolCall("c2", "nope", nil, errors.New("unknown tool: nope"))
	tr.RecordTokenUsage("m", 10, 3)
	tr.RecordTokenUsage("m", 5, 2)
	tr.RecordReasoning("thinking", "")

	if len(rec.traces) != 0 {
		t.Fatalf("recorded before completion: got = %d, wanted = 0", len(rec.traces))
	}
	tr.Complete("done", nil)

	if len(rec.traces) != 1 || rec.traces[0] != tr {
		t.Fatalf("recorded traces: got = %v, wanted [trace]", rec.traces)
	}
	if got := len(tr.ToolCalls); got != 2 {
		t.Errorf("tool calls: got = %d, wanted = 2", got)
	}
	if tr.InputTokens != 15 || tr.OutputTokens != 5 {
		t.Errorf("tokens: got = (%d, %d), wanted = (15, 5)", tr.InputTokens, tr.OutputTokens)
	}
	if got := tr.RoundCount(); got != 1 {
		t.Errorf("rounds: got = %d, wanted = 1", got)
	}
	if len(tr.Reasoning) != 1 {
		t.Errorf("reasoning: got = %v, wanted one block", tr.Reasoning)
	}

	s := tr.String()
	for _, want := range []string{"retrieve_context", "part: diff", "unknown tool: nope", "Result: done", "Rounds: 1"} {
		if !strings.Contains(s, want) {
			t.Errorf("String(): missing %q in\n%s", want, s)
		}
	}
}

func TestTraceError(t *testing.T) {
	rec := &recordingTracer[int]{}
	tr := rec.NewTrace(context.Background(), "p")
	tr.Complete(0, errors.New("boom"))
	if err := tr.Err(); err == nil || err.Error() != "boom" {
		t.Errorf("Err: got = %v, wanted boom", err)
	}
	if !strings.Contains(tr.String(), "Error: boom") {
		t.Errorf("String(): got %q, wanted error", tr.String())
	}
}

func TestTracersByType(t *testing.T) {
	strs := &recordingTracer[string]{}
	ints := &recordingTracer[int]{}
	ctx := WithTracer[string](context.Background(), strs)
	ctx = WithTracer[int](ctx, ints)

	StartTrace[string](ctx, "a").Complete("x", nil)
	StartTrace[int](ctx, "b").Complete(1, nil)

	if len(strs.traces) != 1 || len(ints.traces) != 1 {
		t.Errorf("traces: got = (%d, %d), wanted = (1, 1)", len(strs.traces), len(ints.traces))
	}

	if TracerFromContext[bool](ctx) == nil {
		t.Error("default tracer: got = nil")
	}
}

func TestByCodeRunsCallbacksConcurrently(t *testing.T) {
	started := make(chan int, 3)
	proceed := make(chan struct{})
	cb := func(i int) Callback[string] {
		return func(*Trace[string]) {
			started <- i
			<-proceed
		}
	}

	tr := ByCode(cb(1), nil, cb(2), cb(3)).NewTrace(context.Background(), "p")
	done := make(chan struct{})
	go func() {
		tr.Complete("r", nil)
		close(done)
	}()

	timeout := time.After(time.Second)
	for range 3 {
		select {
		case <-started:
		case <-timeout:
			t.Fatal("callbacks did not start concurrently")
		}
	}
	close(proceed)
	<-done
}

func TestExecutionContextAttributes(t *testing.T) {
	ctx := WithExecutionContext(context.Background(), ExecutionContext{Platform: "gitlab", Repository: "g/r", RequestID: "7"})
	ctx = WithRound(ctx, 3)
	ec := GetExecutionContext(ctx)
	if ec.Round != 3 || ec.RequestID != "7" {
		t.Errorf("GetExecutionContext: got = %+v", ec)
	}

	attrs := ec.EnrichAttributes([]attribute.KeyValue{attribute.String("model", "m")})
	keys := map[attribute.Key]bool{}
	for _, a := range attrs {
		keys[a.Key] = true
	}
	for _, k := range []attribute.Key{"model", "platform", "repository", "round"} {
		if !keys[k] {
			t.Errorf("EnrichAttributes: missing %q", k)
		}
	}
	if keys["review.request_id"] || keys["request_id"] {
		t.Error("EnrichAttributes: request id must not be a metric label")
	}

	if got := GetExecutionContext(context.Background()); got != (ExecutionContext{}) {
		t.Errorf("empty context: got = %+v, wanted zero", got)
	}
}
