/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Tracer creates traces and receives them once complete.
type Tracer[T any] interface {
	NewTrace(ctx context.Context, prompt string) *Trace[T]
	RecordTrace(trace *Trace[T])
}

type tracerKey[T any] struct{}

// WithTracer attaches tracer to ctx. Tracers for different result types
// coexist.
func WithTracer[T any](ctx context.Context, tracer Tracer[T]) context.Context {
	return context.WithValue(ctx, tracerKey[T]{}, tracer)
}

// TracerFromContext returns the tracer attached to ctx, or the default
// logging tracer.
func TracerFromContext[T any](ctx context.Context) Tracer[T] {
	if tracer, ok := ctx.Value(tracerKey[T]{}).(Tracer[T]); ok {
		return tracer
	}
	return NewDefaultTracer[T](ctx)
}

// StartTrace starts a trace with the tracer from ctx.
func StartTrace[T any](ctx context.Context, prompt string) *Trace[T] {
	return TracerFromContext[T](ctx).NewTrace(ctx, prompt)
}

// Callback receives completed traces.
type Callback[T any] func(*Trace[T])

type byCodeTracer[T any] struct {
	callbacks []Callback[T]
}

// ByCode returns a tracer that hands each completed trace to every callback.
// Callbacks run concurrently and RecordTrace waits for all of them.
func ByCode[T any](callbacks ...Callback[T]) Tracer[T] {
	return &byCodeTracer[T]{callbacks: callbacks}
}

func (t *byCodeTracer[T]) NewTrace(ctx context.Context, prompt string) *Trace[T] {
	return newTrace[T](ctx, t, prompt)
}

func (t *byCodeTracer[T]) RecordTrace(trace *Trace[T]) {
	var g errgroup.Group
	for _, cb := range t.callbacks {
		if cb == nil {
			continue
		}
		g.Go(func() error {
			cb(trace)
			return nil
		})
	}
	_ = g.Wait()
}

// NewDefaultTracer returns a tracer that logs completed traces at debug
// level, with a one line info summary.
func NewDefaultTracer[T any](ctx context.Context) Tracer[T] {
	log := clog.FromContext(ctx)
	return ByCode(func(trace *Trace[T]) {
		l := log.With(
			"trace_id", trace.ID,
			"duration_ms", trace.Duration().Milliseconds(),
			"rounds", trace.RoundCount(),
			"tool_calls", len(trace.ToolCalls),
		)
		l.Debug("Agent trace", "trace", trace.String())
		if err := trace.Err(); err != nil {
			l.Info("Agent run failed", "error", err)
		} else {
			l.Info("Agent run completed")
		}
	})
}
