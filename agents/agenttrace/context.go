/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// ExecutionContext identifies the request an agent run works on.
type ExecutionContext struct {
	Platform   string `json:"platform,omitempty"`
	Repository string `json:"repository,omitempty"` // "owner/repo"
	RequestID  string `json:"request_id,omitempty"`
	Round      int    `json:"round,omitempty"`
}

// SpanAttributes returns every populated field as span attributes.
func (e ExecutionContext) SpanAttributes() []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if e.Platform != "" {
		attrs = append(attrs, attribute.String("review.platform", e.Platform))
	}
	if e.Repository != "" {
		attrs = append(attrs, attribute.String("review.repository", e.Repository))
	}
	if e.RequestID != "" {
		attrs = append(attrs, attribute.String("review.request_id", e.RequestID))
	}
	return attrs
}

// EnrichAttributes appends the bounded fields to baseAttrs for use as metric
// labels. RequestID is left out since every request would create a new time
// series.
func (e ExecutionContext) EnrichAttributes(baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(baseAttrs), len(baseAttrs)+3)
	copy(attrs, baseAttrs)

	if e.Platform != "" {
		attrs = append(attrs, attribute.String("platform", e.Platform))
	}
	if e.Repository != "" {
		attrs = append(attrs, attribute.String("repository", e.Repository))
	}
	return append(attrs, attribute.Int("round", e.Round))
}

type executionContextKey struct{}

// WithExecutionContext attaches execCtx to ctx.
func WithExecutionContext(ctx context.Context, execCtx ExecutionContext) context.Context {
	return context.WithValue(ctx, executionContextKey{}, execCtx)
}

// GetExecutionContext returns the execution context attached to ctx, or the
// zero value.
func GetExecutionContext(ctx context.Context) ExecutionContext {
	execCtx, _ := ctx.Value(executionContextKey{}).(ExecutionContext)
	return execCtx
}

// WithRound returns ctx with the round number of its execution context set.
func WithRound(ctx context.Context, round int) context.Context {
	execCtx := GetExecutionContext(ctx)
	execCtx.Round = round
	return WithExecutionContext(ctx, execCtx)
}
