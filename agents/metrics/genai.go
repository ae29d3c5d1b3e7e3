/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics records OpenTelemetry metrics for agent runs. Counters
// degrade to no-ops when they cannot be created, and nothing is exported
// unless the process installs a meter provider.
package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// GenAI holds the counters for model and tool usage.
type GenAI struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	toolCalls        metric.Int64Counter
	toolErrors       metric.Int64Counter
	rounds           metric.Int64Counter
	runs             metric.Int64Counter
	attrEnricher     AttributeEnricher
}

// NewGenAI creates the counters on the named meter. The model is recorded
// as an attribute rather than in the meter name so that all decider
// implementations aggregate together.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	counter := func(name, description, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
		if err != nil {
			slog.Warn("Failed to create counter, it will be disabled", "counter", name, "error", err, "meter", meterName)
			return noop.Int64Counter{}
		}
		return c
	}

	return &GenAI{
		promptTokens:     counter("genai.token.prompt", "The number of prompt tokens used", "{tokens}"),
		completionTokens: counter("genai.token.completion", "The number of completion tokens used", "{tokens}"),
		toolCalls:        counter("genai.tool.calls", "The number of tool calls made during execution", "{calls}"),
		toolErrors:       counter("genai.tool.errors", "The number of tool calls that failed", "{calls}"),
		rounds:           counter("genai.agent.rounds", "The number of reasoning rounds executed", "{rounds}"),
		runs:             counter("genai.agent.runs", "The number of agent runs by outcome", "{runs}"),
	}
}

// SetAttributeEnricher installs a hook that adds contextual attributes to
// every recording.
func (m *GenAI) SetAttributeEnricher(enricher AttributeEnricher) {
	m.attrEnricher = enricher
}

func (m *GenAI) attrs(ctx context.Context, base []attribute.KeyValue, extra []attribute.KeyValue) metric.MeasurementOption {
	if m.attrEnricher != nil {
		base = m.attrEnricher(ctx, base)
	}
	return metric.WithAttributes(append(base, extra...)...)
}

// RecordTokens records prompt and completion token usage.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64, attrs ...attribute.KeyValue) {
	opt := m.attrs(ctx, []attribute.KeyValue{attribute.String("model", model)}, attrs)
	m.promptTokens.Add(ctx, promptTokens, opt)
	m.completionTokens.Add(ctx, completionTokens, opt)
}

// RecordToolCall records one tool invocation and, if it failed, its
// failure class.
func (m *GenAI) RecordToolCall(ctx context.Context, model, toolName string, failure string, attrs ...attribute.KeyValue) {
	opt := m.attrs(ctx, []attribute.KeyValue{
		attribute.String("model", model),
		attribute.String("tool", toolName),
	}, attrs)
	m.toolCalls.Add(ctx, 1, opt)
	if failure != "" {
		m.toolErrors.Add(ctx, 1, m.attrs(ctx, []attribute.KeyValue{
			attribute.String("model", model),
			attribute.String("tool", toolName),
			attribute.String("failure", failure),
		}, attrs))
	}
}

// RecordRound records one completed reasoning round.
func (m *GenAI) RecordRound(ctx context.Context, model string, attrs ...attribute.KeyValue) {
	m.rounds.Add(ctx, 1, m.attrs(ctx, []attribute.KeyValue{attribute.String("model", model)}, attrs))
}

// RecordRun records the terminal outcome of an agent run.
func (m *GenAI) RecordRun(ctx context.Context, model, outcome string, attrs ...attribute.KeyValue) {
	m.runs.Add(ctx, 1, m.attrs(ctx, []attribute.KeyValue{
		attribute.String("model", model),
		attribute.String("outcome", outcome),
	}, attrs))
}
