/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaidecider implements decider.Decider on the OpenAI Chat
// Completions API.
package openaidecider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/quickreview/agents/conversation"
	"chainguard.dev/quickreview/agents/decider"
	"chainguard.dev/quickreview/agents/decider/retry"
	"chainguard.dev/quickreview/agents/schema"
	"chainguard.dev/quickreview/agents/toolcall"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "gpt-4.1"

type openaiDecider struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature *float64
	retryConfig retry.Config
}

var _ decider.Decider = (*openaiDecider)(nil)

// New returns a decider backed by client.
func New(client openai.Client, opts ...Option) (decider.Decider, error) {
	d := &openaiDecider{
		client:      client,
		model:       DefaultModel,
		maxTokens:   8192,
		retryConfig: retry.Default(),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}
	return d, nil
}

// NewClient returns a client for apiKey. SDK level retries are disabled
// since Decide retries on its own.
func NewClient(apiKey string, opts ...option.RequestOption) openai.Client {
	return openai.NewClient(append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)...)
}

func (d *openaiDecider) Model() string { return d.model }

// Decide implements decider.Decider.
func (d *openaiDecider) Decide(ctx context.Context, conv *conversation.Conversation, tools []toolcall.Definition) (decider.Decision, error) {
	params, err := d.params(conv, tools)
	if err != nil {
		return decider.Decision{}, err
	}

	completion, err := retry.Do(ctx, d.retryConfig, "chat_completion", isRetryable, func(ctx context.Context) (*openai.ChatCompletion, error) {
		return d.client.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		return decider.Decision{}, fmt.Errorf("calling OpenAI model %q: %w", d.model, err)
	}
	return toDecision(completion)
}

func (d *openaiDecider) params(conv *conversation.Conversation, tools []toolcall.Definition) (openai.ChatCompletionNewParams, error) {
	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(d.model),
		Messages:            messages(conv),
		MaxCompletionTokens: openai.Int(d.maxTokens),
	}
	if d.temperature != nil {
		params.Temperature = openai.Float(*d.temperature)
	}
	for _, t := range tools {
		parameters, err := schema.ToMap(t.Schema)
		if err != nil {
			return params, fmt.Errorf("tool %s: %w", t.Name, err)
		}
		params.Tools = append(params.Tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  openai.FunctionParameters(parameters),
			},
		})
	}
	return params, nil
}

func messages(conv *conversation.Conversation) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		switch m.Role {
		case conversation.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case conversation.RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		case conversation.RoleAssistant:
			asst := openai.ChatCompletionAssistantMessageParam{}
			if m.Content != "" {
				asst.Content.OfString = openai.String(m.Content)
			}
			for _, call := range m.ToolCalls {
				args := "{}"
				if len(call.Args) > 0 {
					if b, err := json.Marshal(call.Args); err == nil {
						args = string(b)
					}
				}
				asst.ToolCalls = append(asst.ToolCalls, openai.ChatCompletionMessageToolCallParam{
					ID: call.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      call.Name,
						Arguments: args,
					},
				})
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: &asst})
		case conversation.RoleTool:
			content := m.Content
			if m.IsError && !strings.HasPrefix(content, "Error:") {
				content = "Error: " + content
			}
			out = append(out, openai.ToolMessage(content, m.ToolCallID))
		}
	}
	return out
}

func toDecision(completion *openai.ChatCompletion) (decider.Decision, error) {
	if completion == nil || len(completion.Choices) == 0 {
		return decider.Decision{}, errors.New("no choices in response")
	}
	msg := completion.Choices[0].Message
	dec := decider.Decision{
		Text: msg.Content,
		Usage: decider.Usage{
			InputTokens:  completion.Usage.PromptTokens,
			OutputTokens: completion.Usage.CompletionTokens,
		},
	}
	for _, call := range msg.ToolCalls {
		args := map[string]any{}
		if strings.TrimSpace(call.Function.Arguments) != "" {
			// Unparseable arguments reach the dispatcher as an empty object
			// and come back to the model as a missing-argument error.
			_ = json.Unmarshal([]byte(call.Function.Arguments), &args)
		}
		dec.ToolCalls = append(dec.ToolCalls, toolcall.ToolCall{ID: call.ID, Name: call.Function.Name, Args: args})
	}
	return dec, nil
}

func isRetryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return retry.StatusRetryable(apiErr.StatusCode)
	}
	return false
}
