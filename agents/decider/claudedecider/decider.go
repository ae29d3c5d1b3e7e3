/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudedecider implements decider.Decider on the Anthropic
// Messages API, either directly or through Vertex AI.
//
//	client := anthropic.NewClient(vertex.WithGoogleAuth(ctx, region, projectID))
//	d, err := claudedecider.New(client,
//		claudedecider.WithModel("claude-sonnet-4@20250514"),
//		claudedecider.WithMaxTokens(4096),
//	)
//
// Rate limit and overload responses (429, 503, 504, 529) are retried with
// backoff inside Decide; every other error is returned to the loop.
package claudedecider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"chainguard.dev/quickreview/agents/conversation"
	"chainguard.dev/quickreview/agents/decider"
	"chainguard.dev/quickreview/agents/decider/retry"
	"chainguard.dev/quickreview/agents/schema"
	"chainguard.dev/quickreview/agents/toolcall"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/anthropics/anthropic-sdk-go/vertex"
)

// DefaultModel is the Vertex AI model ID used when WithModel is not given.
const DefaultModel = "claude-sonnet-4@20250514"

type claudeDecider struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
	retryConfig retry.Config
}

var _ decider.Decider = (*claudeDecider)(nil)

// New returns a decider backed by client.
func New(client anthropic.Client, opts ...Option) (decider.Decider, error) {
	d := &claudeDecider{
		client:      client,
		model:       DefaultModel,
		maxTokens:   8192,
		temperature: 0.1,
		retryConfig: retry.Default(),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}
	return d, nil
}

// NewVertexClient returns a client that authenticates to Vertex AI with
// application default credentials.
func NewVertexClient(ctx context.Context, projectID, region string) anthropic.Client {
	return anthropic.NewClient(vertex.WithGoogleAuth(ctx, region, projectID))
}

// NewAPIKeyClient returns a client for the public Anthropic API.
func NewAPIKeyClient(apiKey string, opts ...option.RequestOption) anthropic.Client {
	return anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
}

func (d *claudeDecider) Model() string { return d.model }

// Decide implements decider.Decider.
func (d *claudeDecider) Decide(ctx context.Context, conv *conversation.Conversation, tools []toolcall.Definition) (decider.Decision, error) {
	params, err := d.params(conv, tools)
	if err != nil {
		return decider.Decision{}, err
	}

	msg, err := retry.Do(ctx, d.retryConfig, "claude_messages", isRetryable, func(ctx context.Context) (*anthropic.Message, error) {
		return d.client.Messages.New(ctx, params)
	})
	if err != nil {
		return decider.Decision{}, fmt.Errorf("calling Claude: %w", err)
	}
	return toDecision(msg)
}

func (d *claudeDecider) params(conv *conversation.Conversation, tools []toolcall.Definition) (anthropic.MessageNewParams, error) {
	toolParams := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, def := range tools {
		tp, err := toolParam(def)
		if err != nil {
			return anthropic.MessageNewParams{}, err
		}
		toolParams = append(toolParams, anthropic.ToolUnionParam{OfTool: &tp})
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(d.model),
		MaxTokens:   d.maxTokens,
		Messages:    messages(conv),
		Tools:       toolParams,
		Temperature: anthropic.Float(d.temperature),
	}
	if system := conv.System(); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	return params, nil
}

func toolParam(def toolcall.Definition) (anthropic.ToolParam, error) {
	props, err := schema.Properties(def.Schema)
	if err != nil {
		return anthropic.ToolParam{}, fmt.Errorf("tool %s: %w", def.Name, err)
	}
	return anthropic.ToolParam{
		Name:        def.Name,
		Description: anthropic.String(def.Description),
		InputSchema: anthropic.ToolInputSchemaParam{
			Type:       constant.Object("object"),
			Properties: props,
			Required:   def.Required(),
		},
	}, nil
}

// messages translates the conversation. Consecutive tool results are folded
// into a single user message, as the Messages API requires.
func messages(conv *conversation.Conversation) []anthropic.MessageParam {
	var (
		out     []anthropic.MessageParam
		results []anthropic.ContentBlockParamUnion
	)
	flush := func() {
		if len(results) > 0 {
			out = append(out, anthropic.NewUserMessage(results...))
			results = nil
		}
	}

	for _, m := range conv.Turns() {
		switch m.Role {
		case conversation.RoleUser:
			flush()
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))

		case conversation.RoleAssistant:
			flush()
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, call := range m.ToolCalls {
				args := call.Args
				if args == nil {
					args = map[string]any{}
				}
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{ID: call.ID, Name: call.Name, Input: args},
				})
			}
			if len(blocks) > 0 {
				out = append(out, anthropic.MessageParam{Role: anthropic.MessageParamRoleAssistant, Content: blocks})
			}

		case conversation.RoleTool:
			block := &anthropic.ToolResultBlockParam{
				ToolUseID: m.ToolCallID,
				Content: []anthropic.ToolResultBlockParamContentUnion{{
					OfText: &anthropic.TextBlockParam{Text: m.Content},
				}},
			}
			if m.IsError {
				block.IsError = anthropic.Bool(true)
			}
			results = append(results, anthropic.ContentBlockParamUnion{OfToolResult: block})
		}
	}
	flush()
	return out
}

func toDecision(msg *anthropic.Message) (decider.Decision, error) {
	if msg == nil {
		return decider.Decision{}, errors.New("empty response from Claude")
	}
	dec := decider.Decision{
		Usage: decider.Usage{
			InputTokens:  msg.Usage.InputTokens,
			OutputTokens: msg.Usage.OutputTokens,
		},
	}
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			if dec.Text != "" {
				dec.Text += "\n"
			}
			dec.Text += block.Text
		case "tool_use":
			args := map[string]any{}
			if len(block.Input) > 0 {
				// A malformed payload leaves args empty; the dispatcher then
				// reports the missing arguments back to the model.
				_ = json.Unmarshal(block.Input, &args)
			}
			dec.ToolCalls = append(dec.ToolCalls, toolcall.ToolCall{ID: block.ID, Name: block.Name, Args: args})
		case "thinking":
			dec.Reasoning = append(dec.Reasoning, block.Thinking)
		}
	}
	return dec, nil
}

func isRetryable(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return retry.StatusRetryable(apiErr.StatusCode)
	}
	return false
}
