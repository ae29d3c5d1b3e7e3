/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googledecider implements decider.Decider on Gemini models served
// by Vertex AI or the Gemini API.
//
//	client, err := genai.NewClient(ctx, &genai.ClientConfig{
//		Project:  projectID,
//		Location: region,
//		Backend:  genai.BackendVertexAI,
//	})
//	d, err := googledecider.New(client, googledecider.WithModel("gemini-2.5-flash"))
package googledecider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/quickreview/agents/conversation"
	"chainguard.dev/quickreview/agents/decider"
	"chainguard.dev/quickreview/agents/decider/retry"
	"chainguard.dev/quickreview/agents/schema"
	"chainguard.dev/quickreview/agents/toolcall"
	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "gemini-2.5-flash"

type googleDecider struct {
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
	thinkingBudget  *int32
	retryConfig     retry.Config
}

var _ decider.Decider = (*googleDecider)(nil)

// New returns a decider backed by client.
func New(client *genai.Client, opts ...Option) (decider.Decider, error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}
	d := &googleDecider{
		client:          client,
		model:           DefaultModel,
		temperature:     0.1,
		maxOutputTokens: 8192,
		retryConfig:     retry.Default(),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}
	return d, nil
}

// NewVertexClient returns a Vertex AI client using application default
// credentials.
func NewVertexClient(ctx context.Context, projectID, region string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: region,
		Backend:  genai.BackendVertexAI,
	})
}

func (d *googleDecider) Model() string { return d.model }

// Decide implements decider.Decider. A malformed function call is answered
// once with the list of valid functions before giving up.
func (d *googleDecider) Decide(ctx context.Context, conv *conversation.Conversation, tools []toolcall.Definition) (decider.Decision, error) {
	config, err := d.config(conv, tools)
	if err != nil {
		return decider.Decision{}, err
	}
	contents := contents(conv)

	resp, err := d.generate(ctx, "generate_content", contents, config)
	if err != nil {
		return decider.Decision{}, err
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonMalformedFunctionCall {
		names := make([]string, 0, len(tools))
		for _, t := range tools {
			names = append(names, t.Name)
		}
		clog.FromContext(ctx).Warn("Model produced a malformed function call, asking it to retry")

		contents = append(contents, &genai.Content{
			Role: "user",
			Parts: []*genai.Part{{
				Text: fmt.Sprintf("The function call was malformed. Please try again using the available functions: %s", strings.Join(names, ", ")),
			}},
		})
		first := usage(resp)
		if resp, err = d.generate(ctx, "generate_content_malformed_retry", contents, config); err != nil {
			return decider.Decision{}, err
		}
		dec, err := toDecision(resp)
		dec.Usage.InputTokens += first.InputTokens
		dec.Usage.OutputTokens += first.OutputTokens
		return dec, err
	}
	return toDecision(resp)
}

func (d *googleDecider) generate(ctx context.Context, op string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	resp, err := retry.Do(ctx, d.retryConfig, op, isRetryable, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return d.client.Models.GenerateContent(ctx, d.model, contents, config)
	})
	if err != nil {
		return nil, fmt.Errorf("calling Gemini model %q: %w", d.model, err)
	}
	return resp, nil
}

func (d *googleDecider) config(conv *conversation.Conversation, tools []toolcall.Definition) (*genai.GenerateContentConfig, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(d.temperature),
		MaxOutputTokens: d.maxOutputTokens,
	}
	if system := conv.System(); system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	if len(tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(tools))
		for _, t := range tools {
			if t.Name == "" {
				return nil, errors.New("tool definition without a name")
			}
			decls = append(decls, &genai.FunctionDeclaration{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  schema.ToGenai(t.Schema),
			})
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	if d.thinkingBudget != nil {
		config.ThinkingConfig = &genai.ThinkingConfig{
			IncludeThoughts: true,
			ThinkingBudget:  d.thinkingBudget,
		}
	}
	return config, nil
}

// contents translates the conversation. Tool results of one round become
// the function response parts of a single user turn.
func contents(conv *conversation.Conversation) []*genai.Content {
	var (
		out       []*genai.Content
		responses []*genai.Part
	)
	flush := func() {
		if len(responses) > 0 {
			out = append(out, &genai.Content{Role: "user", Parts: responses})
			responses = nil
		}
	}

	for _, m := range conv.Turns() {
		switch m.Role {
		case conversation.RoleUser:
			flush()
			out = append(out, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: m.Content}}})

		case conversation.RoleAssistant:
			flush()
			var parts []*genai.Part
			if m.Content != "" {
				parts = append(parts, &genai.Part{Text: m.Content})
			}
			for _, call := range m.ToolCalls {
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   call.ID,
					Name: call.Name,
					Args: call.Args,
				}})
			}
			if len(parts) > 0 {
				out = append(out, &genai.Content{Role: "model", Parts: parts})
			}

		case conversation.RoleTool:
			key := "output"
			if m.IsError {
				key = "error"
			}
			responses = append(responses, &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       m.ToolCallID,
				Name:     m.ToolName,
				Response: map[string]any{key: m.Content},
			}})
		}
	}
	flush()
	return out
}

func toDecision(resp *genai.GenerateContentResponse) (decider.Decision, error) {
	dec := decider.Decision{Usage: usage(resp)}
	if resp == nil || len(resp.Candidates) == 0 {
		return dec, errors.New("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return dec, fmt.Errorf("no content generated (finish reason %s)", candidate.FinishReason)
	}

	var text []string
	for _, part := range candidate.Content.Parts {
		switch {
		case part.Thought:
			dec.Reasoning = append(dec.Reasoning, part.Text)
		case part.FunctionCall != nil:
			args := part.FunctionCall.Args
			if args == nil {
				args = map[string]any{}
			}
			dec.ToolCalls = append(dec.ToolCalls, toolcall.ToolCall{
				ID:   part.FunctionCall.ID,
				Name: part.FunctionCall.Name,
				Args: args,
			})
		case part.Text != "":
			text = append(text, part.Text)
		}
	}
	dec.Text = strings.Join(text, "\n")
	return dec, nil
}

func usage(resp *genai.GenerateContentResponse) decider.Usage {
	if resp == nil || resp.UsageMetadata == nil {
		return decider.Usage{}
	}
	return decider.Usage{
		InputTokens:  int64(resp.UsageMetadata.PromptTokenCount),
		OutputTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
	}
}

// isRetryable reports rate limit, quota and transient server errors.
func isRetryable(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retry.StatusRetryable(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return retry.StatusRetryable(apiErrPtr.Code)
	}
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "Resource exhausted") ||
		strings.Contains(msg, "quota exceeded") ||
		strings.Contains(msg, "Overloaded")
}
