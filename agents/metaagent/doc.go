/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metaagent selects and constructs a decider.Decider from a model
// name, so callers can switch model families with configuration alone.
//
// # Model Support
//
//   - Models starting with "claude-" use Anthropic's SDK, via Vertex AI
//     unless an Anthropic API key is configured
//   - Models starting with "gemini-" use Google's Generative AI SDK, via
//     Vertex AI unless a Gemini API key is configured
//   - Models starting with "gpt-" or "o<N>" use OpenAI's SDK
//
// # Usage
//
//	d, err := metaagent.New(ctx, metaagent.Config{
//	    Model:     "claude-sonnet-4@20250514",
//	    ProjectID: projectID,
//	    Region:    "us-east5",
//	})
//	exec, err := executor.New[review.Verdict](d)
package metaagent
