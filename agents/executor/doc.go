/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package executor drives the think/act/observe loop between a
// decider.Decider and a toolcall.Dispatcher.
//
// Each round the loop asks the decider for the next step (Think), runs any
// proposed tool calls through the dispatcher (Act), and appends their
// results to the conversation (Observe). The loop ends when a round's
// calls include a successful terminal call, when the decider answers
// without calling any tool, or when the round cap is exceeded.
//
// Tool failures never stop the loop: they are written into the
// conversation as error results so the model can correct itself. A decider
// error always stops it.
//
//	exec, err := executor.New[review.Verdict](d,
//		executor.WithMaxRounds(10),
//		executor.WithParallelToolCalls(true),
//	)
//	if err != nil {
//		return err
//	}
//	res, err := exec.Run(ctx, trace, conv, dispatcher)
//
// # Options
//
//   - WithMaxRounds: cap on rounds before the loop aborts with ErrAborted
//     (default 20, 0 disables the cap)
//   - WithParallelToolCalls: run one round's calls concurrently; results
//     keep the order the calls were proposed in
//   - WithMetrics / WithAttributeEnricher: otel counters
package executor
