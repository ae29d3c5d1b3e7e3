/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package reviewagent reviews a single pull or merge request with a
// tool-using model.
//
// The model is offered two tools. retrieve_context loads one part of the
// request (title, description, diff or files) and submit_review records the
// verdict. A Reviewer runs the executor loop over those tools until the
// model submits, and fails with ErrNonCompliance if it never does.
//
// The tools are served either from a Bundle that is already in memory
// (NewBundleDispatcher) or from a live provider.Provider that is fetched at
// most once per review and receives the verdict on submission
// (NewLiveDispatcher). Pipeline wires the first form into a fetch, review
// and publish sequence.
package reviewagent
