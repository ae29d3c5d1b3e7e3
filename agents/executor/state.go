/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package executor

import (
	"errors"
	"fmt"
)

// State is a state of the reasoning loop.
type State int

const (
	StateThink State = iota
	StateAct
	StateObserve
	StateTerminal
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateThink:
		return "think"
	case StateAct:
		return "act"
	case StateObserve:
		return "observe"
	case StateTerminal:
		return "terminal"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrAborted is returned when the loop exceeds its round cap.
	ErrAborted = errors.New("reasoning loop aborted: maximum rounds exceeded")

	// ErrDecider wraps transport or protocol failures of the decider.
	ErrDecider = errors.New("decision-maker failed")
)

// Result describes how the loop ended.
type Result struct {
	// State is StateTerminal or StateAborted.
	State State

	// Submitted is true when a terminal tool call succeeded.
	Submitted bool

	Rounds int

	// FinalText is the text of the last decider turn.
	FinalText string
}
