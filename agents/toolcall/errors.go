/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound classifies calls naming a tool that is not in the catalog.
	ErrNotFound = errors.New("tool not found")

	// ErrInvalidInput classifies calls whose arguments were rejected, or
	// whose backing collaborator failed.
	ErrInvalidInput = errors.New("invalid tool input")
)

// Error is a recoverable tool failure.
type Error struct {
	// Kind is ErrNotFound or ErrInvalidInput.
	Kind error
	Tool string
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == ErrNotFound {
		return fmt.Sprintf("unknown tool: %s", e.Tool)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Tool, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

// Unwrap exposes both the classification and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound reports a call to an undeclared tool.
func NotFound(tool string) error {
	return &Error{Kind: ErrNotFound, Tool: tool}
}

// InvalidInput reports rejected arguments or a failed collaborator.
func InvalidInput(tool string, err error) error {
	return &Error{Kind: ErrInvalidInput, Tool: tool, Err: err}
}

// InvalidInputf is InvalidInput with a formatted cause.
func InvalidInputf(tool, format string, args ...any) error {
	return InvalidInput(tool, fmt.Errorf(format, args...))
}
