/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package provider defines how review content is fetched from, and
// verdicts are published to, a code hosting platform.
package provider

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/quickreview/review"
)

// Operation names used in Error.
const (
	OpFetch   = "fetch"
	OpPublish = "publish"
)

// ErrUnsupportedPlatform is returned when no provider handles an identity's
// platform.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Provider fetches request content and publishes verdicts.
type Provider interface {
	// Fetch returns the content of the request named by id.
	Fetch(ctx context.Context, id review.Identity) (*review.Bundle, error)

	// Publish posts v as a review of the request named by id.
	Publish(ctx context.Context, id review.Identity, v review.Verdict) error
}

// Error is a failure talking to a hosting platform.
type Error struct {
	Op       string
	Platform review.Platform
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Platform, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns err as an *Error, or nil if err is nil.
func Wrap(op string, platform review.Platform, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Platform: platform, Err: err}
}
