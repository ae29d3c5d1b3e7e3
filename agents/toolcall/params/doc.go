/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package params extracts typed values from the loosely typed argument maps
// that models send with tool calls. JSON numbers arrive as float64 and are
// converted to the requested integer type when they are integral.
package params
