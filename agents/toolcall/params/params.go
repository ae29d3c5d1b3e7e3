/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package params

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrMissing is returned when a required argument is absent or null.
	ErrMissing = errors.New("missing")
	// ErrWrongType is returned when an argument cannot be converted.
	ErrWrongType = errors.New("wrong type")
)

// Extract returns the required argument name converted to T.
func Extract[T any](args map[string]any, name string) (T, error) {
	var zero T

	value, exists := args[name]
	if !exists || value == nil {
		return zero, fmt.Errorf("%w %s", ErrMissing, name)
	}
	return convert[T](name, value)
}

// ExtractOptional returns the argument name converted to T, or defaultValue
// when it is absent or null.
func ExtractOptional[T any](args map[string]any, name string, defaultValue T) (T, error) {
	value, exists := args[name]
	if !exists || value == nil {
		return defaultValue, nil
	}
	return convert[T](name, value)
}

// Lenient returns the argument converted to T, falling back to
// defaultValue on any failure.
func Lenient[T any](args map[string]any, name string, defaultValue T) T {
	v, err := ExtractOptional(args, name, defaultValue)
	if err != nil {
		return defaultValue
	}
	return v
}

func convert[T any](name string, value any) (T, error) {
	if v, ok := value.(T); ok {
		return v, nil
	}
	if v, ok := convertNumeric[T](value); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%s has %w: expected %T, got %T", name, ErrWrongType, zero, value)
}

// convertNumeric converts integral float64 values to int, int32 or int64.
func convertNumeric[T any](value any) (T, bool) {
	var zero T
	f, ok := value.(float64)
	if !ok || f != math.Trunc(f) {
		return zero, false
	}
	switch any(zero).(type) {
	case int:
		return any(int(f)).(T), true
	case int32:
		if f < math.MinInt32 || f > math.MaxInt32 {
			return zero, false
		}
		return any(int32(f)).(T), true
	case int64:
		return any(int64(f)).(T), true
	}
	return zero, false
}
