/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package submitresult provides the single-assignment cell that a
// submission tool writes the final answer of an agent run into.
package submitresult

import "sync"

// Slot holds at most one value of T. The first Set wins; later calls are
// acknowledged but leave the stored value untouched. A Slot must not be
// copied after first use.
type Slot[T any] struct {
	mu    sync.Mutex
	value T
	set   bool
}

// New returns an empty slot.
func New[T any]() *Slot[T] {
	return &Slot[T]{}
}

// Set stores v if the slot is empty and reports whether it did.
func (s *Slot[T]) Set(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.set {
		return false
	}
	s.value = v
	s.set = true
	return true
}

// Get returns the stored value and whether one was set.
func (s *Slot[T]) Get() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.set
}

// Filled reports whether a value has been stored.
func (s *Slot[T]) Filled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}
