// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package rc provides reference counted ownership handles.
//
// Strong is a shared-ownership handle: every Clone adds one strong
// reference, every Reset drops one, and the last drop finalizes the
// managed value synchronously. Weak observes a value without keeping it
// alive and can be upgraded back to a Strong while the value lives.
//
// Concurrency contract, three independent rules:
//   - Clone and Get against a handle no goroutine is mutating are
//     race-free; the only shared write is one atomic increment.
//   - Methods that replace a handle's own state (Assign, Move, Reset)
//     are multi-step and need external synchronization when several
//     goroutines share the same handle variable.
//   - The managed value's own fields are the value type's problem;
//     nothing here synchronizes access to them.
package rc

import "github.com/dacapoday/grip/internal/ctl"

// Strong is a shared-ownership handle to a value of type T.
//
// The zero value is empty. Plain struct assignment aliases the same
// reference rather than adding one: of two aliases, exactly one may be
// Reset. Use Clone to add a reference or Move to transfer one.
//
// Every owning handle must be Reset exactly once, typically
//
//	s := rc.New(v)
//	defer s.Reset()
type Strong[T any] struct {
	value *T
	block *ctl.Block[T]
}

// New allocates a value and its control block as one unit and returns
// the first owning handle.
func New[T any](value T) Strong[T] {
	return NewWithFinalizer(value, nil)
}

// NewWithFinalizer is New with a cleanup hook: fin runs exactly once,
// synchronously, when the last strong reference drops.
//
// A value that itself holds handles must Reset them in fin; the library
// only zeroes the dead value, it does not release references the value
// was holding.
func NewWithFinalizer[T any](value T, fin func(*T)) Strong[T] {
	block := ctl.NewBlock(value, fin)
	return Strong[T]{value: block.Value(), block: block}
}

// Clone returns a new owning handle to the same value.
// Cloning an empty handle yields an empty handle.
func (s *Strong[T]) Clone() Strong[T] {
	if s.block == nil {
		return Strong[T]{}
	}
	s.block.IncStrong()
	return Strong[T]{value: s.value, block: s.block}
}

// Move transfers ownership to the returned handle and empties s.
// The strong count is untouched.
func (s *Strong[T]) Move() Strong[T] {
	moved := Strong[T]{value: s.value, block: s.block}
	s.value, s.block = nil, nil
	return moved
}

// Assign replaces s's reference with a reference to other's value,
// releasing whatever s held before.
//
// The new reference is acquired before the old one is released, so
// s.Assign(s) and assignment between handles of the same value cannot
// finalize the value mid-swap.
func (s *Strong[T]) Assign(other *Strong[T]) {
	value, block := other.value, other.block
	if block != nil {
		block.IncStrong()
	}
	if s.block != nil {
		s.block.DecStrong()
	}
	s.value, s.block = value, block
}

// Reset drops s's reference and empties it. The last strong reference
// to drop finalizes the value. Resetting an empty handle is a no-op.
func (s *Strong[T]) Reset() {
	if s.block == nil {
		return
	}
	block := s.block
	s.value, s.block = nil, nil
	block.DecStrong()
}

// Get returns the managed value, or nil if s is empty.
// The pointer is valid only while at least one owning handle lives;
// holding it past the last Reset is a use-after-free in spirit, even
// though the runtime keeps the memory reachable.
func (s *Strong[T]) Get() *T {
	return s.value
}

// Empty reports whether s holds no reference.
func (s *Strong[T]) Empty() bool {
	return s.block == nil
}

// Refs returns the current strong count, or 0 for an empty handle.
// Under concurrent cloning the result is immediately stale.
func (s *Strong[T]) Refs() int64 {
	if s.block == nil {
		return 0
	}
	return s.block.Strong()
}

// Downgrade returns a weak back-reference to s's value.
// Downgrading an empty handle yields an empty Weak.
func (s *Strong[T]) Downgrade() Weak[T] {
	if s.block == nil {
		return Weak[T]{}
	}
	s.block.IncWeak()
	return Weak[T]{block: s.block}
}
