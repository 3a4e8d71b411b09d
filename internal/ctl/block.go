// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package ctl implements the control block shared by strong and weak handles.
//
// A Block carries the strong and weak counters together with the managed
// value in one allocation, so value and metadata exist all-or-nothing and
// sit on the same cache lines.
//
// Invariants:
//   - the value is live iff strong > 0
//   - the block is live iff strong > 0 or weak > 0
//   - once strong reaches zero it becomes positive again only through
//     TryUpgrade, which refuses a zero count atomically
package ctl

import "sync/atomic"

// Block is the shared control block for one managed value.
//
// All counter operations are lock-free and safe for concurrent callers
// holding independent references to the same block.
type Block[T any] struct {
	strong atomic.Int64
	weak   atomic.Int64

	value T
	fin   func(*T)
}

// NewBlock allocates a value and its counters as one unit.
// The returned block holds one strong reference and no weak references.
// fin, if non-nil, runs exactly once when the last strong reference drops.
func NewBlock[T any](value T, fin func(*T)) *Block[T] {
	block := &Block[T]{value: value, fin: fin}
	block.strong.Store(1)
	return block
}

// Value returns the managed value's address.
// Valid only while strong > 0.
func (block *Block[T]) Value() *T {
	return &block.value
}

// Strong returns the current strong count.
func (block *Block[T]) Strong() int64 {
	return block.strong.Load()
}

// Weak returns the current weak count.
func (block *Block[T]) Weak() int64 {
	return block.weak.Load()
}

// Dead reports whether the value has been finalized.
func (block *Block[T]) Dead() bool {
	return block.strong.Load() == 0
}

// IncStrong adds one strong reference.
// The caller must already hold a strong reference.
func (block *Block[T]) IncStrong() {
	n := block.strong.Add(1)
	assertCount("IncStrong", n, 2)
}

// DecStrong drops one strong reference.
// The last drop finalizes the value: fin runs, then the value field is
// zeroed so anything it referenced becomes collectable. The block itself
// stays live while weak references remain.
func (block *Block[T]) DecStrong() {
	n := block.strong.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		panic("ctl: strong count underflow")
	}
	fin := block.fin
	block.fin = nil
	if fin != nil {
		fin(&block.value)
	}
	var zero T
	block.value = zero
}

// IncWeak adds one weak reference.
// The caller must hold a strong or weak reference already.
func (block *Block[T]) IncWeak() {
	n := block.weak.Add(1)
	assertCount("IncWeak", n, 1)
}

// DecWeak drops one weak reference. Once both counts are zero and the
// last handle lets go of the block pointer, the storage is unreachable
// and reclaimed.
func (block *Block[T]) DecWeak() {
	if block.weak.Add(-1) < 0 {
		panic("ctl: weak count underflow")
	}
}

// TryUpgrade adds one strong reference unless the count is already zero.
// Check and increment are one atomic decision: a value observed alive
// here cannot be finalized before the new reference is registered.
func (block *Block[T]) TryUpgrade() bool {
	for {
		n := block.strong.Load()
		if n == 0 {
			return false
		}
		if block.strong.CompareAndSwap(n, n+1) {
			return true
		}
	}
}
