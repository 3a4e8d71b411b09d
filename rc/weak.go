// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package rc

import "github.com/dacapoday/grip/internal/ctl"

// Weak is a back-reference to a value owned elsewhere. It keeps the
// control block alive but never the value: observation without
// ownership.
//
// Weak exists to break reference cycles. When two values must reach
// each other (a parent and its children, neighbors in a doubly linked
// structure), exactly one direction may be Strong; the back edge is a
// Weak, upgraded on use:
//
//	type node struct {
//		parent   rc.Weak[node]
//		children []rc.Strong[node]
//	}
//
// Were both directions Strong, neither count could reach zero and both
// values would leak for the life of the process.
//
// The zero value is empty. Every non-empty Weak must be Reset exactly
// once. The same concurrency contract as Strong applies: Clone and
// Upgrade from a stable handle are race-free, mutating a shared handle
// is not.
type Weak[T any] struct {
	block *ctl.Block[T]
}

// Upgrade attempts to re-acquire ownership of the value.
// It returns a new owning handle on success, and an empty handle if w
// is empty or the value is already gone. "Already gone" is an expected
// outcome, not an error: check Empty on the result.
//
// The decision is a single atomic step against the strong count, so a
// successful upgrade can never hand out a value that a concurrent drop
// is finalizing.
func (w *Weak[T]) Upgrade() Strong[T] {
	if w.block == nil || !w.block.TryUpgrade() {
		return Strong[T]{}
	}
	return Strong[T]{value: w.block.Value(), block: w.block}
}

// Clone returns a new weak reference to the same value.
// Cloning an empty Weak yields an empty Weak.
func (w *Weak[T]) Clone() Weak[T] {
	if w.block == nil {
		return Weak[T]{}
	}
	w.block.IncWeak()
	return Weak[T]{block: w.block}
}

// Reset drops w's reference and empties it.
// Resetting an empty Weak is a no-op.
func (w *Weak[T]) Reset() {
	if w.block == nil {
		return
	}
	block := w.block
	w.block = nil
	block.DecWeak()
}

// Empty reports whether w holds no reference.
func (w *Weak[T]) Empty() bool {
	return w.block == nil
}

// Gone reports whether the value has already been finalized.
// A false result is immediately stale under concurrency; to act on the
// value, Upgrade and check the returned handle instead.
func (w *Weak[T]) Gone() bool {
	return w.block == nil || w.block.Dead()
}
