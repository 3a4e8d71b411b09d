// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package buffer provides a growable contiguous container with exactly
// one owner.
//
// Where rc shares one value among many handles, a Buffer holds many
// elements behind a single owner: copying is always a deep, element-wise
// duplication into an independent allocation, never an aliased view.
package buffer

import (
	"fmt"

	"github.com/dacapoday/grip"
	"github.com/tiendc/go-deepcopy"
)

// Buffer owns one contiguous allocation of elements of type T.
//
// A Buffer must not be copied by value; transfer one by pointer, or
// duplicate it with Clone. It is not safe for concurrent use.
type Buffer[T any] struct {
	noCopy noCopy

	items []T
	limit int // maximum capacity; 0 means unbounded
}

// New returns a buffer of n default-valued elements, with size and
// capacity both n. A negative n reports grip.ErrAllocateFailed.
func New[T any](n int) (*Buffer[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: size %d", grip.ErrAllocateFailed, n)
	}
	return &Buffer[T]{items: make([]T, n)}, nil
}

// WithLimit returns a buffer of n default-valued elements whose
// capacity is fixed at limit. The full capacity is allocated up front,
// so appends within the limit never reallocate and Data stays valid for
// the buffer's lifetime. Appending beyond the limit reports
// grip.ErrOutOfRange.
func WithLimit[T any](n, limit int) (*Buffer[T], error) {
	if n < 0 || limit < n {
		return nil, fmt.Errorf("%w: size %d, limit %d", grip.ErrAllocateFailed, n, limit)
	}
	return &Buffer[T]{items: make([]T, n, limit), limit: limit}, nil
}

// Size returns the element count. Not bytes: callers bridging to a
// byte-oriented interface multiply by the element size themselves.
func (buffer *Buffer[T]) Size() int {
	return len(buffer.items)
}

// Cap returns the current capacity in elements.
func (buffer *Buffer[T]) Cap() int {
	return cap(buffer.items)
}

// Data returns the buffer's live backing storage, starting at the first
// element.
//
// Hard contract: the slice is valid only until the next operation that
// may reallocate or destroy the storage (an Append past capacity,
// Shrink, Clear). Holding it across such a call observes a stale
// allocation.
func (buffer *Buffer[T]) Data() []T {
	return buffer.items
}

// At returns the element at index i.
// An index outside [0, Size) reports grip.ErrOutOfRange.
func (buffer *Buffer[T]) At(i int) (value T, err error) {
	if i < 0 || i >= len(buffer.items) {
		err = fmt.Errorf("%w: index %d, size %d", grip.ErrOutOfRange, i, len(buffer.items))
		return
	}
	value = buffer.items[i]
	return
}

// Set replaces the element at index i.
// An index outside [0, Size) reports grip.ErrOutOfRange.
func (buffer *Buffer[T]) Set(i int, value T) error {
	if i < 0 || i >= len(buffer.items) {
		return fmt.Errorf("%w: index %d, size %d", grip.ErrOutOfRange, i, len(buffer.items))
	}
	buffer.items[i] = value
	return nil
}

// Append adds value at the end, growing capacity geometrically when
// full, so repeated appends cost amortized constant time.
//
// Hard contract: growth moves the elements to a fresh allocation and
// invalidates every slice previously obtained from Data. On a limited
// buffer, appending beyond the limit reports grip.ErrOutOfRange and
// leaves the buffer unchanged.
func (buffer *Buffer[T]) Append(value T) error {
	if len(buffer.items) == cap(buffer.items) {
		if err := buffer.grow(len(buffer.items) + 1); err != nil {
			return err
		}
	}
	buffer.items = append(buffer.items, value)
	return nil
}

// Clear destroys all elements and sets the size to zero. The storage is
// zeroed so anything the elements referenced becomes collectable.
// Capacity is retained for reuse by later appends; use Shrink to
// release it.
func (buffer *Buffer[T]) Clear() {
	clear(buffer.items)
	buffer.items = buffer.items[:0]
}

// Shrink reallocates so that capacity equals size, releasing excess
// storage. Like growth, this invalidates previously obtained Data
// slices.
func (buffer *Buffer[T]) Shrink() {
	if len(buffer.items) == cap(buffer.items) {
		return
	}
	items := make([]T, len(buffer.items))
	copy(items, buffer.items)
	buffer.items = items
}

// Clone duplicates every element into a new, independent allocation.
// Mutating the clone never changes the source and vice versa. Elements
// are copied as values; if T itself holds references, the copies alias
// through them — use CloneDeep when they must not.
func (buffer *Buffer[T]) Clone() *Buffer[T] {
	items := make([]T, len(buffer.items))
	copy(items, buffer.items)
	return &Buffer[T]{items: items, limit: buffer.limit}
}

// CloneDeep is Clone with recursive element duplication: pointers,
// slices and maps inside T are copied, not shared.
func (buffer *Buffer[T]) CloneDeep() (*Buffer[T], error) {
	items := make([]T, len(buffer.items))
	if err := deepcopy.Copy(&items, &buffer.items); err != nil {
		return nil, err
	}
	return &Buffer[T]{items: items, limit: buffer.limit}, nil
}

// doubleBelow is the capacity under which growth doubles; above it the
// factor drops to 1.5 to waste less on large buffers.
const doubleBelow = 1024

func (buffer *Buffer[T]) grow(need int) error {
	if buffer.limit > 0 && need > buffer.limit {
		return fmt.Errorf("%w: size %d over limit %d", grip.ErrOutOfRange, need, buffer.limit)
	}
	newCap := cap(buffer.items)
	if newCap == 0 {
		newCap = 4
	}
	for newCap < need {
		if newCap < doubleBelow {
			newCap *= 2
		} else {
			newCap += newCap / 2
		}
		if newCap < 0 {
			return fmt.Errorf("%w: capacity overflow", grip.ErrAllocateFailed)
		}
	}
	if buffer.limit > 0 && newCap > buffer.limit {
		newCap = buffer.limit
	}
	items := make([]T, len(buffer.items), newCap)
	copy(items, buffer.items)
	buffer.items = items
	return nil
}

// noCopy triggers go vet's copylocks check on by-value Buffer copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
