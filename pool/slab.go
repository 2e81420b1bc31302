// File: pool/slab.go
// Package pool implements lock-free slab allocation of managed objects.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"fmt"
	"sync/atomic"

	"github.com/momentics/refbench/api"
	"github.com/momentics/refbench/internal/concurrency"
)

// BoundedAllocator hands out objects from one preallocated slab.
// Alloc fails with api.ErrResourceExhausted once every slot is in use.
type BoundedAllocator[T any] struct {
	slab []T
	free *concurrency.LockFreeQueue[*T]

	totalAlloc atomic.Uint64
	totalFree  atomic.Uint64
}

// NewBoundedAllocator preallocates capacity objects.
func NewBoundedAllocator[T any](capacity int) (*BoundedAllocator[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("pool: capacity %d: %w", capacity, api.ErrInvalidArgument)
	}
	b := &BoundedAllocator[T]{
		slab: make([]T, capacity),
		free: concurrency.NewLockFreeQueue[*T](capacity),
	}
	for i := range b.slab {
		b.free.Enqueue(&b.slab[i])
	}
	return b, nil
}

// Alloc implements api.Allocator.
func (b *BoundedAllocator[T]) Alloc() (*T, error) {
	obj, ok := b.free.Dequeue()
	if !ok {
		return nil, fmt.Errorf("pool: slab of %d: %w", len(b.slab), api.ErrResourceExhausted)
	}
	b.totalAlloc.Add(1)
	return obj, nil
}

// Free implements api.Allocator. The object is zeroed before reuse.
func (b *BoundedAllocator[T]) Free(obj *T) {
	if obj == nil {
		return
	}
	var zero T
	*obj = zero
	if !b.free.Enqueue(obj) {
		panic("pool: slab free list overflow")
	}
	b.totalFree.Add(1)
}

// Capacity returns the slab size.
func (b *BoundedAllocator[T]) Capacity() int { return len(b.slab) }

// Stats returns allocation counters.
func (b *BoundedAllocator[T]) Stats() api.AllocStats {
	alloc, free := b.totalAlloc.Load(), b.totalFree.Load()
	return api.AllocStats{TotalAlloc: alloc, TotalFree: free, InUse: int64(alloc) - int64(free)}
}

var _ api.Allocator[int] = (*BoundedAllocator[int])(nil)
