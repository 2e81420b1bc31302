// File: pool/counting.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Allocator wrapper that tracks live objects.

package pool

import (
	"fmt"
	"sync/atomic"

	"github.com/momentics/refbench/api"
)

// CountingAllocator forwards to an inner allocator and counts allocations.
type CountingAllocator[T any] struct {
	inner      api.Allocator[T]
	totalAlloc atomic.Uint64
	totalFree  atomic.Uint64
}

// NewCountingAllocator wraps inner; a nil inner means HeapAllocator.
func NewCountingAllocator[T any](inner api.Allocator[T]) *CountingAllocator[T] {
	if inner == nil {
		inner = HeapAllocator[T]{}
	}
	return &CountingAllocator[T]{inner: inner}
}

// Alloc implements api.Allocator.
func (c *CountingAllocator[T]) Alloc() (*T, error) {
	obj, err := c.inner.Alloc()
	if err != nil {
		return nil, err
	}
	c.totalAlloc.Add(1)
	return obj, nil
}

// Free implements api.Allocator. Freeing more than was allocated panics.
func (c *CountingAllocator[T]) Free(obj *T) {
	if n := c.totalFree.Add(1); n > c.totalAlloc.Load() {
		panic(fmt.Sprintf("pool: free without alloc (%d frees)", n))
	}
	c.inner.Free(obj)
}

// Live returns allocations not yet freed.
func (c *CountingAllocator[T]) Live() int64 {
	return int64(c.totalAlloc.Load()) - int64(c.totalFree.Load())
}

// Stats returns allocation counters.
func (c *CountingAllocator[T]) Stats() api.AllocStats {
	alloc, free := c.totalAlloc.Load(), c.totalFree.Load()
	return api.AllocStats{TotalAlloc: alloc, TotalFree: free, InUse: int64(alloc) - int64(free)}
}

var _ api.Allocator[int] = (*CountingAllocator[int])(nil)
