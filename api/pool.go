// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines abstract pooling APIs: allocators for managed objects and object reuse.

package api

// Allocator supplies storage for managed objects.
type Allocator[T any] interface {
	// Alloc returns zeroed storage for one object.
	Alloc() (*T, error)

	// Free returns storage previously obtained from Alloc.
	Free(obj *T)
}

// ObjectPool provides generic pooling of Go objects allocated transiently
type ObjectPool[T any] interface {
	// Get returns an available instance from pool
	Get() T

	// Put returns an instance for reuse
	Put(obj T)
}

// AllocStats reports allocator usage counters.
type AllocStats struct {
	TotalAlloc uint64
	TotalFree  uint64
	InUse      int64
}
