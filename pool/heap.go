// File: pool/heap.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import "github.com/momentics/refbench/api"

// HeapAllocator allocates with new(T) and leaves reclamation to the GC.
type HeapAllocator[T any] struct{}

// Alloc returns a zeroed *T.
func (HeapAllocator[T]) Alloc() (*T, error) { return new(T), nil }

// Free drops the object.
func (HeapAllocator[T]) Free(*T) {}

var _ api.Allocator[int] = HeapAllocator[int]{}
