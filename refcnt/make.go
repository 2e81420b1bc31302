// File: refcnt/make.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Constructors.

package refcnt

import (
	"fmt"

	"github.com/momentics/refbench/api"
	"github.com/momentics/refbench/pool"
)

// New adopts obj and returns its owner handle.
func New[T any](obj *T, opts ...Option[T]) (Ref[T], error) {
	if obj == nil {
		return Ref[T]{}, fmt.Errorf("refcnt: new: %w", api.ErrNilObject)
	}
	return adopt(obj, buildOptions(opts)), nil
}

// Make allocates the object through the configured allocator (the heap by
// default) and returns its owner handle. Allocation failures are returned.
func Make[T any](opts ...Option[T]) (Ref[T], error) {
	o := buildOptions(opts)
	if o.alloc == nil {
		o.alloc = pool.HeapAllocator[T]{}
	}
	obj, err := o.alloc.Alloc()
	if err != nil {
		return Ref[T]{}, fmt.Errorf("refcnt: make: %w", err)
	}
	if o.init != nil {
		o.init(obj)
	}
	return adopt(obj, o), nil
}

// MustNew is New that panics on error.
func MustNew[T any](obj *T, opts ...Option[T]) Ref[T] {
	if obj == nil {
		panic(fmt.Errorf("refcnt: new: %w", api.ErrNilObject))
	}
	return adopt(obj, buildOptions(opts))
}

func adopt[T any](obj *T, o *options[T]) Ref[T] {
	return Ref[T]{ptr: obj, cb: newControl(obj, o), slot: 0, owner: true}
}
