// File: refcnt/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package refcnt

import "github.com/momentics/refbench/api"

type options[T any] struct {
	slots    int
	deleter  api.Deleter[T]
	alloc    api.Allocator[T]
	init     func(*T)
	onRetire func()
}

// Option configures a new control block.
type Option[T any] func(*options[T])

// WithSlots sets the stripe width, rounded up to a power of two within [1, MaxSlots].
func WithSlots[T any](n int) Option[T] {
	return func(o *options[T]) { o.slots = NormalizeSlots(n) }
}

// WithDeleter runs fn on the object when the last strong reference goes away.
func WithDeleter[T any](fn api.Deleter[T]) Option[T] {
	return func(o *options[T]) { o.deleter = fn }
}

// WithAllocator makes Make draw storage from a and return it on destruction.
// With New the adopted object is handed to a.Free on destruction.
func WithAllocator[T any](a api.Allocator[T]) Option[T] {
	return func(o *options[T]) { o.alloc = a }
}

// WithInit initialises storage obtained by Make.
func WithInit[T any](fn func(*T)) Option[T] {
	return func(o *options[T]) { o.init = fn }
}

// WithRetireHook is called once the control block itself is released.
func WithRetireHook[T any](fn func()) Option[T] {
	return func(o *options[T]) { o.onRetire = fn }
}

func buildOptions[T any](opts []Option[T]) *options[T] {
	o := &options[T]{}
	for _, opt := range opts {
		opt(o)
	}
	if o.slots == 0 {
		o.slots = DefaultSlots()
	}
	return o
}
