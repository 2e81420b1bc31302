// File: sharedptr/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sharedptr

import "github.com/momentics/refbench/api"

type options[T any] struct {
	deleter  api.Deleter[T]
	alloc    api.Allocator[T]
	init     func(*T)
	onRetire func()
}

// Option configures a new shared block.
type Option[T any] func(*options[T])

// WithDeleter runs fn on the object when the last strong reference goes away.
func WithDeleter[T any](fn api.Deleter[T]) Option[T] {
	return func(o *options[T]) { o.deleter = fn }
}

// WithAllocator makes Make draw storage from a and return it on destruction.
func WithAllocator[T any](a api.Allocator[T]) Option[T] {
	return func(o *options[T]) { o.alloc = a }
}

// WithInit initialises storage obtained by Make.
func WithInit[T any](fn func(*T)) Option[T] {
	return func(o *options[T]) { o.init = fn }
}

// WithRetireHook is called once the shared block itself is released.
func WithRetireHook[T any](fn func()) Option[T] {
	return func(o *options[T]) { o.onRetire = fn }
}
