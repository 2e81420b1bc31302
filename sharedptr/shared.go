// File: sharedptr/shared.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sharedptr

import (
	"fmt"

	"github.com/momentics/refbench/api"
	"github.com/momentics/refbench/pool"
)

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Shared is a strong reference. The zero value is empty.
type Shared[T any] struct {
	_   noCopy
	ptr *T
	b   *block[T]
}

var _ api.Handle[int] = (*Shared[int])(nil)

// New adopts obj.
func New[T any](obj *T, opts ...Option[T]) (Shared[T], error) {
	if obj == nil {
		return Shared[T]{}, fmt.Errorf("sharedptr: new: %w", api.ErrNilObject)
	}
	return Shared[T]{ptr: obj, b: newBlock(obj, collect(opts))}, nil
}

// Make allocates the object through the configured allocator.
func Make[T any](opts ...Option[T]) (Shared[T], error) {
	o := collect(opts)
	if o.alloc == nil {
		o.alloc = pool.HeapAllocator[T]{}
	}
	obj, err := o.alloc.Alloc()
	if err != nil {
		return Shared[T]{}, fmt.Errorf("sharedptr: make: %w", err)
	}
	if o.init != nil {
		o.init(obj)
	}
	return Shared[T]{ptr: obj, b: newBlock(obj, o)}, nil
}

// MustNew is New that panics on error.
func MustNew[T any](obj *T, opts ...Option[T]) Shared[T] {
	if obj == nil {
		panic(fmt.Errorf("sharedptr: new: %w", api.ErrNilObject))
	}
	return Shared[T]{ptr: obj, b: newBlock(obj, collect(opts))}
}

func collect[T any](opts []Option[T]) *options[T] {
	o := &options[T]{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Get returns the managed object. Panics on an empty handle.
func (s *Shared[T]) Get() *T {
	if s.b == nil {
		panic(fmt.Errorf("sharedptr: Get: %w", api.ErrEmptyHandle))
	}
	return s.ptr
}

// Valid reports whether s owns an object.
func (s *Shared[T]) Valid() bool { return s.b != nil }

// UseCount returns the strong count.
func (s *Shared[T]) UseCount() int64 {
	if s.b == nil {
		return 0
	}
	return s.b.strong.Load()
}

// Clone returns a new strong reference.
func (s *Shared[T]) Clone() Shared[T] {
	b := s.b
	if b == nil {
		return Shared[T]{}
	}
	b.acquire()
	return Shared[T]{ptr: s.ptr, b: b}
}

// CloneAt is Clone; the single counter has no slots.
func (s *Shared[T]) CloneAt(int) Shared[T] { return s.Clone() }

// Move transfers ownership and leaves s empty.
func (s *Shared[T]) Move() Shared[T] {
	ptr, b := s.ptr, s.b
	s.ptr, s.b = nil, nil
	return Shared[T]{ptr: ptr, b: b}
}

// Assign makes s share src's object.
func (s *Shared[T]) Assign(src *Shared[T]) {
	ptr, b := src.ptr, src.b
	if b != nil {
		b.acquire()
	}
	s.Reset()
	s.ptr, s.b = ptr, b
}

// Reset releases the reference and leaves s empty.
func (s *Shared[T]) Reset() {
	b := s.b
	if b == nil {
		return
	}
	s.ptr, s.b = nil, nil
	b.release()
}

// Observe returns a weak reference.
func (s *Shared[T]) Observe() Weak[T] {
	b := s.b
	if b == nil {
		return Weak[T]{}
	}
	b.weak.Add(1)
	return Weak[T]{b: b}
}

// Equal reports whether s and other share one block.
func (s *Shared[T]) Equal(other *Shared[T]) bool { return s.b == other.b }

// Is reports whether s manages obj.
func (s *Shared[T]) Is(obj *T) bool { return s.b != nil && s.ptr == obj }
