// File: sharedptr/weak.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sharedptr

import "github.com/momentics/refbench/api"

// Weak is a non-owning reference.
type Weak[T any] struct {
	_ noCopy
	b *block[T]
}

var _ api.Observer = (*Weak[int])(nil)

// Lock returns a strong reference, or an empty one once expired.
func (w *Weak[T]) Lock() Shared[T] {
	b := w.b
	if b == nil || !b.tryAcquire() {
		return Shared[T]{}
	}
	return Shared[T]{ptr: b.obj, b: b}
}

// LockAt is Lock; the single counter has no slots.
func (w *Weak[T]) LockAt(int) Shared[T] { return w.Lock() }

// Valid reports whether w refers to a block.
func (w *Weak[T]) Valid() bool { return w.b != nil }

// Expired reports whether the object has been destroyed.
func (w *Weak[T]) Expired() bool { return w.b == nil || w.b.strong.Load() == 0 }

// UseCount returns the strong count.
func (w *Weak[T]) UseCount() int64 {
	if w.b == nil {
		return 0
	}
	return w.b.strong.Load()
}

// Clone returns another weak reference.
func (w *Weak[T]) Clone() Weak[T] {
	b := w.b
	if b == nil {
		return Weak[T]{}
	}
	b.weak.Add(1)
	return Weak[T]{b: b}
}

// Move transfers the weak reference and leaves w empty.
func (w *Weak[T]) Move() Weak[T] {
	b := w.b
	w.b = nil
	return Weak[T]{b: b}
}

// Reset drops the weak reference.
func (w *Weak[T]) Reset() {
	b := w.b
	if b == nil {
		return
	}
	w.b = nil
	b.releaseWeak()
}
