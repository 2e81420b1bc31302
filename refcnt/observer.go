// File: refcnt/observer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Observer is the weak, non-owning handle.

package refcnt

import "github.com/momentics/refbench/api"

// Observer watches a managed object without keeping it alive.
// It keeps the control block alive until Reset.
type Observer[T any] struct {
	_    noCopy
	cb   *control[T]
	hint int
}

var _ api.Observer = (*Observer[int])(nil)

// Lock upgrades to a strong reference, or returns an empty Ref once the
// object has been destroyed. A destroyed object is never resurrected.
func (o *Observer[T]) Lock() Ref[T] {
	return o.LockAt(o.hint)
}

// LockAt is Lock with an explicit slot preference.
func (o *Observer[T]) LockAt(slot int) Ref[T] {
	cb := o.cb
	if cb == nil {
		return Ref[T]{}
	}
	s, ok := cb.tryAcquire(cb.slotOf(slot))
	if !ok {
		return Ref[T]{}
	}
	return Ref[T]{ptr: cb.obj, cb: cb, slot: s}
}

// Valid reports whether o refers to a control block.
func (o *Observer[T]) Valid() bool { return o.cb != nil }

// Expired reports whether the object has been destroyed.
func (o *Observer[T]) Expired() bool {
	return o.cb == nil || o.cb.expired()
}

// UseCount returns the number of live strong references.
func (o *Observer[T]) UseCount() int64 {
	if o.cb == nil {
		return 0
	}
	return o.cb.useCount()
}

// Clone returns another weak reference to the same control block.
func (o *Observer[T]) Clone() Observer[T] {
	cb := o.cb
	if cb == nil {
		return Observer[T]{}
	}
	cb.acquireWeak()
	return Observer[T]{cb: cb, hint: o.hint}
}

// Move transfers the weak reference and leaves o empty.
func (o *Observer[T]) Move() Observer[T] {
	cb, hint := o.cb, o.hint
	o.cb, o.hint = nil, 0
	return Observer[T]{cb: cb, hint: hint}
}

// Reset drops the weak reference.
func (o *Observer[T]) Reset() {
	cb := o.cb
	if cb == nil {
		return
	}
	o.cb, o.hint = nil, 0
	cb.releaseWeak()
}
