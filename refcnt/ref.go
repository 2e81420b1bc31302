// File: refcnt/ref.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Ref is the strong, owning handle.

package refcnt

import (
	"fmt"

	"github.com/momentics/refbench/api"
)

// Ref is a strong reference to a managed object. The zero value is empty.
type Ref[T any] struct {
	_     noCopy
	ptr   *T
	cb    *control[T]
	slot  int32
	owner bool
}

var _ api.Handle[int] = (*Ref[int])(nil)

// Get returns the managed object. Panics on an empty handle.
func (r *Ref[T]) Get() *T {
	if r.cb == nil {
		panic(fmt.Errorf("refcnt: Get: %w", api.ErrEmptyHandle))
	}
	return r.ptr
}

// Valid reports whether r owns an object.
func (r *Ref[T]) Valid() bool { return r.cb != nil }

// UseCount returns the number of strong references to the object.
func (r *Ref[T]) UseCount() int64 {
	if r.cb == nil {
		return 0
	}
	return r.cb.useCount()
}

// Slot returns the stripe holding r's reference, -1 for a direct reference.
func (r *Ref[T]) Slot() int { return int(r.slot) }

// Owner reports whether r holds the slot anchors.
func (r *Ref[T]) Owner() bool { return r.owner }

// Slots returns the stripe width of the control block, 0 when empty.
func (r *Ref[T]) Slots() int {
	if r.cb == nil {
		return 0
	}
	return int(r.cb.mask) + 1
}

// Clone returns a new strong reference. A non-owner copy stays on the
// source's slot; copies of the owner or of a direct reference land on a
// random slot.
func (r *Ref[T]) Clone() Ref[T] {
	return r.CloneAt(r.hint())
}

// CloneAt returns a new strong reference parked on slot (taken modulo the
// stripe width). Workers pass their own index to keep to one cache line.
func (r *Ref[T]) CloneAt(slot int) Ref[T] {
	cb := r.cb
	if cb == nil {
		return Ref[T]{}
	}
	s := cb.slotOf(slot)
	cb.acquire(s)
	return Ref[T]{ptr: r.ptr, cb: cb, slot: s}
}

// Move transfers ownership without touching the count and leaves r empty.
func (r *Ref[T]) Move() Ref[T] {
	ptr, cb, slot, owner := r.ptr, r.cb, r.slot, r.owner
	r.ptr, r.cb, r.slot, r.owner = nil, nil, 0, false
	return Ref[T]{ptr: ptr, cb: cb, slot: slot, owner: owner}
}

// Assign makes r share src's object, releasing what r held before.
func (r *Ref[T]) Assign(src *Ref[T]) {
	if src.cb == nil {
		r.Reset()
		return
	}
	s := src.cb.slotOf(src.hint())
	src.cb.acquire(s)
	ptr, cb := src.ptr, src.cb
	r.Reset()
	r.ptr, r.cb, r.slot = ptr, cb, s
}

// Swap exchanges the contents of r and other.
func (r *Ref[T]) Swap(other *Ref[T]) {
	r.ptr, other.ptr = other.ptr, r.ptr
	r.cb, other.cb = other.cb, r.cb
	r.slot, other.slot = other.slot, r.slot
	r.owner, other.owner = other.owner, r.owner
}

// Reset releases r's reference and leaves it empty. The goroutine that
// releases the last reference destroys the object.
func (r *Ref[T]) Reset() {
	cb := r.cb
	if cb == nil {
		return
	}
	slot, owner := r.slot, r.owner
	r.ptr, r.cb, r.slot, r.owner = nil, nil, 0, false
	if owner {
		cb.releaseAnchors()
		return
	}
	cb.release(slot)
}

// Observe returns a weak reference to r's object.
func (r *Ref[T]) Observe() Observer[T] {
	if r.cb == nil {
		return Observer[T]{}
	}
	r.cb.acquireWeak()
	return Observer[T]{cb: r.cb, hint: r.hint()}
}

// Equal reports whether r and other share one control block.
func (r *Ref[T]) Equal(other *Ref[T]) bool { return r.cb == other.cb }

// Is reports whether r manages obj.
func (r *Ref[T]) Is(obj *T) bool { return r.cb != nil && r.ptr == obj }

func (r *Ref[T]) hint() int {
	if r.owner || r.slot == directSlot {
		return randomSlot()
	}
	return int(r.slot)
}
