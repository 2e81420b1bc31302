// File: sharedptr/block.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sharedptr

import (
	"sync/atomic"

	"github.com/momentics/refbench/api"
)

type block[T any] struct {
	strong atomic.Int64
	// weak counts Weak handles plus one unit held by the strong side.
	weak      atomic.Int64
	destroyed atomic.Bool

	obj      *T
	deleter  api.Deleter[T]
	alloc    api.Allocator[T]
	onRetire func()
}

func newBlock[T any](obj *T, o *options[T]) *block[T] {
	b := &block[T]{obj: obj, deleter: o.deleter, alloc: o.alloc, onRetire: o.onRetire}
	b.strong.Store(1)
	b.weak.Store(1)
	return b
}

func (b *block[T]) acquire() { b.strong.Add(1) }

func (b *block[T]) release() {
	n := b.strong.Add(-1)
	if n == 0 {
		b.destroy()
	} else if n < 0 {
		panic("sharedptr: strong count below zero")
	}
}

// tryAcquire increments the strong count only while it is non-zero.
func (b *block[T]) tryAcquire() bool {
	for v := b.strong.Load(); v > 0; v = b.strong.Load() {
		if b.strong.CompareAndSwap(v, v+1) {
			return true
		}
	}
	return false
}

func (b *block[T]) destroy() {
	if b.destroyed.Swap(true) {
		panic(api.ErrDoubleDestroy)
	}
	obj := b.obj
	b.obj = nil
	if b.deleter != nil {
		b.deleter(obj)
	}
	if b.alloc != nil {
		b.alloc.Free(obj)
	}
	b.releaseWeak()
}

func (b *block[T]) releaseWeak() {
	n := b.weak.Add(-1)
	if n == 0 {
		if b.onRetire != nil {
			b.onRetire()
		}
	} else if n < 0 {
		panic("sharedptr: weak count below zero")
	}
}
