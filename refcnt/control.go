// File: refcnt/control.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Control block shared by every Ref and Observer of one managed object.

package refcnt

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/refbench/api"
)

const (
	stateAlive int32 = iota
	stateDestroyed
	stateRetired
)

type control[T any] struct {
	// central counts non-zero slots plus direct references.
	central atomic.Int64
	_       cpu.CacheLinePad

	// weak counts observers plus one unit held by the strong side.
	weak     atomic.Int64
	direct   atomic.Int64
	anchored atomic.Bool
	state    atomic.Int32

	mask  int32
	cells []cell
	set   *cellSet

	obj      *T
	deleter  api.Deleter[T]
	alloc    api.Allocator[T]
	onRetire func()
}

func newControl[T any](obj *T, o *options[T]) *control[T] {
	width := o.slots
	set := getCells(width)
	c := &control[T]{
		mask:     int32(width - 1),
		cells:    set.cells,
		set:      set,
		obj:      obj,
		deleter:  o.deleter,
		alloc:    o.alloc,
		onRetire: o.onRetire,
	}
	for i := range c.cells {
		c.cells[i].n.Store(1)
	}
	c.central.Store(int64(width))
	c.weak.Store(1)
	c.anchored.Store(true)
	return c
}

// acquire adds a strong reference on slot. The caller holds a strong reference.
func (c *control[T]) acquire(slot int32) {
	if c.cells[slot].n.Add(1) == 1 {
		c.central.Add(1)
	}
}

// release drops a strong reference parked on slot.
func (c *control[T]) release(slot int32) {
	if slot == directSlot {
		if c.direct.Add(-1) < 0 {
			panic("refcnt: direct count below zero")
		}
	} else {
		n := c.cells[slot].n.Add(-1)
		if n > 0 {
			return
		}
		if n < 0 {
			panic(fmt.Sprintf("refcnt: slot %d count below zero", slot))
		}
	}
	c.dropCentral()
}

// releaseAnchors drops the owner's unit on every slot.
func (c *control[T]) releaseAnchors() {
	c.anchored.Store(false)
	cells := c.cells
	for i := range cells {
		c.release(int32(i))
	}
}

func (c *control[T]) dropCentral() {
	n := c.central.Add(-1)
	if n == 0 {
		c.destroy()
	} else if n < 0 {
		panic("refcnt: strong count below zero")
	}
}

// tryAcquire takes a strong reference only while the object is alive.
// It prefers slot and falls back to a direct reference on the central counter.
func (c *control[T]) tryAcquire(slot int32) (int32, bool) {
	cnt := &c.cells[slot].n
	for v := cnt.Load(); v > 0; v = cnt.Load() {
		if cnt.CompareAndSwap(v, v+1) {
			return slot, true
		}
	}
	for v := c.central.Load(); v > 0; v = c.central.Load() {
		if c.central.CompareAndSwap(v, v+1) {
			c.direct.Add(1)
			return directSlot, true
		}
	}
	return 0, false
}

func (c *control[T]) destroy() {
	if !c.state.CompareAndSwap(stateAlive, stateDestroyed) {
		panic(api.ErrDoubleDestroy)
	}
	obj := c.obj
	c.obj = nil
	if c.deleter != nil {
		c.deleter(obj)
	}
	if c.alloc != nil {
		c.alloc.Free(obj)
	}
	c.releaseWeak()
}

func (c *control[T]) acquireWeak() { c.weak.Add(1) }

func (c *control[T]) releaseWeak() {
	n := c.weak.Add(-1)
	if n == 0 {
		c.retire()
	} else if n < 0 {
		panic("refcnt: weak count below zero")
	}
}

func (c *control[T]) retire() {
	c.state.Store(stateRetired)
	set := c.set
	c.set, c.cells = nil, nil
	putCells(set)
	if c.onRetire != nil {
		c.onRetire()
	}
}

func (c *control[T]) expired() bool { return c.central.Load() == 0 }

// useCount sums the slots. It is exact only while no other goroutine
// changes the count.
func (c *control[T]) useCount() int64 {
	if c.expired() {
		return 0
	}
	var sum int64
	for i := range c.cells {
		sum += c.cells[i].n.Load()
	}
	sum += c.direct.Load()
	if c.anchored.Load() {
		sum -= int64(len(c.cells)) - 1
	}
	return sum
}

func (c *control[T]) slotOf(hint int) int32 { return int32(hint) & c.mask }
