// Package benchmarks
// Author: momentics <momentics@gmail.com>
//
// go test -bench micro-benchmarks of both pointer flavors and their
// supporting pools.

package benchmarks

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/momentics/refbench/internal/concurrency"
	"github.com/momentics/refbench/pool"
	"github.com/momentics/refbench/refcnt"
	"github.com/momentics/refbench/sharedptr"
)

type payload struct {
	a, b, c int32
	d       float32
}

// BenchmarkRefCloneParallel copies and drops a ref_ptr from every P.
func BenchmarkRefCloneParallel(b *testing.B) {
	root := refcnt.MustNew(&payload{a: 1}, refcnt.WithSlots[payload](runtime.GOMAXPROCS(0)))
	defer root.Reset()
	var next atomic.Int64

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		slot := int(next.Add(1))
		var sink int32
		for pb.Next() {
			r := root.CloneAt(slot)
			sink += r.Get().a
			r.Reset()
		}
		_ = sink
	})
}

// BenchmarkSharedCloneParallel is the single-counter baseline of the above.
func BenchmarkSharedCloneParallel(b *testing.B) {
	root := sharedptr.MustNew(&payload{a: 1})
	defer root.Reset()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var sink int32
		for pb.Next() {
			s := root.Clone()
			sink += s.Get().a
			s.Reset()
		}
		_ = sink
	})
}

// BenchmarkRefObserverLock upgrades a weak reference on every P.
func BenchmarkRefObserverLock(b *testing.B) {
	root := refcnt.MustNew(&payload{})
	defer root.Reset()
	var next atomic.Int64

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		slot := int(next.Add(1))
		obs := root.Observe()
		defer obs.Reset()
		for pb.Next() {
			r := obs.LockAt(slot)
			r.Reset()
		}
	})
}

// BenchmarkSharedWeakLock is the baseline of BenchmarkRefObserverLock.
func BenchmarkSharedWeakLock(b *testing.B) {
	root := sharedptr.MustNew(&payload{})
	defer root.Reset()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		w := root.Observe()
		defer w.Reset()
		for pb.Next() {
			s := w.Lock()
			s.Reset()
		}
	})
}

// BenchmarkRefCreateDestroy measures the full lifecycle on a single goroutine.
func BenchmarkRefCreateDestroy(b *testing.B) {
	for i := 0; i < b.N; i++ {
		r := refcnt.MustNew(&payload{})
		r.Reset()
	}
}

// BenchmarkBoundedAllocator exercises the lock-free slab free list.
func BenchmarkBoundedAllocator(b *testing.B) {
	alloc, err := pool.NewBoundedAllocator[payload](1024)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			p, err := alloc.Alloc()
			if err != nil {
				continue
			}
			alloc.Free(p)
		}
	})
}

// BenchmarkLockFreeQueueThroughput tests the MPMC queue under contention.
func BenchmarkLockFreeQueueThroughput(b *testing.B) {
	q := concurrency.NewLockFreeQueue[int](1024)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if !q.Enqueue(i) {
				q.Dequeue()
				q.Enqueue(i)
			}
			i++
		}
	})
}
