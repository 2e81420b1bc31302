// File: bench/subject.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Workload bodies shared by every pointer flavor.

package bench

import (
	"fmt"
	"sync/atomic"

	"github.com/momentics/refbench/api"
	"github.com/momentics/refbench/pool"
)

// Subject is one payload wrapped by a flavor, ready for a worker cohort.
type Subject interface {
	// Pass runs ops workload steps on behalf of worker.
	Pass(worker, ops int)
	// UseCount returns the strong count of the root handle.
	UseCount() int64
	// Close releases the root handle and checks the payload was destroyed
	// exactly once and its storage returned.
	Close() error
}

// strongHandle is the method set shared by refcnt.Ref and sharedptr.Shared.
type strongHandle[H, O any] interface {
	*H
	CloneAt(slot int) H
	Move() H
	Observe() O
	Get() *Payload
	Valid() bool
	UseCount() int64
	Reset()
}

// weakHandle is the method set shared by refcnt.Observer and sharedptr.Weak.
type weakHandle[H, O any] interface {
	*O
	LockAt(slot int) H
	Reset()
}

type workerState[H, O any] struct {
	refs []H
	obs  []O
	sink int64
	_    [64]byte
}

type subject[H, O any, PH strongHandle[H, O], PO weakHandle[H, O]] struct {
	root      H
	mixed     bool
	seqs      [][]Op
	workers   []workerState[H, O]
	alloc     *pool.CountingAllocator[Payload]
	destroyed atomic.Int32
}

func newSubject[H, O any, PH strongHandle[H, O], PO weakHandle[H, O]](setup Setup) *subject[H, O, PH, PO] {
	s := &subject[H, O, PH, PO]{
		mixed:   setup.Workload == WorkloadMixed,
		seqs:    setup.Sequences,
		workers: make([]workerState[H, O], setup.Threads),
		alloc:   pool.NewCountingAllocator[Payload](nil),
	}
	if s.mixed {
		for w := range s.workers {
			s.workers[w].refs = make([]H, 0, setup.Ops*2/5+16)
			s.workers[w].obs = make([]O, 0, 1024)
		}
	}
	return s
}

func (s *subject[H, O, PH, PO]) onDestroy(*Payload) { s.destroyed.Add(1) }

func (s *subject[H, O, PH, PO]) Pass(worker, ops int) {
	if s.mixed {
		s.mixedPass(worker, ops)
		return
	}
	s.copyPass(worker, ops)
}

// copyPass copies the shared handle, reads through it and drops it.
func (s *subject[H, O, PH, PO]) copyPass(worker, ops int) {
	root := PH(&s.root)
	var acc int64
	for i := 0; i < ops; i++ {
		local := root.CloneAt(worker)
		acc += int64(PH(&local).Get().A)
		PH(&local).Reset()
	}
	s.workers[worker].sink = acc
}

// mixedPass replays the worker's op stream over a private copy of the root.
func (s *subject[H, O, PH, PO]) mixedPass(worker, ops int) {
	st := &s.workers[worker]
	seq := s.seqs[worker]
	if ops < len(seq) {
		seq = seq[:ops]
	}
	local := PH(&s.root).CloneAt(worker)
	lp := PH(&local)
	refs, obs := st.refs[:0], st.obs[:0]

	for _, op := range seq {
		switch op {
		case OpPushRef:
			refs = append(refs, lp.CloneAt(worker))
		case OpPopRef:
			if n := len(refs); n > 0 {
				PH(&refs[n-1]).Reset()
				refs = refs[:n-1]
			}
		case OpPushObs:
			obs = append(obs, lp.Observe())
		case OpPopObs:
			if n := len(obs); n > 0 {
				PO(&obs[n-1]).Reset()
				obs = obs[:n-1]
			}
		case OpLockObs:
			if n := len(obs); n > 0 {
				l := PO(&obs[n-1]).LockAt(worker)
				if PH(&l).Valid() {
					refs = append(refs, PH(&l).Move())
				}
			}
		}
	}

	for i := range refs {
		PH(&refs[i]).Reset()
	}
	for i := range obs {
		PO(&obs[i]).Reset()
	}
	st.refs, st.obs = refs[:0], obs[:0]
	st.sink = int64(len(seq))
	lp.Reset()
}

func (s *subject[H, O, PH, PO]) UseCount() int64 { return PH(&s.root).UseCount() }

func (s *subject[H, O, PH, PO]) Close() error {
	PH(&s.root).Reset()
	switch n := s.destroyed.Load(); {
	case n == 0:
		return api.WrapError(api.ErrCodeInvariant, "teardown", api.ErrLeak)
	case n > 1:
		return api.WrapError(api.ErrCodeInvariant, "teardown", api.ErrDoubleDestroy).
			WithContext("destructions", n)
	}
	if live := s.alloc.Live(); live != 0 {
		return api.WrapError(api.ErrCodeInvariant, "teardown",
			fmt.Errorf("%w: %d allocations outstanding", api.ErrLeak, live))
	}
	return nil
}
