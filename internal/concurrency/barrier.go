// File: internal/concurrency/barrier.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Spin barrier used to start a cohort pass with minimal release jitter.

package concurrency

import (
	"context"
	"runtime"
	"sync/atomic"
)

const (
	barrierHold int32 = iota
	barrierRelease
	barrierAbort
)

// spinCheck is the spin-count mask between context checks.
const spinCheck = 1<<14 - 1

// SpinBarrier holds a fixed number of participants until Release.
type SpinBarrier struct {
	target int32
	count  atomic.Int32
	flag   atomic.Int32
	ready  chan struct{}
}

// NewSpinBarrier creates a barrier for the specified number of participants.
func NewSpinBarrier(participants int) *SpinBarrier {
	return &SpinBarrier{
		target: int32(participants),
		ready:  make(chan struct{}),
	}
}

// Await registers a participant and spins until the barrier is released.
// Returns ErrBarrierAborted after Abort, or the context error.
func (b *SpinBarrier) Await(ctx context.Context) error {
	if b.count.Add(1) == b.target {
		close(b.ready)
	}
	for spin := 1; ; spin++ {
		switch b.flag.Load() {
		case barrierRelease:
			return nil
		case barrierAbort:
			return ErrBarrierAborted
		}
		if spin&spinCheck == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			runtime.Gosched()
		}
	}
}

// WaitReady blocks until all participants have called Await.
func (b *SpinBarrier) WaitReady(ctx context.Context) error {
	select {
	case <-b.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release lets every spinning participant proceed.
func (b *SpinBarrier) Release() { b.flag.CompareAndSwap(barrierHold, barrierRelease) }

// Abort makes every current and future Await fail.
func (b *SpinBarrier) Abort() { b.flag.CompareAndSwap(barrierHold, barrierAbort) }
