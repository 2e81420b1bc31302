// File: internal/concurrency/cohort.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cohort keeps a fixed set of OS-thread locked workers alive across passes.
// Every pass starts all workers through one SpinBarrier and is timed from the
// release to the completion of the last worker.

package concurrency

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// WorkerFunc is the body one worker executes per pass.
type WorkerFunc func(worker int)

// PinFunc binds the calling OS thread to a CPU.
type PinFunc func(cpu int) error

// CohortConfig describes a worker cohort.
type CohortConfig struct {
	Workers int
	// CPUs lists pin targets; worker i uses CPUs[i%len(CPUs)]. Empty disables pinning.
	CPUs []int
	Pin  PinFunc
	Task WorkerFunc
}

// PassTiming is the cost of one cohort pass.
type PassTiming struct {
	Real time.Duration
	CPU  time.Duration
}

type pass struct {
	barrier *SpinBarrier
	done    sync.WaitGroup
	errs    []error
}

// Cohort runs Task on every worker once per Pass.
type Cohort struct {
	cfg    CohortConfig
	passes []chan *pass
	group  *errgroup.Group
	ctx    context.Context
	closed atomic.Bool
	mu     sync.Mutex
}

// StartCohort launches the workers and waits until all of them are locked
// (and pinned when requested) to their OS threads.
func StartCohort(ctx context.Context, cfg CohortConfig) (*Cohort, error) {
	if cfg.Workers < 1 {
		return nil, ErrNoWorkers
	}
	if cfg.Task == nil {
		return nil, fmt.Errorf("cohort: nil task")
	}
	g, gctx := errgroup.WithContext(ctx)
	c := &Cohort{
		cfg:    cfg,
		passes: make([]chan *pass, cfg.Workers),
		group:  g,
		ctx:    gctx,
	}

	var ready sync.WaitGroup
	pinErrs := make([]error, cfg.Workers)
	ready.Add(cfg.Workers)
	for id := 0; id < cfg.Workers; id++ {
		c.passes[id] = make(chan *pass, 1)
		g.Go(func() error {
			return c.worker(id, &ready, &pinErrs[id])
		})
	}
	ready.Wait()

	if err := errors.Join(pinErrs...); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Workers returns the cohort size.
func (c *Cohort) Workers() int { return c.cfg.Workers }

func (c *Cohort) worker(id int, ready *sync.WaitGroup, pinErr *error) error {
	runtime.LockOSThread()
	pinned := false
	if len(c.cfg.CPUs) > 0 && c.cfg.Pin != nil {
		cpu := c.cfg.CPUs[id%len(c.cfg.CPUs)]
		if err := c.cfg.Pin(cpu); err != nil {
			*pinErr = fmt.Errorf("worker %d: pin cpu %d: %w", id, cpu, err)
		}
		pinned = true
	}
	ready.Done()
	// A pinned thread exits together with its goroutine instead of
	// returning to the scheduler with a narrowed CPU set.
	if !pinned {
		defer runtime.UnlockOSThread()
	}
	if *pinErr != nil {
		return *pinErr
	}

	for p := range c.passes[id] {
		c.run(id, p)
	}
	return nil
}

func (c *Cohort) run(id int, p *pass) {
	defer p.done.Done()
	if err := p.barrier.Await(c.ctx); err != nil {
		p.errs[id] = err
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.errs[id] = fmt.Errorf("%w: worker %d: %v", ErrWorkerPanic, id, r)
		}
	}()
	c.cfg.Task(id)
}

// Pass runs Task once on every worker, all released together.
// It is not safe to call Pass concurrently with itself.
func (c *Cohort) Pass(ctx context.Context) (PassTiming, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed.Load() {
		return PassTiming{}, ErrCohortClosed
	}

	p := &pass{
		barrier: NewSpinBarrier(c.cfg.Workers),
		errs:    make([]error, c.cfg.Workers),
	}
	p.done.Add(c.cfg.Workers)
	for _, ch := range c.passes {
		ch <- p
	}

	if err := p.barrier.WaitReady(ctx); err != nil {
		p.barrier.Abort()
		p.done.Wait()
		return PassTiming{}, err
	}

	cpu0 := ProcessCPUTime()
	start := time.Now()
	p.barrier.Release()
	p.done.Wait()
	timing := PassTiming{
		Real: time.Since(start),
		CPU:  ProcessCPUTime() - cpu0,
	}
	return timing, errors.Join(p.errs...)
}

// Close stops the workers and waits for them to exit.
func (c *Cohort) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed.Swap(true) {
		return nil
	}
	for _, ch := range c.passes {
		close(ch)
	}
	return c.group.Wait()
}
