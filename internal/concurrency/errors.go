// File: internal/concurrency/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "errors"

var (
	ErrCohortClosed   = errors.New("cohort is closed")
	ErrBarrierAborted = errors.New("barrier aborted")
	ErrNoWorkers      = errors.New("cohort needs at least one worker")
	ErrWorkerPanic    = errors.New("worker panicked")
)
