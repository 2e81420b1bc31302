//go:build unix

// File: internal/concurrency/cputime_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"time"

	"golang.org/x/sys/unix"
)

// ProcessCPUTime returns user plus system CPU time consumed by the process.
func ProcessCPUTime() time.Duration {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	return time.Duration(ru.Utime.Nano() + ru.Stime.Nano())
}
