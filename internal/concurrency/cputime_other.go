//go:build !unix && !windows

// File: internal/concurrency/cputime_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "time"

// ProcessCPUTime is unavailable on this platform and always returns zero.
func ProcessCPUTime() time.Duration { return 0 }
