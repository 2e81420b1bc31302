// File: internal/concurrency/topology.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// CPU and NUMA topology queries.

package concurrency

import "runtime"

// NumCPUs returns the number of logical CPUs.
func NumCPUs() int {
	return runtime.NumCPU()
}

// NUMANodes returns the number of NUMA nodes, at least 1.
func NUMANodes() int {
	if n := platformNUMANodes(); n > 0 {
		return n
	}
	return 1
}
