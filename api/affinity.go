// Package api
// Author: momentics@gmail.com
//
// CPU affinity and thread pinning definitions.

package api

// Pinner binds the calling OS thread to a CPU.
type Pinner interface {
	// Pin locks the current OS thread to cpuID.
	Pin(cpuID int) error
	// CPUs returns the CPUs the process may run on.
	CPUs() []int
}
