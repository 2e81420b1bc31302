// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.

package affinity

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrUnsupported is returned where thread affinity cannot be changed.
var ErrUnsupported = errors.New("affinity: not supported on this platform")

// SetAffinity pins the current OS thread to a given logical CPU.
// The caller must hold runtime.LockOSThread for the pin to stick to its goroutine.
func SetAffinity(cpuID int) error {
	if cpuID < 0 {
		return fmt.Errorf("affinity: invalid cpu %d", cpuID)
	}
	return setAffinityPlatform(cpuID)
}

// Allowed returns the logical CPUs the process is allowed to run on, in ascending order.
func Allowed() []int {
	cpus, err := allowedPlatform()
	if err != nil || len(cpus) == 0 {
		cpus = make([]int, runtime.NumCPU())
		for i := range cpus {
			cpus[i] = i
		}
	}
	return cpus
}

// Pinner implements api.Pinner over the process CPU set.
type Pinner struct{}

// Pin binds the calling OS thread to cpuID.
func (Pinner) Pin(cpuID int) error { return SetAffinity(cpuID) }

// CPUs returns Allowed().
func (Pinner) CPUs() []int { return Allowed() }
