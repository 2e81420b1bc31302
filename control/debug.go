// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Named probes describing the host and the run.

package control

import (
	"runtime"
	"sort"
	"sync"

	"github.com/momentics/refbench/api"
	"github.com/momentics/refbench/internal/concurrency"
)

// Probe names shared with the report context.
const (
	ProbeNumCPUs    = "platform.cpus"
	ProbeNUMANodes  = "platform.numa_nodes"
	ProbeMHz        = "platform.mhz_per_cpu"
	ProbeCPUScaling = "platform.cpu_scaling_enabled"
	ProbeGoVersion  = "runtime.go_version"
	ProbeGOMAXPROCS = "runtime.gomaxprocs"
	ProbeOSArch     = "runtime.os_arch"
)

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

var _ api.Debug = (*DebugProbes)(nil)

// NewDebugProbes creates a registry preloaded with runtime and platform probes.
func NewDebugProbes() *DebugProbes {
	dp := &DebugProbes{probes: make(map[string]func() any)}
	dp.RegisterProbe(ProbeNumCPUs, func() any { return concurrency.NumCPUs() })
	dp.RegisterProbe(ProbeNUMANodes, func() any { return concurrency.NUMANodes() })
	dp.RegisterProbe(ProbeGoVersion, func() any { return runtime.Version() })
	dp.RegisterProbe(ProbeGOMAXPROCS, func() any { return runtime.GOMAXPROCS(0) })
	dp.RegisterProbe(ProbeOSArch, func() any { return runtime.GOOS + "/" + runtime.GOARCH })
	RegisterPlatformProbes(dp)
	return dp
}

// RegisterProbe inserts or replaces a named probe.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// Names returns the probe names in sorted order.
func (dp *DebugProbes) Names() []string {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	names := make([]string, 0, len(dp.probes))
	for k := range dp.probes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DumpState returns output of all probes.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any, len(dp.probes))
	for k, fn := range dp.probes {
		out[k] = fn()
	}
	return out
}

// Int reads an integer probe, 0 when missing.
func (dp *DebugProbes) Int(name string) int {
	v, _ := dp.value(name).(int)
	return v
}

// Float reads a float probe, 0 when missing.
func (dp *DebugProbes) Float(name string) float64 {
	v, _ := dp.value(name).(float64)
	return v
}

// Bool reads a boolean probe, false when missing.
func (dp *DebugProbes) Bool(name string) bool {
	v, _ := dp.value(name).(bool)
	return v
}

// String reads a string probe, "" when missing.
func (dp *DebugProbes) String(name string) string {
	v, _ := dp.value(name).(string)
	return v
}

func (dp *DebugProbes) value(name string) any {
	dp.mu.RLock()
	fn, ok := dp.probes[name]
	dp.mu.RUnlock()
	if !ok {
		return nil
	}
	return fn()
}
