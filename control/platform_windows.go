//go:build windows
// +build windows

// control/platform_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific debug probes.

package control

import "golang.org/x/sys/windows/registry"

// RegisterPlatformProbes sets Windows-specific debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe(ProbeMHz, func() any { return cpuMHz() })
	dp.RegisterProbe(ProbeCPUScaling, func() any { return false })
}

// cpuMHz reads the nominal frequency of processor 0 from the registry.
func cpuMHz() float64 {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`HARDWARE\DESCRIPTION\System\CentralProcessor\0`, registry.QUERY_VALUE)
	if err != nil {
		return 0
	}
	defer k.Close()
	mhz, _, err := k.GetIntegerValue("~MHz")
	if err != nil {
		return 0
	}
	return float64(mhz)
}
