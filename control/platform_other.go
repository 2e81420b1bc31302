//go:build !linux && !windows

// control/platform_other.go
// Author: momentics <momentics@gmail.com>

package control

// RegisterPlatformProbes registers placeholders where the host exposes no CPU frequency.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe(ProbeMHz, func() any { return float64(0) })
	dp.RegisterProbe(ProbeCPUScaling, func() any { return false })
}
