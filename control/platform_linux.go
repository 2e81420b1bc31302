//go:build linux
// +build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux CPU frequency and scaling probes read from procfs and sysfs.

package control

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RegisterPlatformProbes sets Linux-specific debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe(ProbeMHz, func() any { return cpuMHz() })
	dp.RegisterProbe(ProbeCPUScaling, func() any { return cpuScalingEnabled() })
}

// cpuMHz reads the first "cpu MHz" line of /proc/cpuinfo, falling back to
// the cpufreq maximum of cpu0.
func cpuMHz() float64 {
	if f, err := os.Open("/proc/cpuinfo"); err == nil {
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			key, val, ok := strings.Cut(sc.Text(), ":")
			if ok && strings.TrimSpace(key) == "cpu MHz" {
				if mhz, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
					return mhz
				}
			}
		}
	}
	data, err := os.ReadFile("/sys/devices/system/cpu/cpu0/cpufreq/cpuinfo_max_freq")
	if err != nil {
		return 0
	}
	khz, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0
	}
	return khz / 1000
}

// cpuScalingEnabled reports whether any CPU runs a governor other than "performance".
func cpuScalingEnabled() bool {
	govs, err := filepath.Glob("/sys/devices/system/cpu/cpu[0-9]*/cpufreq/scaling_governor")
	if err != nil {
		return false
	}
	for _, g := range govs {
		data, err := os.ReadFile(g)
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(data)) != "performance" {
			return true
		}
	}
	return false
}
