//go:build linux

// File: internal/concurrency/topology_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "path/filepath"

// platformNUMANodes counts node directories exported by sysfs.
func platformNUMANodes() int {
	nodes, err := filepath.Glob("/sys/devices/system/node/node[0-9]*")
	if err != nil {
		return 1
	}
	return len(nodes)
}
