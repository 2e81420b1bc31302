//go:build !linux

// File: internal/concurrency/topology_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

func platformNUMANodes() int { return 1 }
