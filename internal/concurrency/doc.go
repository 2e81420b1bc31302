// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Concurrency primitives for the benchmark harness: a cohort of OS-thread
// locked workers released together through a spin barrier, a bounded MPMC
// queue, process CPU time sampling and CPU/NUMA topology discovery.
package concurrency
