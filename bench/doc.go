// File: bench/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package bench measures pointer flavors under contended multi-threaded load.
//
// Every (flavor, threads) case runs through Setup, Warmup, Measure, Teardown
// and Recorded. Workers are locked to OS threads, optionally pinned, and
// released together through a spin barrier for every pass. A failing case is
// reported as a Failure and never contributes a Measurement.
package bench
