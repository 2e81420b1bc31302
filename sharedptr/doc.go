// File: sharedptr/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package sharedptr is the conventional reference-counted pointer: one
// atomic strong count and one atomic weak count in a shared block. Every
// copy and release from every goroutine lands on the same cache line.
// It mirrors the refcnt API so the two can be measured side by side.
package sharedptr
