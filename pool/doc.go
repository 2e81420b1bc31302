// Package pool
// Author: momentics <momentics@gmail.com>
//
// Storage for managed objects: a plain heap allocator, a counting wrapper
// used to prove that every allocation is returned, a bounded lock-free slab
// that reports exhaustion, and a typed sync.Pool wrapper.
package pool
