// File: refcnt/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package refcnt implements Ref, a reference-counted pointer whose strong
// count is striped over cache-line padded slots, and Observer, its weak
// counterpart.
//
// Every slot counts the strong references parked on it. A central counter
// tracks how many slots are non-zero plus the references that were obtained
// directly on it by Observer.Lock. The managed object is destroyed by the one
// goroutine that moves the central counter to zero.
//
// The handle returned by New or Make is the owner. It holds one anchor unit
// on every slot, so while it is alive no slot can drop to zero and copies
// released on different slots never share a cache line. Resetting the owner
// drops the anchors; from then on the slots behave as a distributed counter
// with exact zero detection.
//
// Handles are values guarded by a vet noCopy marker. Duplicate them with
// Clone or CloneAt, transfer them with Move and release them with Reset.
// Clone may run concurrently on one handle as long as nobody resets or moves
// that handle at the same time.
package refcnt
