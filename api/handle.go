// File: api/handle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Contracts shared by every reference-counted pointer flavor.

package api

// Handle is a strong, owning reference to a managed object.
// Duplicates are obtained through the concrete type's Clone methods.
type Handle[T any] interface {
	// Get returns the managed object. Panics on an empty handle.
	Get() *T
	// Valid reports whether the handle owns an object.
	Valid() bool
	// UseCount returns the number of strong references.
	UseCount() int64
	// Reset releases ownership and leaves the handle empty.
	Reset()
}

// Observer is a weak, non-owning reference.
type Observer interface {
	// Expired reports whether the managed object has been destroyed.
	Expired() bool
	// UseCount returns the number of strong references still alive.
	UseCount() int64
	// Reset drops the weak reference.
	Reset()
}

// Deleter disposes of a managed object when its last strong reference goes away.
type Deleter[T any] func(*T)
