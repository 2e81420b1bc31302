// File: refcnt/nocopy.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package refcnt

// noCopy makes `go vet` report struct copies of handles.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
