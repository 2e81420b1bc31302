// File: bench/payload.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package bench

// Payload is the managed object. Workers only read it.
type Payload struct {
	A, B, C int32
	D       float32
}

func initPayload(p *Payload) {
	p.A, p.B, p.C, p.D = 1, 2, 3, 4.5
}
