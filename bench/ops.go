// File: bench/ops.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Operation streams of the mixed workload.

package bench

import "math/rand/v2"

// Op is one step of the mixed workload, applied to a worker-local stack of
// strong references and a stack of weak references.
type Op uint8

const (
	// OpPushRef pushes a copy of the worker's handle.
	OpPushRef Op = iota
	// OpPopRef releases the newest strong reference.
	OpPopRef
	// OpPushObs pushes a weak reference to the worker's handle.
	OpPushObs
	// OpPopObs releases the newest weak reference.
	OpPopObs
	// OpLockObs upgrades the newest weak reference and pushes the result.
	OpLockObs

	numOps
)

var opNames = [...]string{"push_ref", "pop_ref", "push_obs", "pop_obs", "lock_obs"}

func (o Op) String() string {
	if o < numOps {
		return opNames[o]
	}
	return "op?"
}

// GenerateOps returns one uniformly distributed op stream per worker.
// Streams depend only on seed and the worker index.
func GenerateOps(seed uint64, workers, n int) [][]Op {
	out := make([][]Op, workers)
	for w := range out {
		r := rand.New(rand.NewPCG(seed, uint64(w)))
		seq := make([]Op, n)
		for i := range seq {
			seq[i] = Op(r.IntN(int(numOps)))
		}
		out[w] = seq
	}
	return out
}
