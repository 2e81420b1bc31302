// File: refcnt/slots.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Padded counter slots and their recycling.

package refcnt

import (
	"math/bits"
	"math/rand/v2"
	"runtime"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/refbench/internal/concurrency"
	"github.com/momentics/refbench/pool"
)

const maxSlotsLog2 = 6

// MaxSlots bounds the stripe width of one control block.
const MaxSlots = 1 << maxSlotsLog2

// directSlot marks a reference counted on the central counter itself.
const directSlot int32 = -1

// cell is one stripe of the strong count, alone on its cache line.
type cell struct {
	n atomic.Int64
	_ cpu.CacheLinePad
}

type cellSet struct {
	cells []cell
}

var cellPools [maxSlotsLog2 + 1]*pool.SyncPool[*cellSet]

func init() {
	for i := range cellPools {
		width := 1 << i
		cellPools[i] = pool.NewSyncPool(
			func() *cellSet { return &cellSet{cells: make([]cell, width)} },
			func(s *cellSet) *cellSet {
				for j := range s.cells {
					s.cells[j].n.Store(0)
				}
				return s
			},
		)
	}
}

func getCells(width int) *cellSet {
	return cellPools[bits.TrailingZeros(uint(width))].Get()
}

func putCells(s *cellSet) {
	if s != nil {
		cellPools[bits.TrailingZeros(uint(len(s.cells)))].Put(s)
	}
}

// NormalizeSlots rounds n up to a power of two within [1, MaxSlots].
func NormalizeSlots(n int) int {
	return min(concurrency.NextPow2(n), MaxSlots)
}

// DefaultSlots derives the stripe width from GOMAXPROCS.
func DefaultSlots() int {
	return NormalizeSlots(runtime.GOMAXPROCS(0))
}

func randomSlot() int { return int(rand.Uint32() >> 1) }
