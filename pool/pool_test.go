package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/refbench/api"
)

type payload struct {
	A, B, C int
	D       float32
}

func TestBoundedAllocatorExhaustion(t *testing.T) {
	b, err := NewBoundedAllocator[payload](2)
	require.NoError(t, err)

	p1, err := b.Alloc()
	require.NoError(t, err)
	p2, err := b.Alloc()
	require.NoError(t, err)
	assert.NotSame(t, p1, p2)

	_, err = b.Alloc()
	require.ErrorIs(t, err, api.ErrResourceExhausted)

	p1.A = 7
	b.Free(p1)
	p3, err := b.Alloc()
	require.NoError(t, err)
	assert.Zero(t, p3.A, "freed object must be zeroed")

	st := b.Stats()
	assert.EqualValues(t, 3, st.TotalAlloc)
	assert.EqualValues(t, 1, st.TotalFree)
	assert.EqualValues(t, 2, st.InUse)
	assert.Equal(t, 2, b.Capacity())
}

func TestBoundedAllocatorInvalidCapacity(t *testing.T) {
	_, err := NewBoundedAllocator[payload](0)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestBoundedAllocatorConcurrent(t *testing.T) {
	b, err := NewBoundedAllocator[payload](64)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				p, err := b.Alloc()
				if err != nil {
					continue
				}
				p.A = i
				b.Free(p)
			}
		}()
	}
	wg.Wait()
	assert.Zero(t, b.Stats().InUse)
}

func TestCountingAllocator(t *testing.T) {
	c := NewCountingAllocator[payload](nil)
	a, err := c.Alloc()
	require.NoError(t, err)
	assert.EqualValues(t, 1, c.Live())
	c.Free(a)
	assert.Zero(t, c.Live())
	assert.Panics(t, func() { c.Free(a) })
}

func TestCountingAllocatorPropagatesErrors(t *testing.T) {
	b, err := NewBoundedAllocator[payload](1)
	require.NoError(t, err)
	c := NewCountingAllocator[payload](b)

	_, err = c.Alloc()
	require.NoError(t, err)
	_, err = c.Alloc()
	require.ErrorIs(t, err, api.ErrResourceExhausted)
	assert.EqualValues(t, 1, c.Live())
}

func TestSyncPoolReset(t *testing.T) {
	p := NewSyncPool(func() []int { return make([]int, 0, 4) },
		func(s []int) []int { return s[:0] })
	s := p.Get()
	s = append(s, 1, 2)
	p.Put(s)
	assert.Empty(t, p.Get())
}
