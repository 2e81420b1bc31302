package concurrency

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockFreeQueueBounds(t *testing.T) {
	q := NewLockFreeQueue[*int](3)
	require.Equal(t, 4, q.Cap())

	vals := []int{1, 2, 3, 4}
	for i := range vals {
		require.True(t, q.Enqueue(&vals[i]))
	}
	assert.False(t, q.Enqueue(new(int)), "queue should be full")
	assert.Equal(t, 4, q.Len())

	for i := range vals {
		v, ok := q.Dequeue()
		require.True(t, ok)
		assert.Same(t, &vals[i], v)
	}
	_, ok := q.Dequeue()
	assert.False(t, ok, "queue should be empty")
	assert.Zero(t, q.Len())
}

func TestLockFreeQueueMPMC(t *testing.T) {
	q := NewLockFreeQueue[int](256)
	const (
		producers = 8
		consumers = 8
		perProd   = 5000
	)
	total := int64(producers * perProd)

	var sent, received, count atomic.Int64
	var prodWg, consWg sync.WaitGroup
	for p := 0; p < producers; p++ {
		prodWg.Add(1)
		go func() {
			defer prodWg.Done()
			for i := 0; i < perProd; i++ {
				v := p*perProd + i + 1
				for !q.Enqueue(v) {
					runtime.Gosched()
				}
				sent.Add(int64(v))
			}
		}()
	}
	for c := 0; c < consumers; c++ {
		consWg.Add(1)
		go func() {
			defer consWg.Done()
			for count.Load() < total {
				if v, ok := q.Dequeue(); ok {
					received.Add(int64(v))
					count.Add(1)
				} else {
					runtime.Gosched()
				}
			}
		}()
	}
	prodWg.Wait()

	done := make(chan struct{})
	go func() {
		consWg.Wait()
		close(done)
	}()
	select {
	case <-done:
		assert.Equal(t, sent.Load(), received.Load())
	case <-time.After(10 * time.Second):
		t.Fatalf("timeout waiting for consumers: %d/%d", count.Load(), total)
	}
}

func TestNextPow2(t *testing.T) {
	cases := map[int]int{-3: 1, 0: 1, 1: 1, 2: 2, 3: 4, 20: 32, 64: 64}
	for in, want := range cases {
		assert.Equal(t, want, NextPow2(in), "NextPow2(%d)", in)
	}
}
