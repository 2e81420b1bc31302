package refcnt

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/refbench/pool"
)

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("timeout waiting for workers")
	}
}

func TestCopyReleaseStorm(t *testing.T) {
	const (
		workers = 4
		cycles  = 100_000
	)
	var destroyed atomic.Int32
	root := MustNew(&testObj{val: 1}, tracked(&destroyed))

	var wg sync.WaitGroup
	var sawDead atomic.Bool
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < cycles; i++ {
				local := root.CloneAt(w)
				if local.Get().dead.Load() {
					sawDead.Store(true)
				}
				local.Reset()
			}
		}()
	}
	waitOrFail(t, &wg)

	assert.False(t, sawDead.Load())
	assert.EqualValues(t, 1, root.UseCount())
	assert.Zero(t, destroyed.Load())
	assert.False(t, root.Get().dead.Load())

	root.Reset()
	assert.EqualValues(t, 1, destroyed.Load())
}

func TestLastReleaseRace(t *testing.T) {
	for round := 0; round < 50; round++ {
		var destroyed atomic.Int32
		root := MustNew(&testObj{}, tracked(&destroyed), WithSlots[testObj](8))

		workers := runtime.GOMAXPROCS(0) + 2
		copies := make([]Ref[testObj], workers)
		for i := range copies {
			copies[i] = root.CloneAt(i)
		}
		root.Reset()

		var wg sync.WaitGroup
		var sawDead atomic.Bool
		for i := range copies {
			wg.Add(1)
			go func() {
				defer wg.Done()
				mine := &copies[i]
				for j := 0; j < 1000; j++ {
					c := mine.CloneAt(i + j)
					if c.Get().dead.Load() {
						sawDead.Store(true)
					}
					c.Reset()
				}
				mine.Reset()
			}()
		}
		waitOrFail(t, &wg)

		require.False(t, sawDead.Load(), "round %d", round)
		require.EqualValues(t, 1, destroyed.Load(), "round %d", round)
	}
}

func TestWeakUpgradeNeverResurrects(t *testing.T) {
	for round := 0; round < 50; round++ {
		var destroyed atomic.Int32
		root := MustNew(&testObj{}, tracked(&destroyed), WithSlots[testObj](4))
		holder := root.CloneAt(round)
		root.Reset()

		const lockers = 4
		observers := make([]Observer[testObj], lockers)
		for i := range observers {
			observers[i] = holder.Observe()
		}

		var wg sync.WaitGroup
		var sawDead atomic.Bool
		var start sync.WaitGroup
		start.Add(1)
		for i := range observers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				o := &observers[i]
				start.Wait()
				for j := 0; j < 2000; j++ {
					l := o.LockAt(i + j)
					if !l.Valid() {
						break
					}
					if l.Get().dead.Load() {
						sawDead.Store(true)
					}
					l.Reset()
				}
			}()
		}
		start.Done()
		holder.Reset()
		waitOrFail(t, &wg)

		require.False(t, sawDead.Load(), "round %d", round)
		require.EqualValues(t, 1, destroyed.Load(), "round %d", round)
		for i := range observers {
			l := observers[i].Lock()
			require.False(t, l.Valid())
			observers[i].Reset()
		}
	}
}

func TestMixedOpsReturnEveryAllocation(t *testing.T) {
	alloc := pool.NewCountingAllocator[testObj](nil)
	root, err := Make(WithAllocator[testObj](alloc))
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := root.CloneAt(w)
			var refs []Ref[testObj]
			var obs []Observer[testObj]
			for i := 0; i < 20_000; i++ {
				switch (i*7 + w) % 5 {
				case 0:
					refs = append(refs, local.Clone())
				case 1:
					if n := len(refs); n > 0 {
						refs[n-1].Reset()
						refs = refs[:n-1]
					}
				case 2:
					obs = append(obs, local.Observe())
				case 3:
					if n := len(obs); n > 0 {
						obs[n-1].Reset()
						obs = obs[:n-1]
					}
				case 4:
					if n := len(obs); n > 0 {
						if l := obs[n-1].Lock(); l.Valid() {
							refs = append(refs, l.Move())
						}
					}
				}
			}
			for i := range refs {
				refs[i].Reset()
			}
			for i := range obs {
				obs[i].Reset()
			}
			local.Reset()
		}()
	}
	waitOrFail(t, &wg)

	assert.EqualValues(t, 1, root.UseCount())
	assert.EqualValues(t, 1, alloc.Live())
	root.Reset()
	assert.Zero(t, alloc.Live())
}
