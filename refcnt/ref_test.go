package refcnt

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/refbench/api"
	"github.com/momentics/refbench/pool"
)

type testObj struct {
	val  int
	dead atomic.Bool
}

// tracked returns a deleter that marks the object dead and counts calls.
func tracked(calls *atomic.Int32) Option[testObj] {
	return WithDeleter[testObj](func(o *testObj) {
		o.dead.Store(true)
		calls.Add(1)
	})
}

func TestRefLifecycle(t *testing.T) {
	var destroyed atomic.Int32
	r, err := New(&testObj{val: 7}, tracked(&destroyed), WithSlots[testObj](4))
	require.NoError(t, err)
	require.True(t, r.Valid())
	assert.True(t, r.Owner())
	assert.EqualValues(t, 1, r.UseCount())
	assert.Equal(t, 4, r.Slots())

	c1 := r.Clone()
	c2 := c1.Clone()
	assert.EqualValues(t, 3, r.UseCount())
	assert.False(t, c1.Owner())
	assert.Equal(t, c1.Slot(), c2.Slot(), "copy of a slot ref stays on its slot")

	c1.Reset()
	assert.EqualValues(t, 2, r.UseCount())
	r.Reset()
	assert.False(t, r.Valid())
	assert.EqualValues(t, 1, c2.UseCount())
	assert.Zero(t, destroyed.Load())
	assert.Equal(t, 7, c2.Get().val)

	c2.Reset()
	assert.EqualValues(t, 1, destroyed.Load())
	c2.Reset()
	assert.EqualValues(t, 1, destroyed.Load(), "reset of an empty handle is a no-op")
}

func TestRefSameIdentity(t *testing.T) {
	obj := &testObj{}
	r := MustNew(obj)
	defer r.Reset()

	a := r.Clone()
	defer a.Reset()
	b := r.CloneAt(3)
	defer b.Reset()

	assert.Same(t, a.Get(), b.Get())
	assert.True(t, a.Equal(&b))
	assert.True(t, b.Is(obj))
	assert.False(t, b.Is(&testObj{}))
}

func TestRefMoveKeepsCount(t *testing.T) {
	r := MustNew(&testObj{})
	c := r.Clone()
	before := r.UseCount()

	m := c.Move()
	assert.False(t, c.Valid())
	assert.Equal(t, before, m.UseCount())

	owner := r.Move()
	assert.True(t, owner.Owner())
	assert.False(t, r.Valid())
	assert.Equal(t, before, owner.UseCount())

	m.Reset()
	owner.Reset()
}

func TestRefEmpty(t *testing.T) {
	var r Ref[testObj]
	assert.False(t, r.Valid())
	assert.Zero(t, r.UseCount())
	assert.Zero(t, r.Slots())

	c := r.Clone()
	assert.False(t, c.Valid())
	o := r.Observe()
	assert.False(t, o.Valid())
	assert.True(t, o.Expired())

	defer func() {
		rec := recover()
		require.NotNil(t, rec)
		err, ok := rec.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, api.ErrEmptyHandle)
	}()
	r.Get()
}

func TestNewNilObject(t *testing.T) {
	_, err := New[testObj](nil)
	assert.ErrorIs(t, err, api.ErrNilObject)
	assert.Panics(t, func() { MustNew[testObj](nil) })
}

func TestRefAssignAndSwap(t *testing.T) {
	var destroyedA, destroyedB atomic.Int32
	a := MustNew(&testObj{val: 1}, tracked(&destroyedA))
	b := MustNew(&testObj{val: 2}, tracked(&destroyedB))

	var x Ref[testObj]
	x.Assign(&a)
	assert.EqualValues(t, 2, a.UseCount())

	x.Assign(&b)
	assert.EqualValues(t, 1, a.UseCount())
	assert.EqualValues(t, 2, b.UseCount())
	assert.Equal(t, 2, x.Get().val)

	x.Assign(&x)
	assert.EqualValues(t, 2, b.UseCount(), "self assignment keeps the count")

	x.Swap(&a)
	assert.Equal(t, 1, x.Get().val)
	assert.Equal(t, 2, a.Get().val)
	assert.True(t, x.Owner())

	var empty Ref[testObj]
	a.Assign(&empty)
	assert.False(t, a.Valid())
	assert.EqualValues(t, 1, b.UseCount())

	x.Reset()
	b.Reset()
	assert.EqualValues(t, 1, destroyedA.Load())
	assert.EqualValues(t, 1, destroyedB.Load())
}

func TestSlotsNormalisation(t *testing.T) {
	assert.Equal(t, 1, NormalizeSlots(0))
	assert.Equal(t, 4, NormalizeSlots(3))
	assert.Equal(t, MaxSlots, NormalizeSlots(1000))
	assert.GreaterOrEqual(t, DefaultSlots(), 1)

	r := MustNew(&testObj{}, WithSlots[testObj](4))
	c := r.CloneAt(6)
	assert.Equal(t, 2, c.Slot())
	neg := r.CloneAt(-1)
	assert.Equal(t, 3, neg.Slot())
	c.Reset()
	neg.Reset()
	r.Reset()
}

func TestMakeWithAllocator(t *testing.T) {
	slab, err := pool.NewBoundedAllocator[testObj](1)
	require.NoError(t, err)

	r, err := Make(WithAllocator[testObj](slab), WithInit(func(o *testObj) { o.val = 42 }))
	require.NoError(t, err)
	assert.Equal(t, 42, r.Get().val)

	_, err = Make(WithAllocator[testObj](slab))
	require.ErrorIs(t, err, api.ErrResourceExhausted)

	r.Reset()
	assert.Zero(t, slab.Stats().InUse)

	again, err := Make(WithAllocator[testObj](slab))
	require.NoError(t, err)
	assert.Zero(t, again.Get().val, "recycled storage is zeroed")
	again.Reset()
}

func TestMakeHeapDefault(t *testing.T) {
	r, err := Make[testObj]()
	require.NoError(t, err)
	assert.NotNil(t, r.Get())
	r.Reset()
}
