package cellparty_test

import (
	"testing"

	"github.com/delaneyj/cellparty"
	"github.com/stretchr/testify/assert"
)

// should not evaluate until first read and cache until an input changes
func TestComputedLazyAndCached(t *testing.T) {
	rs := cellparty.CreateReactiveSystem(nil)
	a := rs.Ref(1)

	getterRuns := 0
	c := rs.Computed(func(oldValue any) any {
		getterRuns++
		return a.Value().(int) * 2
	})
	assert.Equal(t, 0, getterRuns)

	assert.Equal(t, 2, c.Value())
	assert.Equal(t, 1, getterRuns)
	assert.Equal(t, 2, c.Value())
	assert.Equal(t, 1, getterRuns)

	a.SetValue(3)
	assert.Equal(t, 1, getterRuns, "invalidation alone must not recompute")
	assert.Equal(t, 6, c.Value())
	assert.Equal(t, 2, getterRuns)
}

// should pass the previous cached value to the getter
func TestComputedOldValue(t *testing.T) {
	rs := cellparty.CreateReactiveSystem(nil)
	a := rs.Ref(1)

	var olds []any
	c := rs.Computed(func(oldValue any) any {
		olds = append(olds, oldValue)
		return a.Value()
	})
	c.Value()
	a.SetValue(2)
	c.Value()
	assert.Equal(t, []any{nil, 1}, olds)
}

// should propagate through a chain of computeds with one recompute each
func TestComputedChain(t *testing.T) {
	rs := cellparty.CreateReactiveSystem(nil)
	a := rs.Ref(1)

	bRuns, cRuns := 0, 0
	b := rs.Computed(func(_ any) any {
		bRuns++
		return a.Value().(int) + 1
	})
	c := rs.Computed(func(_ any) any {
		cRuns++
		return b.Value().(int) + 1
	})

	runs := 0
	var seen any
	rs.Effect(func() {
		runs++
		seen = c.Value()
	})
	assert.Equal(t, 3, seen)
	assert.Equal(t, 1, bRuns)
	assert.Equal(t, 1, cRuns)

	a.SetValue(2)
	assert.Equal(t, 4, seen)
	assert.Equal(t, 2, runs)
	assert.Equal(t, 2, bRuns)
	assert.Equal(t, 2, cRuns)
}

// should cut propagation when an intermediate computed lands on an equal value
func TestComputedEqualityCutoff(t *testing.T) {
	rs := cellparty.CreateReactiveSystem(nil)
	x := rs.Ref(1)

	bRuns, cRuns := 0, 0
	positive := rs.Computed(func(_ any) any {
		bRuns++
		return x.Value().(int) > 0
	})
	c := rs.Computed(func(_ any) any {
		cRuns++
		return positive.Value()
	})

	effectRuns := 0
	rs.Effect(func() {
		effectRuns++
		c.Value()
	})
	assert.Equal(t, 1, bRuns)
	assert.Equal(t, 1, cRuns)
	assert.Equal(t, 1, effectRuns)

	// 1 -> 2: positive recomputes to the same value, nothing downstream runs
	x.SetValue(2)
	assert.Equal(t, 2, bRuns)
	assert.Equal(t, 1, cRuns)
	assert.Equal(t, 1, effectRuns)

	// 2 -> -1: positive flips, the rest follows
	x.SetValue(-1)
	assert.Equal(t, 3, bRuns)
	assert.Equal(t, 2, cRuns)
	assert.Equal(t, 2, effectRuns)
}

// should run a diamond's sink once per source change
func TestComputedDiamond(t *testing.T) {
	rs := cellparty.CreateReactiveSystem(nil)
	src := rs.Ref(1)

	left := rs.Computed(func(_ any) any { return src.Value().(int) + 1 })
	right := rs.Computed(func(_ any) any { return src.Value().(int) * 10 })

	runs := 0
	var seen any
	rs.Effect(func() {
		runs++
		seen = left.Value().(int) + right.Value().(int)
	})
	assert.Equal(t, 12, seen)
	assert.Equal(t, 1, runs)

	src.SetValue(2)
	assert.Equal(t, 23, seen)
	assert.Equal(t, 2, runs)
}

// should be treated as readonly: readers see it, writers are refused
func TestComputedIsReadonlyRef(t *testing.T) {
	rs := cellparty.CreateReactiveSystem(nil)
	a := rs.Ref(1)
	c := rs.Computed(func(_ any) any { return a.Value() })

	assert.True(t, cellparty.IsRef(c))
	assert.True(t, cellparty.IsReadonly(c))
}

// should settle a computed whose getter writes back into its own input
func TestComputedSelfSideEffect(t *testing.T) {
	rs := cellparty.CreateReactiveSystem(nil)
	st := rs.Reactive(cellparty.ObjectOf(
		cellparty.Entry{Key: "v", Value: 0},
	)).(*cellparty.Store)

	getterRuns := 0
	c := rs.Computed(func(_ any) any {
		getterRuns++
		v := st.Get("v").(int)
		if v < 1 {
			st.Set("v", v+1)
		}
		return st.Get("v")
	})

	assert.Equal(t, 1, c.Value())
	assert.Equal(t, 1, c.Value())
	assert.Equal(t, 1, getterRuns, "the mid-run write settles without recompute")
}

// should stop recomputing after Stop while keeping the last cached value
func TestComputedStop(t *testing.T) {
	rs := cellparty.CreateReactiveSystem(nil)
	a := rs.Ref(1)

	getterRuns := 0
	c := rs.Computed(func(_ any) any {
		getterRuns++
		return a.Value()
	})
	assert.Equal(t, 1, c.Value())

	c.Stop()
	a.SetValue(2)
	assert.Equal(t, 1, c.Value())
	assert.Equal(t, 1, getterRuns)
}
