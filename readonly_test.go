package cellparty_test

import (
	"testing"

	"github.com/delaneyj/cellparty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// should warn and leave the target untouched on any mutation
func TestReadonlyRejectsMutation(t *testing.T) {
	var warnings int
	rs := cellparty.CreateReactiveSystem(func(string, ...any) { warnings++ })
	raw := cellparty.ObjectOf(cellparty.Entry{Key: "a", Value: 1})
	ro := rs.Readonly(raw).(*cellparty.Store)

	ro.Set("a", 2)
	ro.Delete("a")
	v, _ := raw.Get("a")
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, warnings)
}

// should warn on every list mutator as well
func TestReadonlyListRejectsMutation(t *testing.T) {
	var warnings int
	rs := cellparty.CreateReactiveSystem(func(string, ...any) { warnings++ })
	raw := cellparty.NewArray(1, 2)
	ro := rs.Readonly(raw).(*cellparty.List)

	ro.Set(0, 9)
	ro.Delete(0)
	ro.Push(3)
	assert.Nil(t, ro.Pop())
	assert.Nil(t, ro.Shift())
	ro.Unshift(0)
	ro.Splice(0, 1)
	ro.SetLength(0)
	assert.Equal(t, 2, raw.Len())
	assert.Equal(t, 8, warnings)
}

// should not register read dependencies through a plain readonly view
func TestReadonlyDoesNotTrack(t *testing.T) {
	rs := cellparty.CreateReactiveSystem(nil)
	raw := cellparty.ObjectOf(cellparty.Entry{Key: "a", Value: 1})
	live := rs.Reactive(raw).(*cellparty.Store)
	ro := rs.Readonly(raw).(*cellparty.Store)

	runs := 0
	rs.Effect(func() {
		runs++
		ro.Get("a")
	})
	live.Set("a", 2)
	assert.Equal(t, 1, runs)
}

// should keep tracking alive through a readonly view over a reactive store
func TestReadonlyOverReactiveDelegates(t *testing.T) {
	rs := cellparty.CreateReactiveSystem(nil)
	live := rs.Reactive(cellparty.ObjectOf(
		cellparty.Entry{Key: "a", Value: 1},
	)).(*cellparty.Store)
	ro := rs.Readonly(live).(*cellparty.Store)

	runs := 0
	var seen any
	rs.Effect(func() {
		runs++
		seen = ro.Get("a")
	})
	assert.Equal(t, 1, seen)

	live.Set("a", 2)
	assert.Equal(t, 2, runs)
	assert.Equal(t, 2, seen)
}

// should wrap nested reads of a deep readonly as readonly themselves
func TestReadonlyDeepNesting(t *testing.T) {
	rs := cellparty.CreateReactiveSystem(nil)
	inner := cellparty.NewObject()
	outer := cellparty.ObjectOf(cellparty.Entry{Key: "inner", Value: inner})

	ro := rs.Readonly(outer).(*cellparty.Store)
	got := ro.Get("inner")
	require.IsType(t, &cellparty.Store{}, got)
	assert.True(t, cellparty.IsReadonly(got))

	sh := rs.ShallowReadonly(outer).(*cellparty.Store)
	assert.Same(t, inner, sh.Get("inner"), "shallow readonly returns the raw child")
}

// should keep nested containers readonly when the view layers over a reactive store
func TestReadonlyOverReactiveDeepNesting(t *testing.T) {
	var warnings int
	rs := cellparty.CreateReactiveSystem(func(string, ...any) { warnings++ })
	inner := cellparty.ObjectOf(cellparty.Entry{Key: "x", Value: 1})
	outer := cellparty.ObjectOf(cellparty.Entry{Key: "inner", Value: inner})

	live := rs.Reactive(outer).(*cellparty.Store)
	ro := rs.Readonly(live).(*cellparty.Store)

	got := ro.Get("inner")
	require.IsType(t, &cellparty.Store{}, got)
	assert.True(t, cellparty.IsReadonly(got))

	got.(*cellparty.Store).Set("x", 99)
	v, _ := inner.Get("x")
	assert.Equal(t, 1, v, "the backing container stays untouched")
	assert.Equal(t, 1, warnings)

	// reads through the nested readonly layer still track the live cell
	runs := 0
	var seen any
	rs.Effect(func() {
		runs++
		seen = got.(*cellparty.Store).Get("x")
	})
	live.Get("inner").(*cellparty.Store).Set("x", 2)
	assert.Equal(t, 2, runs)
	assert.Equal(t, 2, seen)
}

// should keep nested list elements readonly through a readonly-over-reactive view
func TestReadonlyOverReactiveListNesting(t *testing.T) {
	var warnings int
	rs := cellparty.CreateReactiveSystem(func(string, ...any) { warnings++ })
	innerRaw := cellparty.NewArray(1)
	live := rs.Reactive(cellparty.NewArray(innerRaw)).(*cellparty.List)
	ro := rs.Readonly(live).(*cellparty.List)

	got := ro.Get(0)
	require.IsType(t, &cellparty.List{}, got)
	assert.True(t, cellparty.IsReadonly(got))

	got.(*cellparty.List).Set(0, 99)
	v, _ := innerRaw.Get(0)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, warnings)

	values := ro.Values()
	assert.True(t, cellparty.IsReadonly(values[0]))
}
