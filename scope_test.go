package cellparty_test

import (
	"testing"

	"github.com/delaneyj/cellparty"
	"github.com/stretchr/testify/assert"
)

// should stop every effect created inside the scope at once
func TestScopeStopsOwnedEffects(t *testing.T) {
	rs := cellparty.CreateReactiveSystem(nil)
	a := rs.Ref(1)

	runs1, runs2 := 0, 0
	scope := rs.Scope(false)
	scope.Run(func() {
		rs.Effect(func() {
			runs1++
			a.Value()
		})
		rs.Effect(func() {
			runs2++
			a.Value()
		})
	})
	assert.Equal(t, 1, runs1)
	assert.Equal(t, 1, runs2)

	a.SetValue(2)
	assert.Equal(t, 2, runs1)
	assert.Equal(t, 2, runs2)

	scope.Stop()
	assert.False(t, scope.Active())
	a.SetValue(3)
	assert.Equal(t, 2, runs1)
	assert.Equal(t, 2, runs2)
}

// should stop nested scopes with their parent unless detached
func TestScopeNesting(t *testing.T) {
	rs := cellparty.CreateReactiveSystem(nil)
	a := rs.Ref(1)

	childRuns, detachedRuns := 0, 0
	parent := rs.Scope(false)
	parent.Run(func() {
		child := rs.Scope(false)
		child.Run(func() {
			rs.Effect(func() {
				childRuns++
				a.Value()
			})
		})
		detached := rs.Scope(true)
		detached.Run(func() {
			rs.Effect(func() {
				detachedRuns++
				a.Value()
			})
		})
	})

	parent.Stop()
	a.SetValue(2)
	assert.Equal(t, 1, childRuns, "nested scope went down with its parent")
	assert.Equal(t, 2, detachedRuns, "detached scope survived")
}

// should run dispose callbacks exactly once when the scope stops
func TestScopeDisposeCallbacks(t *testing.T) {
	rs := cellparty.CreateReactiveSystem(nil)

	disposed := 0
	scope := rs.Scope(false)
	scope.Run(func() {
		rs.OnScopeDispose(func() { disposed++ })
	})
	assert.Equal(t, 0, disposed)

	scope.Stop()
	assert.Equal(t, 1, disposed)
	scope.Stop()
	assert.Equal(t, 1, disposed)
}

// should warn when registering a dispose callback with no scope active
func TestScopeDisposeOutsideScopeWarns(t *testing.T) {
	var warnings int
	rs := cellparty.CreateReactiveSystem(func(string, ...any) { warnings++ })
	rs.OnScopeDispose(func() {})
	assert.Equal(t, 1, warnings)
}

// should own computeds created inside the scope too
func TestScopeStopsComputeds(t *testing.T) {
	rs := cellparty.CreateReactiveSystem(nil)
	a := rs.Ref(1)

	getterRuns := 0
	var c *cellparty.Computed
	scope := rs.Scope(false)
	scope.Run(func() {
		c = rs.Computed(func(_ any) any {
			getterRuns++
			return a.Value()
		})
	})
	assert.Equal(t, 1, c.Value())

	scope.Stop()
	a.SetValue(2)
	assert.Equal(t, 1, c.Value(), "stopped computed serves its cache")
	assert.Equal(t, 1, getterRuns)
}
