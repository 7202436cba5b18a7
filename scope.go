package cellparty

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// EffectScope collects every effect created while it is active so they can
// all be stopped together. Scopes nest; stopping a scope stops its child
// scopes too, unless a child was created detached.
type EffectScope struct {
	rs       *ReactiveSystem
	active   bool
	parent   *EffectScope
	effects  mapset.Set[*ReactiveEffect]
	scopes   mapset.Set[*EffectScope]
	cleanups []func()
}

// Scope creates an effect scope. A detached scope does not register with the
// currently active scope and survives its Stop.
func (rs *ReactiveSystem) Scope(detached bool) *EffectScope {
	s := &EffectScope{
		rs:      rs,
		active:  true,
		effects: mapset.NewThreadUnsafeSet[*ReactiveEffect](),
		scopes:  mapset.NewThreadUnsafeSet[*EffectScope](),
	}
	if !detached && rs.activeScope != nil {
		s.parent = rs.activeScope
		rs.activeScope.scopes.Add(s)
	}
	return s
}

// Run executes fn with this scope active, so every effect and computed
// created inside is owned by the scope.
func (s *EffectScope) Run(fn func()) {
	if !s.active {
		s.rs.warn("cannot run an inactive effect scope")
		return
	}
	prev := s.rs.activeScope
	s.rs.activeScope = s
	defer func() { s.rs.activeScope = prev }()
	fn()
}

// Stop stops every owned effect and child scope, then runs the dispose
// callbacks. Idempotent.
func (s *EffectScope) Stop() {
	if !s.active {
		return
	}
	s.active = false
	for e := range s.effects.Iter() {
		e.Stop()
	}
	s.effects.Clear()
	for child := range s.scopes.Iter() {
		child.Stop()
	}
	s.scopes.Clear()
	for _, cleanup := range s.cleanups {
		cleanup()
	}
	s.cleanups = nil
	if s.parent != nil {
		s.parent.scopes.Remove(s)
		s.parent = nil
	}
}

// Active reports whether the scope can still own effects.
func (s *EffectScope) Active() bool {
	return s.active
}

// OnScopeDispose registers fn to run when the currently active scope stops.
func (rs *ReactiveSystem) OnScopeDispose(fn func()) {
	if rs.activeScope == nil {
		rs.warn("OnScopeDispose called outside an active effect scope")
		return
	}
	rs.activeScope.cleanups = append(rs.activeScope.cleanups, fn)
}
