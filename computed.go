package cellparty

// Computed is a derived value: a memoized getter backed by a ReactiveEffect.
// It recomputes only when read while actually dirty, and notifies its own
// readers with a MaybeDirty level so they can stay lazy in turn.
type Computed struct {
	rs     *ReactiveSystem
	effect *ReactiveEffect
	dep    *Dep
	value  any
	getter func(oldValue any) any
}

// Computed builds a derived value over getter. The getter receives the
// previously computed value, nil on the first run, and is not invoked until
// the first read.
func (rs *ReactiveSystem) Computed(getter func(oldValue any) any) *Computed {
	c := &Computed{rs: rs, getter: getter}
	c.effect = NewReactiveEffect(rs,
		func() any { return c.getter(c.value) },
		func() {
			// readers of an invalidated computed only learn "maybe"; the
			// chained side-effect level survives so downstream queries can
			// tell the two apart
			level := MaybeDirty
			if c.effect.dirtyLevel == MaybeDirtyComputedSideEffectOrigin ||
				c.effect.dirtyLevel == MaybeDirtyComputedSideEffect {
				level = MaybeDirtyComputedSideEffect
			}
			c.trigger(level)
		},
		nil)
	c.effect.computed = c
	return c
}

// Value resolves dirtiness, recomputing at most once, and broadcasts Dirty to
// readers only when the recomputed value actually differs.
func (c *Computed) Value() any {
	if c.effect.Dirty() {
		newValue := c.effect.Run()
		if hasChanged(c.value, newValue) {
			c.value = newValue
			c.trigger(Dirty)
		}
	}
	c.track()
	if c.effect.dirtyLevel >= MaybeDirtyComputedSideEffectOrigin {
		c.trigger(MaybeDirtyComputedSideEffect)
	}
	return c.value
}

// Stop detaches the backing effect; the memoized value stays readable.
func (c *Computed) Stop() {
	c.effect.Stop()
}

func (c *Computed) track() {
	rs := c.rs
	if !rs.shouldTrack || rs.activeEffect == nil {
		return
	}
	if c.dep == nil {
		c.dep = newDep(func() { c.dep = nil }, c)
	}
	rs.trackEffect(rs.activeEffect, c.dep, func() TrackEvent {
		return TrackEvent{Target: c, Type: TrackGet, Key: "value", Effect: rs.activeEffect}
	})
}

func (c *Computed) trigger(level DirtyLevel) {
	if c.dep == nil {
		return
	}
	c.rs.triggerEffects(c.dep, level)
}
