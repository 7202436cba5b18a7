package cellparty

// Ref is a single-value box. Reading it records a dependency on its one
// cell; writing a changed value notifies subscribers. Deep refs wrap
// container values reactively on assignment.
type Ref struct {
	rs       *ReactiveSystem
	dep      *Dep
	value    any
	rawValue any
	shallow  bool
}

// Ref boxes value with deep wrapping of container values.
func (rs *ReactiveSystem) Ref(value any) *Ref {
	return newRef(rs, value, false)
}

// ShallowRef boxes value as-is; only replacing the whole value notifies.
func (rs *ReactiveSystem) ShallowRef(value any) *Ref {
	return newRef(rs, value, true)
}

func newRef(rs *ReactiveSystem, value any, shallow bool) *Ref {
	r := &Ref{rs: rs, shallow: shallow}
	if shallow {
		r.rawValue = value
		r.value = value
	} else {
		r.rawValue = ToRaw(value)
		r.value = rs.toReactive(value)
	}
	return r
}

func (r *Ref) Value() any {
	r.track()
	return r.value
}

func (r *Ref) SetValue(value any) {
	useDirect := r.shallow || IsShallow(value) || IsReadonly(value)
	if !useDirect {
		value = ToRaw(value)
	}
	if !hasChanged(value, r.rawValue) {
		return
	}
	r.rawValue = value
	if useDirect {
		r.value = value
	} else {
		r.value = r.rs.toReactive(value)
	}
	r.trigger(Dirty)
}

func (r *Ref) track() {
	rs := r.rs
	if !rs.shouldTrack || rs.activeEffect == nil {
		return
	}
	if r.dep == nil {
		r.dep = newDep(func() { r.dep = nil }, nil)
	}
	rs.trackEffect(rs.activeEffect, r.dep, func() TrackEvent {
		return TrackEvent{Target: r, Type: TrackGet, Key: "value", Effect: rs.activeEffect}
	})
}

func (r *Ref) trigger(level DirtyLevel) {
	if r.dep == nil {
		return
	}
	r.rs.triggerEffects(r.dep, level)
}
