package cellparty

// Dep is the dependency set owned by a single state cell. It maps each
// subscribed effect to the epoch at which the effect last confirmed the edge,
// in subscription order so scheduling stays deterministic.
type Dep struct {
	subs    map[*ReactiveEffect]int
	order   []*ReactiveEffect
	cleanup func()

	// set when this dep is the value dep of a derived computation; changes
	// propagation policy, see triggerEffects.
	computed *Computed
}

func newDep(cleanup func(), computed *Computed) *Dep {
	return &Dep{
		subs:     map[*ReactiveEffect]int{},
		cleanup:  cleanup,
		computed: computed,
	}
}

func (d *Dep) get(e *ReactiveEffect) (int, bool) {
	trackID, ok := d.subs[e]
	return trackID, ok
}

func (d *Dep) set(e *ReactiveEffect, trackID int) {
	if _, ok := d.subs[e]; !ok {
		d.order = append(d.order, e)
	}
	d.subs[e] = trackID
}

func (d *Dep) delete(e *ReactiveEffect) {
	if _, ok := d.subs[e]; !ok {
		return
	}
	delete(d.subs, e)
	for i, sub := range d.order {
		if sub == e {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

func (d *Dep) size() int {
	return len(d.subs)
}

// snapshot returns the subscribers in subscription order, safe to walk while
// the dep is being mutated.
func (d *Dep) snapshot() []*ReactiveEffect {
	out := make([]*ReactiveEffect, len(d.order))
	copy(out, d.order)
	return out
}
