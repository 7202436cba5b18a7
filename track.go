package cellparty

// Track records that the active effect depends on the (target, key) cell.
// No-op when tracking is paused or no effect is running.
func (rs *ReactiveSystem) Track(target any, typ TrackOpType, key string) {
	if !rs.shouldTrack || rs.activeEffect == nil {
		return
	}
	depsMap := rs.targetMap[target]
	if depsMap == nil {
		depsMap = map[string]*Dep{}
		rs.targetMap[target] = depsMap
	}
	dep := depsMap[key]
	if dep == nil {
		dep = newDep(func() {
			delete(depsMap, key)
			if len(depsMap) == 0 {
				delete(rs.targetMap, target)
			}
		}, nil)
		depsMap[key] = dep
	}
	rs.trackEffect(rs.activeEffect, dep, func() TrackEvent {
		return TrackEvent{Target: target, Type: typ, Key: key, Effect: rs.activeEffect}
	})
}

// trackEffect confirms the edge between e and dep for e's current run. List
// slots are kept stable when the dependency order repeats across runs; a slot
// that held a different dep releases that stale edge on the spot.
func (rs *ReactiveSystem) trackEffect(e *ReactiveEffect, dep *Dep, event func() TrackEvent) {
	if trackID, ok := dep.get(e); ok && trackID == e.trackID {
		return
	}
	dep.set(e, e.trackID)
	var oldDep *Dep
	if e.depsLength < len(e.deps) {
		oldDep = e.deps[e.depsLength]
	}
	if oldDep != dep {
		if oldDep != nil {
			cleanupDepEffect(oldDep, e)
		}
		if e.depsLength < len(e.deps) {
			e.deps[e.depsLength] = dep
		} else {
			e.deps = append(e.deps, dep)
		}
	}
	e.depsLength++
	if rs.OnTrack != nil && event != nil {
		rs.OnTrack(event())
	}
}
