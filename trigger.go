package cellparty

// Trigger notifies every effect subscribed to the (target, key) cell that it
// changed. Adds and deletes additionally invalidate iteration dependencies;
// shrinking an Array through its length marker invalidates the truncated
// index cells.
func (rs *ReactiveSystem) Trigger(target any, typ TriggerOpType, key string, newValue, oldValue any) {
	if rs.OnTrigger != nil {
		rs.OnTrigger(TriggerEvent{
			Target:   target,
			Type:     typ,
			Key:      key,
			NewValue: newValue,
			OldValue: oldValue,
		})
	}
	depsMap := rs.targetMap[target]
	if depsMap == nil {
		return
	}

	_, isArray := target.(*Array)

	var deps []*Dep
	switch {
	case typ == TriggerClear:
		for _, dep := range depsMap {
			deps = append(deps, dep)
		}
	case isArray && key == lengthKey:
		newLength, _ := newValue.(int)
		for k, dep := range depsMap {
			if k == lengthKey {
				deps = append(deps, dep)
			} else if idx, ok := indexOfKey(k); ok && idx >= newLength {
				deps = append(deps, dep)
			}
		}
	default:
		if dep, ok := depsMap[key]; ok {
			deps = append(deps, dep)
		}
		switch typ {
		case TriggerAdd:
			if !isArray {
				if dep, ok := depsMap[iterateKey]; ok {
					deps = append(deps, dep)
				}
			} else if _, ok := indexOfKey(key); ok {
				if dep, ok := depsMap[lengthKey]; ok {
					deps = append(deps, dep)
				}
			}
		case TriggerDelete:
			if !isArray {
				if dep, ok := depsMap[iterateKey]; ok {
					deps = append(deps, dep)
				}
			}
		}
	}

	rs.PauseScheduling()
	for _, dep := range deps {
		rs.triggerEffects(dep, Dirty)
	}
	rs.ResetScheduling()
}

// triggerEffects walks one dependency set and raises subscriber dirty levels,
// queueing schedulers for the effects that must re-run. Scheduling stays
// paused for the whole walk so a subscriber is dispatched at most once per
// pass.
func (rs *ReactiveSystem) triggerEffects(dep *Dep, dirtyLevel DirtyLevel) {
	rs.PauseScheduling()
	for _, e := range dep.snapshot() {
		// the epoch lookup is the expensive part, resolve it at most once
		// per subscriber
		var tracking *bool
		epochValid := func() bool {
			if tracking == nil {
				valid := false
				if trackID, ok := dep.get(e); ok {
					valid = trackID == e.trackID
				}
				tracking = &valid
			}
			return *tracking
		}

		// a computed invalidated from a plain cell while it is itself
		// mid-run was dirtied by its own side effects; mark it and let its
		// own evaluation settle it, anything more loops forever
		if dep.computed == nil && e.computed != nil && e.runnings > 0 && epochValid() {
			e.dirtyLevel = MaybeDirtyComputedSideEffectOrigin
			continue
		}

		if e.dirtyLevel < dirtyLevel && epochValid() {
			e.shouldSchedule = e.shouldSchedule ||
				e.dirtyLevel == NotDirty ||
				e.dirtyLevel == MaybeDirtyComputedSideEffectOrigin
			e.dirtyLevel = dirtyLevel
		}

		if e.shouldSchedule && epochValid() {
			if e.notify != nil {
				e.notify()
			}
			if (e.runnings == 0 || e.allowRecurse) &&
				e.dirtyLevel != MaybeDirtyComputedSideEffectOrigin {
				e.shouldSchedule = false
				if e.scheduler != nil {
					rs.queuedSchedulers = append(rs.queuedSchedulers, e.scheduler)
				}
			}
		}
	}
	rs.ResetScheduling()
}
