package cellparty

// ReactiveEffect is one re-runnable unit of work. Running it records the
// cells it reads; changing any of those cells later raises its dirty level
// and, depending on the level, re-schedules it.
type ReactiveEffect struct {
	rs *ReactiveSystem

	fn        func() any
	notify    func()
	scheduler func()
	onStop    func()

	deps       []*Dep
	depsLength int
	trackID    int
	runnings   int

	dirtyLevel     DirtyLevel
	shouldSchedule bool
	allowRecurse   bool
	active         bool

	// set when this effect backs a derived value
	computed *Computed
}

// NewReactiveEffect creates an effect around fn. notify fires the moment
// propagation decides the effect must eventually re-run; scheduler is the
// deferred callback queued for after the current propagation pass. Either may
// be nil. The effect does not run until Run is called.
func NewReactiveEffect(rs *ReactiveSystem, fn func() any, notify, scheduler func()) *ReactiveEffect {
	e := &ReactiveEffect{
		rs:         rs,
		fn:         fn,
		notify:     notify,
		scheduler:  scheduler,
		dirtyLevel: Dirty,
		active:     true,
	}
	if scope := rs.activeScope; scope != nil && scope.active {
		scope.effects.Add(e)
	}
	return e
}

// Dirty resolves the effect's current dirty level to a firm yes or no. A
// MaybeDirty level forces every upstream derived value this effect reads to
// settle first; the level escalates to Dirty as soon as one of them actually
// changed.
func (e *ReactiveEffect) Dirty() bool {
	switch e.dirtyLevel {
	case MaybeDirtyComputedSideEffectOrigin:
		// mid-evaluation invalidation resolves through the computed itself,
		// treating it as dirty here would re-trigger it against itself
		return false
	case MaybeDirtyComputedSideEffect, MaybeDirty:
		e.dirtyLevel = QueryingDirty
		e.rs.PauseTracking()
		defer e.rs.ResetTracking()
		for i := 0; i < e.depsLength; i++ {
			dep := e.deps[i]
			if dep.computed == nil {
				continue
			}
			if dep.computed.effect.dirtyLevel == MaybeDirtyComputedSideEffectOrigin {
				e.dirtyLevel = Dirty
				break
			}
			dep.computed.Value()
			if e.dirtyLevel >= Dirty {
				break
			}
		}
		if e.dirtyLevel == QueryingDirty {
			e.dirtyLevel = NotDirty
		}
	}
	return e.dirtyLevel >= Dirty
}

// Run executes the body. A stopped effect still executes but records no
// dependencies. Edges not re-confirmed during the run are pruned afterwards.
func (e *ReactiveEffect) Run() any {
	e.dirtyLevel = NotDirty
	if !e.active {
		return e.fn()
	}
	rs := e.rs
	lastShouldTrack := rs.shouldTrack
	lastEffect := rs.activeEffect
	rs.shouldTrack = true
	rs.activeEffect = e
	e.runnings++
	e.preCleanup()
	defer func() {
		e.postCleanup()
		e.runnings--
		rs.activeEffect = lastEffect
		rs.shouldTrack = lastShouldTrack
	}()
	return e.fn()
}

// Stop detaches the effect from every dependency set and marks it
// permanently inactive. Idempotent; reachable effects may still be Run
// manually afterwards, just without tracking.
func (e *ReactiveEffect) Stop() {
	if !e.active {
		return
	}
	e.preCleanup()
	e.postCleanup()
	if e.onStop != nil {
		e.onStop()
	}
	e.active = false
}

// Active reports whether the effect may still be scheduled.
func (e *ReactiveEffect) Active() bool {
	return e.active
}

func (e *ReactiveEffect) preCleanup() {
	e.trackID++
	e.depsLength = 0
}

func (e *ReactiveEffect) postCleanup() {
	if len(e.deps) > e.depsLength {
		for i := e.depsLength; i < len(e.deps); i++ {
			cleanupDepEffect(e.deps[i], e)
		}
		e.deps = e.deps[:e.depsLength]
	}
}

func cleanupDepEffect(dep *Dep, e *ReactiveEffect) {
	trackID, ok := dep.get(e)
	if ok && trackID != e.trackID {
		dep.delete(e)
		if dep.size() == 0 && dep.cleanup != nil {
			dep.cleanup()
		}
	}
}

type effectConfig struct {
	lazy         bool
	scheduler    func()
	allowRecurse bool
	onStop       func()
}

// EffectOption tweaks how Effect sets up its ReactiveEffect.
type EffectOption func(*effectConfig)

// Lazy prevents the initial synchronous run; the caller runs the returned
// effect itself.
func Lazy() EffectOption {
	return func(cfg *effectConfig) { cfg.lazy = true }
}

// Scheduler replaces the default re-run scheduler.
func Scheduler(fn func()) EffectOption {
	return func(cfg *effectConfig) { cfg.scheduler = fn }
}

// AllowRecurse lets an effect re-schedule itself from its own run.
func AllowRecurse() EffectOption {
	return func(cfg *effectConfig) { cfg.allowRecurse = true }
}

// OnStop registers a teardown callback invoked once when the effect stops.
func OnStop(fn func()) EffectOption {
	return func(cfg *effectConfig) { cfg.onStop = fn }
}

// Effect runs fn immediately, tracking every cell it reads, and re-runs it
// whenever one of them changes.
func (rs *ReactiveSystem) Effect(fn func(), opts ...EffectOption) *ReactiveEffect {
	cfg := &effectConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	e := NewReactiveEffect(rs, func() any { fn(); return nil }, nil, nil)
	e.allowRecurse = cfg.allowRecurse
	e.onStop = cfg.onStop
	if cfg.scheduler != nil {
		e.scheduler = cfg.scheduler
	} else {
		e.scheduler = func() {
			if e.Dirty() {
				e.Run()
			}
		}
	}
	if !cfg.lazy {
		e.Run()
	}
	return e
}
