package cellparty

// WarnFunc receives non-fatal diagnostics, such as writes against readonly
// wrappers. A nil sink silences them.
type WarnFunc func(format string, args ...any)

// TrackEvent is handed to OnTrack each time a read dependency is recorded.
type TrackEvent struct {
	Target any
	Type   TrackOpType
	Key    string
	Effect *ReactiveEffect
}

// TriggerEvent is handed to OnTrigger each time a change notification fans
// out.
type TriggerEvent struct {
	Target   any
	Type     TriggerOpType
	Key      string
	NewValue any
	OldValue any
}

// ReactiveSystem owns every piece of engine state: the active effect, the
// tracking flag and its save/restore stack, the scheduling pause depth with
// its pending scheduler queue, the per-cell dependency side-table and the
// wrap registries. All of it is unsynchronized; a system must only ever be
// driven from one goroutine at a time, re-entrancy being the only supported
// form of concurrency.
type ReactiveSystem struct {
	activeEffect *ReactiveEffect
	activeScope  *EffectScope

	shouldTrack bool
	trackStack  []bool

	pauseScheduleDepth int
	queuedSchedulers   []func()

	// dependency sets keyed by raw container identity, then by key
	targetMap map[any]map[string]*Dep

	reactiveRegistry        map[any]any
	readonlyRegistry        map[any]any
	shallowReactiveRegistry map[any]any
	shallowReadonlyRegistry map[any]any

	onWarn WarnFunc

	// debug hooks, nil in normal operation
	OnTrack   func(TrackEvent)
	OnTrigger func(TriggerEvent)
}

func CreateReactiveSystem(onWarn WarnFunc) *ReactiveSystem {
	return &ReactiveSystem{
		shouldTrack:             true,
		targetMap:               map[any]map[string]*Dep{},
		reactiveRegistry:        map[any]any{},
		readonlyRegistry:        map[any]any{},
		shallowReactiveRegistry: map[any]any{},
		shallowReadonlyRegistry: map[any]any{},
		onWarn:                  onWarn,
	}
}

func (rs *ReactiveSystem) warn(format string, args ...any) {
	if rs.onWarn != nil {
		rs.onWarn(format, args...)
	}
}

// PauseTracking stops read dependencies from being recorded until the
// matching ResetTracking.
func (rs *ReactiveSystem) PauseTracking() {
	rs.trackStack = append(rs.trackStack, rs.shouldTrack)
	rs.shouldTrack = false
}

// EnableTracking force-enables dependency recording until the matching
// ResetTracking.
func (rs *ReactiveSystem) EnableTracking() {
	rs.trackStack = append(rs.trackStack, rs.shouldTrack)
	rs.shouldTrack = true
}

// ResetTracking restores the tracking flag saved by the last PauseTracking or
// EnableTracking.
func (rs *ReactiveSystem) ResetTracking() {
	n := len(rs.trackStack)
	if n == 0 {
		rs.shouldTrack = true
		return
	}
	rs.shouldTrack = rs.trackStack[n-1]
	rs.trackStack = rs.trackStack[:n-1]
}

// Untrack runs fn with tracking paused.
func (rs *ReactiveSystem) Untrack(fn func()) {
	rs.PauseTracking()
	defer rs.ResetTracking()
	fn()
}

// PauseScheduling defers scheduler callbacks; they queue up until the pause
// depth returns to zero.
func (rs *ReactiveSystem) PauseScheduling() {
	rs.pauseScheduleDepth++
}

// ResetScheduling undoes one PauseScheduling and, once the depth reaches
// zero, drains the pending schedulers in enqueue order. Schedulers enqueued
// by a draining scheduler are dispatched within the same drain.
func (rs *ReactiveSystem) ResetScheduling() {
	rs.pauseScheduleDepth--
	for rs.pauseScheduleDepth == 0 && len(rs.queuedSchedulers) > 0 {
		scheduler := rs.queuedSchedulers[0]
		rs.queuedSchedulers = rs.queuedSchedulers[1:]
		scheduler()
	}
}

// StartBatch suspends effect scheduling until the matching EndBatch.
func (rs *ReactiveSystem) StartBatch() {
	rs.PauseScheduling()
}

// EndBatch ends the innermost batch; closing the outermost batch flushes
// every deferred effect.
func (rs *ReactiveSystem) EndBatch() {
	rs.ResetScheduling()
}

func (rs *ReactiveSystem) Batch(fn func()) {
	rs.StartBatch()
	defer rs.EndBatch()
	fn()
}
