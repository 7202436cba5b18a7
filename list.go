package cellparty

// Array is the raw backing container behind a List: a plain ordered sequence
// with no engine state.
type Array struct {
	items []any
}

func NewArray(items ...any) *Array {
	return &Array{items: items}
}

func (a *Array) Len() int {
	return len(a.items)
}

func (a *Array) Get(i int) (any, bool) {
	if i < 0 || i >= len(a.items) {
		return nil, false
	}
	return a.items[i], true
}

// Set grows the array with nil holes when i is past the end.
func (a *Array) Set(i int, value any) {
	if i < 0 {
		return
	}
	for len(a.items) <= i {
		a.items = append(a.items, nil)
	}
	a.items[i] = value
}

func (a *Array) SetLen(n int) {
	if n < 0 {
		n = 0
	}
	for len(a.items) < n {
		a.items = append(a.items, nil)
	}
	a.items = a.items[:n]
}

// Slice returns a copy of the backing items.
func (a *Array) Slice() []any {
	out := make([]any, len(a.items))
	copy(out, a.items)
	return out
}

// List is the intercepted view over an Array. Index reads track individual
// index cells; iteration tracks the length marker so only length changes
// invalidate it. Boxed references stored at integer indexes are returned as
// the box itself, never unwrapped.
type List struct {
	rs       *ReactiveSystem
	target   any // *Array, or an inner *List for readonly views
	readonly bool
	shallow  bool
}

func (l *List) array() *Array {
	return ToRaw(l).(*Array)
}

// Len reads the length cell.
func (l *List) Len() int {
	switch target := l.target.(type) {
	case *List:
		return target.Len()
	case *Array:
		if !l.readonly {
			l.rs.Track(target, TrackGet, lengthKey)
		}
		return target.Len()
	}
	return 0
}

// Get reads index i, tracking it as its own cell.
func (l *List) Get(i int) any {
	var res any
	switch target := l.target.(type) {
	case *List:
		res = target.Get(i)
	case *Array:
		if !l.readonly {
			l.rs.Track(target, TrackGet, indexKey(i))
		}
		res, _ = target.Get(i)
	}
	if l.shallow {
		return res
	}
	if l.readonly {
		return l.rs.toReadonly(res)
	}
	return l.rs.toReactive(res)
}

// Set writes index i; writing one past the end appends.
func (l *List) Set(i int, value any) bool {
	if l.readonly {
		l.rs.warn("Set operation on index %d failed: target is readonly", i)
		return true
	}
	if i < 0 {
		return false
	}
	raw := l.array()
	oldValue, _ := raw.Get(i)
	if !l.shallow && !IsShallow(value) && !IsReadonly(value) {
		oldValue = ToRaw(oldValue)
		value = ToRaw(value)
	}
	hadKey := i < raw.Len()
	raw.Set(i, value)
	if !hadKey {
		l.rs.Trigger(raw, TriggerAdd, indexKey(i), value, nil)
	} else if hasChanged(value, oldValue) {
		l.rs.Trigger(raw, TriggerSet, indexKey(i), value, oldValue)
	}
	return true
}

// Delete clears index i to nil without shifting, notifying key removal.
func (l *List) Delete(i int) bool {
	if l.readonly {
		l.rs.warn("Delete operation on index %d failed: target is readonly", i)
		return true
	}
	raw := l.array()
	oldValue, ok := raw.Get(i)
	if !ok {
		return true
	}
	raw.Set(i, nil)
	if oldValue != nil {
		l.rs.Trigger(raw, TriggerDelete, indexKey(i), nil, oldValue)
	}
	return true
}

// Has records a presence-check dependency on index i.
func (l *List) Has(i int) bool {
	switch target := l.target.(type) {
	case *List:
		return target.Has(i)
	case *Array:
		if !l.readonly {
			l.rs.Track(target, TrackHas, indexKey(i))
		}
		return i >= 0 && i < target.Len()
	}
	return false
}

// Values reads every element, tracking iteration via the length marker plus
// each index cell.
func (l *List) Values() []any {
	raw := l.array()
	if inner, ok := l.target.(*List); ok {
		values := inner.Values()
		if l.shallow {
			return values
		}
		for i, v := range values {
			values[i] = l.rs.toReadonly(v)
		}
		return values
	}
	if !l.readonly {
		l.rs.Track(raw, TrackIterate, lengthKey)
	}
	values := make([]any, raw.Len())
	for i := range values {
		values[i] = l.Get(i)
	}
	return values
}

// SetLength truncates or grows the list, invalidating every index cell cut
// off by a shrink.
func (l *List) SetLength(n int) {
	if l.readonly {
		l.rs.warn("Set operation on length failed: target is readonly")
		return
	}
	raw := l.array()
	oldLen := raw.Len()
	if n == oldLen {
		return
	}
	raw.SetLen(n)
	l.rs.Trigger(raw, TriggerSet, lengthKey, n, oldLen)
}

// searchTrack registers a read dependency on every index, since an identity
// search depends on every slot's value, not just the slot it lands on.
func (l *List) searchTrack() *Array {
	if inner, ok := l.target.(*List); ok {
		return inner.searchTrack()
	}
	raw := l.array()
	if !l.readonly {
		for i := 0; i < raw.Len(); i++ {
			l.rs.Track(raw, TrackGet, indexKey(i))
		}
	}
	return raw
}

// Includes searches with the given value first, then once more with the value
// unwrapped to raw, so wrapped and raw forms both match. NaN matches itself.
func (l *List) Includes(value any) bool {
	raw := l.searchTrack()
	if search(raw.items, value, false, true) >= 0 {
		return true
	}
	if IsWrapper(value) {
		return search(raw.items, ToRaw(value), false, true) >= 0
	}
	return false
}

// IndexOf behaves like Includes but reports the position.
func (l *List) IndexOf(value any) int {
	raw := l.searchTrack()
	if idx := search(raw.items, value, false, false); idx >= 0 {
		return idx
	}
	if IsWrapper(value) {
		return search(raw.items, ToRaw(value), false, false)
	}
	return -1
}

// LastIndexOf behaves like IndexOf scanning from the tail.
func (l *List) LastIndexOf(value any) int {
	raw := l.searchTrack()
	if idx := search(raw.items, value, true, false); idx >= 0 {
		return idx
	}
	if IsWrapper(value) {
		return search(raw.items, ToRaw(value), true, false)
	}
	return -1
}

// Push appends values and returns the new length.
func (l *List) Push(values ...any) int {
	if l.readonly {
		l.rs.warn("Push operation failed: target is readonly")
		return l.array().Len()
	}
	raw := l.mutate(func(items []any) []any {
		return append(items, l.convertAll(values)...)
	})
	return raw.Len()
}

// Pop removes and returns the last element.
func (l *List) Pop() any {
	if l.readonly {
		l.rs.warn("Pop operation failed: target is readonly")
		return nil
	}
	var popped any
	l.mutate(func(items []any) []any {
		if len(items) == 0 {
			return items
		}
		popped = items[len(items)-1]
		return items[:len(items)-1]
	})
	return popped
}

// Shift removes and returns the first element.
func (l *List) Shift() any {
	if l.readonly {
		l.rs.warn("Shift operation failed: target is readonly")
		return nil
	}
	var shifted any
	l.mutate(func(items []any) []any {
		if len(items) == 0 {
			return items
		}
		shifted = items[0]
		return items[1:]
	})
	return shifted
}

// Unshift prepends values and returns the new length.
func (l *List) Unshift(values ...any) int {
	if l.readonly {
		l.rs.warn("Unshift operation failed: target is readonly")
		return l.array().Len()
	}
	raw := l.mutate(func(items []any) []any {
		return append(l.convertAll(values), items...)
	})
	return raw.Len()
}

// Splice removes deleteCount elements at start, inserts values there, and
// returns the removed elements.
func (l *List) Splice(start, deleteCount int, values ...any) []any {
	if l.readonly {
		l.rs.warn("Splice operation failed: target is readonly")
		return nil
	}
	var removed []any
	l.mutate(func(items []any) []any {
		n := len(items)
		if start < 0 {
			start = max(n+start, 0)
		} else if start > n {
			start = n
		}
		deleteCount = min(max(deleteCount, 0), n-start)

		removed = make([]any, deleteCount)
		copy(removed, items[start:start+deleteCount])

		out := make([]any, 0, n-deleteCount+len(values))
		out = append(out, items[:start]...)
		out = append(out, l.convertAll(values)...)
		out = append(out, items[start+deleteCount:]...)
		return out
	})
	return removed
}

// mutate runs a length-mutating rewrite against the raw backing with
// tracking and scheduling suspended, the internal length reads must not
// register and the fan-out must not dispatch mid-rewrite, then emits change
// notifications for every slot that actually changed.
func (l *List) mutate(rewrite func(items []any) []any) *Array {
	rs := l.rs
	rs.PauseTracking()
	rs.PauseScheduling()
	defer func() {
		rs.ResetScheduling()
		rs.ResetTracking()
	}()

	raw := l.array()
	before := raw.Slice()
	raw.items = rewrite(raw.items)
	after := raw.items

	shared := min(len(before), len(after))
	for i := 0; i < shared; i++ {
		if hasChanged(after[i], before[i]) {
			rs.Trigger(raw, TriggerSet, indexKey(i), after[i], before[i])
		}
	}
	for i := len(before); i < len(after); i++ {
		rs.Trigger(raw, TriggerAdd, indexKey(i), after[i], nil)
	}
	for i := len(after); i < len(before); i++ {
		rs.Trigger(raw, TriggerDelete, indexKey(i), nil, before[i])
	}
	if len(before) != len(after) {
		rs.Trigger(raw, TriggerSet, lengthKey, len(after), len(before))
	}
	return raw
}

func (l *List) convertAll(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if !l.shallow && !IsShallow(v) && !IsReadonly(v) {
			v = ToRaw(v)
		}
		out[i] = v
	}
	return out
}

// search scans items for value. sameValueZero makes NaN match itself, the
// Includes rule; IndexOf keeps strict inequality for NaN.
func search(items []any, value any, fromEnd, sameValueZero bool) int {
	matches := func(item any) bool {
		if !sameValueZero && (isNaNValue(item) || isNaNValue(value)) {
			return false
		}
		return !hasChanged(item, value)
	}
	if fromEnd {
		for i := len(items) - 1; i >= 0; i-- {
			if matches(items[i]) {
				return i
			}
		}
		return -1
	}
	for i, item := range items {
		if matches(item) {
			return i
		}
	}
	return -1
}

func isNaNValue(v any) bool {
	f, ok := v.(float64)
	return ok && f != f
}
