package cellparty

// Object is a plain string-keyed record, the raw backing container behind a
// Store. It preserves key insertion order and carries no engine state of its
// own.
type Object struct {
	entries map[string]any
	keys    []string
}

func NewObject() *Object {
	return &Object{entries: map[string]any{}}
}

// ObjectOf builds an Object from entries; iteration order follows the order
// of the pairs.
func ObjectOf(pairs ...Entry) *Object {
	o := NewObject()
	for _, p := range pairs {
		o.Set(p.Key, p.Value)
	}
	return o
}

type Entry struct {
	Key   string
	Value any
}

func (o *Object) Get(key string) (any, bool) {
	v, ok := o.entries[key]
	return v, ok
}

func (o *Object) Set(key string, value any) {
	if _, ok := o.entries[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.entries[key] = value
}

func (o *Object) Delete(key string) bool {
	if _, ok := o.entries[key]; !ok {
		return false
	}
	delete(o.entries, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

func (o *Object) Has(key string) bool {
	_, ok := o.entries[key]
	return ok
}

func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o *Object) Len() int {
	return len(o.entries)
}

// Store is the intercepted view over an Object. Reads record dependencies,
// writes and deletes notify subscribers; readonly stores reject mutation
// through the warn sink while still reporting structural success.
type Store struct {
	rs       *ReactiveSystem
	target   any // *Object, or an inner *Store for readonly views
	readonly bool
	shallow  bool
}

func (s *Store) object() *Object {
	return ToRaw(s).(*Object)
}

// Get reads key. Reserved flag keys answer without tracking; ordinary reads
// track, unwrap boxed references, and lazily wrap nested containers in the
// store's own mode.
func (s *Store) Get(key string) any {
	switch key {
	case KeyRaw:
		return s.target
	case KeyIsReactive:
		return !s.readonly
	case KeyIsReadonly:
		return s.readonly
	case KeyIsShallow:
		return s.shallow
	}

	raw := s.object()
	var res any
	var ok bool
	switch target := s.target.(type) {
	case *Object:
		if !s.readonly {
			s.rs.Track(raw, TrackGet, key)
		}
		res, ok = target.Get(key)
		if !ok {
			return nil
		}
	case *Store:
		// delegating keeps the inner mutable store tracking
		if !raw.Has(key) {
			target.Get(key)
			return nil
		}
		res = target.Get(key)
	}

	if s.shallow {
		return res
	}
	switch boxed := res.(type) {
	case *Ref:
		return boxed.Value()
	case *Computed:
		return boxed.Value()
	}
	if s.readonly {
		return s.rs.toReadonly(res)
	}
	return s.rs.toReactive(res)
}

// Set writes key. In deep mode raw values are compared and stored, and a
// write over an existing boxed reference forwards into the box instead of
// replacing it, failing if the box is a derived value.
func (s *Store) Set(key string, value any) bool {
	if s.readonly {
		s.rs.warn("Set operation on key %q failed: target is readonly", key)
		return true
	}
	raw := s.object()
	oldValue, hadKey := raw.Get(key)

	if !s.shallow {
		if !IsShallow(value) && !IsReadonly(value) {
			oldValue = ToRaw(oldValue)
			value = ToRaw(value)
		}
		if !IsRef(value) {
			switch box := oldValue.(type) {
			case *Computed:
				s.rs.warn("Set operation on key %q failed: boxed value is readonly", key)
				return false
			case *Ref:
				box.SetValue(value)
				return true
			}
		}
	}

	raw.Set(key, value)
	if !hadKey {
		s.rs.Trigger(raw, TriggerAdd, key, value, nil)
	} else if hasChanged(value, oldValue) {
		s.rs.Trigger(raw, TriggerSet, key, value, oldValue)
	}
	return true
}

// Delete removes key, notifying only when something was actually removed.
func (s *Store) Delete(key string) bool {
	if s.readonly {
		s.rs.warn("Delete operation on key %q failed: target is readonly", key)
		return true
	}
	raw := s.object()
	oldValue, hadKey := raw.Get(key)
	deleted := raw.Delete(key)
	if hadKey && deleted {
		s.rs.Trigger(raw, TriggerDelete, key, nil, oldValue)
	}
	return true
}

// Has records a presence-check dependency on key.
func (s *Store) Has(key string) bool {
	switch target := s.target.(type) {
	case *Store:
		return target.Has(key)
	case *Object:
		if !s.readonly {
			s.rs.Track(target, TrackHas, key)
		}
		return target.Has(key)
	}
	return false
}

// Keys records an iteration dependency and returns the current key set. Adds
// and deletes invalidate it; plain value writes do not.
func (s *Store) Keys() []string {
	switch target := s.target.(type) {
	case *Store:
		return target.Keys()
	case *Object:
		if !s.readonly {
			s.rs.Track(target, TrackIterate, iterateKey)
		}
		return target.Keys()
	}
	return nil
}
