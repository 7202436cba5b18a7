package cellparty

// Reactive wraps a raw *Object or *Array in a deep mutable tracked handle.
// Wrapping the same raw container twice returns the identical handle;
// wrapping an existing handle returns it unchanged.
func (rs *ReactiveSystem) Reactive(target any) any {
	return rs.createWrapper(target, false, false, rs.reactiveRegistry)
}

// ShallowReactive is Reactive without nested wrapping or ref unwrapping.
func (rs *ReactiveSystem) ShallowReactive(target any) any {
	return rs.createWrapper(target, false, true, rs.shallowReactiveRegistry)
}

// Readonly wraps a raw container, or an already-reactive handle, in a deep
// readonly view. Reads through a readonly-over-reactive view still track.
func (rs *ReactiveSystem) Readonly(target any) any {
	return rs.createWrapper(target, true, false, rs.readonlyRegistry)
}

// ShallowReadonly is Readonly without nested wrapping or ref unwrapping.
func (rs *ReactiveSystem) ShallowReadonly(target any) any {
	return rs.createWrapper(target, true, true, rs.shallowReadonlyRegistry)
}

func (rs *ReactiveSystem) createWrapper(target any, readonly, shallow bool, registry map[any]any) any {
	switch target.(type) {
	case *Object, *Array:
	case *Store, *List:
		// only a readonly view over a mutable handle creates a new layer
		if !(readonly && IsReactive(target)) {
			return target
		}
	default:
		rs.warn("value of type %T cannot be made reactive", target)
		return target
	}
	if existing, ok := registry[target]; ok {
		return existing
	}
	var wrapper any
	switch target.(type) {
	case *Object, *Store:
		wrapper = &Store{rs: rs, target: target, readonly: readonly, shallow: shallow}
	case *Array, *List:
		wrapper = &List{rs: rs, target: target, readonly: readonly, shallow: shallow}
	}
	registry[target] = wrapper
	return wrapper
}

// toReactive deep-wraps container values, leaving everything else untouched.
func (rs *ReactiveSystem) toReactive(value any) any {
	switch value.(type) {
	case *Object, *Array:
		return rs.Reactive(value)
	}
	return value
}

// toReadonly deep-wraps containers readonly, layering over an already
// reactive handle so the nested view cannot be written through.
func (rs *ReactiveSystem) toReadonly(value any) any {
	switch value.(type) {
	case *Object, *Array, *Store, *List:
		return rs.Readonly(value)
	}
	return value
}

// ToRaw unwraps any chain of tracked handles down to the backing container,
// returning non-wrapper values unchanged.
func ToRaw(value any) any {
	for {
		switch wrapper := value.(type) {
		case *Store:
			value = wrapper.target
		case *List:
			value = wrapper.target
		default:
			return value
		}
	}
}

// IsReactive reports whether value is a mutable tracked handle, or a readonly
// view over one.
func IsReactive(value any) bool {
	switch wrapper := value.(type) {
	case *Store:
		if wrapper.readonly {
			return IsReactive(wrapper.target)
		}
		return true
	case *List:
		if wrapper.readonly {
			return IsReactive(wrapper.target)
		}
		return true
	}
	return false
}

// IsReadonly reports whether writes through value are rejected. Derived
// values count as readonly boxes.
func IsReadonly(value any) bool {
	switch wrapper := value.(type) {
	case *Store:
		return wrapper.readonly
	case *List:
		return wrapper.readonly
	case *Computed:
		return true
	}
	return false
}

// IsShallow reports whether value is a shallow wrapper.
func IsShallow(value any) bool {
	switch wrapper := value.(type) {
	case *Store:
		return wrapper.shallow
	case *List:
		return wrapper.shallow
	case *Ref:
		return wrapper.shallow
	}
	return false
}

// IsWrapper reports whether value is any kind of tracked handle.
func IsWrapper(value any) bool {
	return IsReactive(value) || IsReadonly(value)
}

// IsRef reports whether value is a boxed reference, writable or derived.
func IsRef(value any) bool {
	switch value.(type) {
	case *Ref, *Computed:
		return true
	}
	return false
}
