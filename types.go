package cellparty

import (
	"math"
	"reflect"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// DirtyLevel describes how stale an effect's last result is. The levels are
// strictly ordered; propagation only ever raises a level, running an effect
// resets it to NotDirty.
type DirtyLevel uint8

const (
	// NotDirty means the last result is valid.
	NotDirty DirtyLevel = iota
	// QueryingDirty is a transient marker held while a MaybeDirty level is
	// being resolved, so the query cannot re-enter itself.
	QueryingDirty
	// MaybeDirtyComputedSideEffectOrigin marks a computed effect that was
	// invalidated by its own side effects while it was still running.
	MaybeDirtyComputedSideEffectOrigin
	// MaybeDirtyComputedSideEffect is the chained form of the origin level,
	// broadcast to readers of such a computed.
	MaybeDirtyComputedSideEffect
	// MaybeDirty means an upstream computed changed dirtiness but not
	// necessarily value; the computed must be queried to decide.
	MaybeDirty
	// Dirty means a direct dependency changed value; a re-run is mandatory.
	Dirty
)

// TrackOpType is the access kind recorded on a read dependency.
type TrackOpType uint8

const (
	TrackGet TrackOpType = iota
	TrackHas
	TrackIterate
)

// TriggerOpType is the change kind carried by a notification.
type TriggerOpType uint8

const (
	TriggerSet TriggerOpType = iota
	TriggerAdd
	TriggerDelete
	TriggerClear
)

// Reserved keys answered by wrappers without tracking. Hashed so they cannot
// collide with user keys.
var (
	KeyRaw        = sentinelKey("raw")
	KeyIsReactive = sentinelKey("isReactive")
	KeyIsReadonly = sentinelKey("isReadonly")
	KeyIsShallow  = sentinelKey("isShallow")

	iterateKey = sentinelKey("iterate")
)

const lengthKey = "length"

func sentinelKey(name string) string {
	sum := xxhash.Sum64String("cellparty:" + name)
	return "__cp_" + name + "_" + strconv.FormatUint(sum, 36)
}

func indexKey(i int) string {
	return strconv.Itoa(i)
}

func indexOfKey(key string) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// hasChanged reports whether assigning value over oldValue is an actual
// change. NaN is considered equal to itself; values that cannot be compared
// are always considered changed.
func hasChanged(value, oldValue any) bool {
	if vf, ok := value.(float64); ok {
		if of, ok := oldValue.(float64); ok {
			if math.IsNaN(vf) && math.IsNaN(of) {
				return false
			}
			return vf != of
		}
	}
	if value == nil || oldValue == nil {
		return value != oldValue
	}
	if !reflect.TypeOf(value).Comparable() || !reflect.TypeOf(oldValue).Comparable() {
		return true
	}
	return value != oldValue
}
