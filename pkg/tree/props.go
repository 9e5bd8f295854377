package tree

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/internal/markup"
)

// Change is one entry of a change set.
type Change struct {
	Key     string
	Value   any
	Removed bool
}

// ChangeSet is the set of property changes between two commits, ordered by key.
type ChangeSet []Change

// Keys returns the changed keys.
func (cs ChangeSet) Keys() []string {
	keys := make([]string, len(cs))
	for i, c := range cs {
		keys[i] = c.Key
	}
	return keys
}

// DiffProps compares prev and next and returns the changes that turn prev
// into next. Event-handler keys and the reconciliation key are skipped.
func DiffProps(prev, next Props) ChangeSet {
	var cs ChangeSet

	for key, prevVal := range prev {
		if skipDiff(key) {
			continue
		}
		nextVal, exists := next[key]
		if !exists {
			cs = append(cs, Change{Key: key, Removed: true})
		} else if !Equal(prevVal, nextVal) {
			cs = append(cs, Change{Key: key, Value: nextVal})
		}
	}

	for key, nextVal := range next {
		if skipDiff(key) {
			continue
		}
		if _, exists := prev[key]; !exists {
			cs = append(cs, Change{Key: key, Value: nextVal})
		}
	}

	sort.Slice(cs, func(i, j int) bool { return cs[i].Key < cs[j].Key })
	return cs
}

func skipDiff(key string) bool {
	return key == KeyKey || markup.IsEventHandler(key)
}

// Equal compares two property values.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

// AttrValue converts a property value into an attribute value. present is
// false when the attribute should be absent (nil or false). Functions,
// channels and maps are rejected.
func AttrValue(v any) (value string, present bool, err error) {
	switch val := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return val, true, nil
	case bool:
		return "", val, nil
	case int:
		return strconv.Itoa(val), true, nil
	case int32:
		return strconv.FormatInt(int64(val), 10), true, nil
	case int64:
		return strconv.FormatInt(val, 10), true, nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), true, nil
	case uint64:
		return strconv.FormatUint(val, 10), true, nil
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true, nil
	case []string:
		return strings.Join(val, " "), true, nil
	case fmt.Stringer:
		return val.String(), true, nil
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.Map, reflect.Struct, reflect.Ptr, reflect.UnsafePointer:
		return "", false, errors.New("W002").
			WithDetail(fmt.Sprintf("cannot write %T to an attribute", v))
	}
	return fmt.Sprintf("%v", v), true, nil
}
