package widget

import (
	"fmt"
	"strconv"
	"strings"
)

// Config is the widget-relevant subset of a node's properties.
type Config map[string]any

// Has reports whether key is set to a non-nil value.
func (c Config) Has(key string) bool {
	v, ok := c[key]
	return ok && v != nil
}

// Raw returns the unconverted value.
func (c Config) Raw(key string) any {
	return c[key]
}

// String returns the value formatted as a string, or "" when unset.
func (c Config) String(key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Int returns the value as an int. ok is false when the key is unset or
// the value cannot be read as an integer.
func (c Config) Int(key string) (n int, ok bool) {
	switch val := c[key].(type) {
	case int:
		return val, true
	case int32:
		return int(val), true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// Bool returns the value as a bool, or def when unset or unparsable.
func (c Config) Bool(key string, def bool) bool {
	switch val := c[key].(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return def
		}
		return b
	}
	return def
}

// Strings returns a list value. Strings are split on whitespace, so both
// []string{"click", "focus"} and "click focus" are accepted.
func (c Config) Strings(key string) []string {
	switch val := c[key].(type) {
	case []string:
		return val
	case []any:
		strs := make([]string, len(val))
		for i, item := range val {
			strs[i] = fmt.Sprintf("%v", item)
		}
		return strs
	case string:
		return strings.Fields(val)
	}
	return nil
}

// Filter returns the entries of props that f handles.
func Filter(f Factory, props map[string]any) Config {
	cfg := make(Config)
	for k, v := range props {
		if f.Handles(k) {
			cfg[k] = v
		}
	}
	return cfg
}
