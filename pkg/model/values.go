package model

import (
	"fmt"
	"slices"
)

// Values maps field names to their current input. Treat a Values map as
// immutable once shared: With and Toggle return new maps.
type Values map[string]any

// Clone copies the mapping, including multi-choice slices.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = NormalizeValue(value)
	}
	return out
}

// With returns a new mapping where name holds value and every other entry is
// shared with the receiver.
func (v Values) With(name string, value any) Values {
	out := make(Values, len(v)+1)
	for key, existing := range v {
		out[key] = existing
	}
	out[name] = NormalizeValue(value)
	return out
}

// Toggle returns a new mapping where token is removed from the set stored at
// name if present, or appended otherwise.
func (v Values) Toggle(name, token string) Values {
	current := v.Strings(name)
	if slices.Contains(current, token) {
		next := make([]string, 0, len(current))
		for _, item := range current {
			if item != token {
				next = append(next, item)
			}
		}
		return v.With(name, next)
	}
	return v.With(name, append(current, token))
}

// String returns the string stored at name, or "" when missing.
func (v Values) String(name string) string {
	switch typed := v[name].(type) {
	case nil:
		return ""
	case string:
		return typed
	case []string, []any:
		return ""
	default:
		return fmt.Sprint(typed)
	}
}

// Strings returns a copy of the set stored at name. A plain string is treated
// as a single token; an empty string as an empty set.
func (v Values) Strings(name string) []string {
	switch typed := NormalizeValue(v[name]).(type) {
	case []string:
		return typed
	case string:
		if typed == "" {
			return []string{}
		}
		return []string{typed}
	default:
		return []string{}
	}
}

// Contains reports whether the set stored at name holds token.
func (v Values) Contains(name, token string) bool {
	return slices.Contains(v.Strings(name), token)
}

// Merge overlays overrides onto base and returns the result. Neither input is
// modified.
func Merge(base Values, overrides map[string]any) Values {
	out := base.Clone()
	for key, value := range overrides {
		out[key] = NormalizeValue(value)
	}
	return out
}

// NormalizeValue converts decoded JSON/YAML collections into the shapes the
// form works with: []any becomes []string and slices are copied.
func NormalizeValue(value any) any {
	switch typed := value.(type) {
	case []string:
		return append(make([]string, 0, len(typed)), typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if item == nil {
				continue
			}
			if s, ok := item.(string); ok {
				out = append(out, s)
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return value
	}
}
