// Package jsonpath walks decoded JSON values (the map[string]any / []any /
// scalar trees produced by encoding/json) along a path of keys without ever
// panicking on unexpected shapes.
//
// A path element is either a string, which indexes an object, or an int,
// which indexes an array. Any mismatch between the element and the value
// at that depth ends the walk with "not found".
package jsonpath

import (
	"encoding/json"
	"math"
	"reflect"
)

// Lookup follows path through data. ok is false when a key is missing, an
// index is out of range, or a path element does not fit the value it is
// applied to. A JSON null at the end of the path is found and returned as nil.
func Lookup(data any, path ...any) (value any, ok bool) {
	cur := data
	for _, key := range path {
		switch node := cur.(type) {
		case map[string]any:
			k, isString := key.(string)
			if !isString {
				return nil, false
			}
			next, exists := node[k]
			if !exists {
				return nil, false
			}
			cur = next
		case []any:
			i, isInt := key.(int)
			if !isInt || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Get is Lookup with a fallback: def is returned whenever the path cannot be
// followed.
func Get(data, def any, path ...any) any {
	if v, ok := Lookup(data, path...); ok {
		return v
	}
	return def
}

// Map returns the object at path.
func Map(data any, path ...any) (map[string]any, bool) {
	v, ok := Lookup(data, path...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// Slice returns the array at path.
func Slice(data any, path ...any) ([]any, bool) {
	v, ok := Lookup(data, path...)
	if !ok {
		return nil, false
	}
	s, ok := v.([]any)
	return s, ok
}

// String returns the string at path.
func String(data any, path ...any) (string, bool) {
	v, ok := Lookup(data, path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Float returns the number at path. Values decoded with UseNumber and plain
// Go numeric kinds are accepted too; NaN and infinities are rejected.
func Float(data any, path ...any) (float64, bool) {
	v, ok := Lookup(data, path...)
	if !ok || v == nil {
		return 0, false
	}

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			f = float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			f = float64(rv.Uint())
		case reflect.Float32, reflect.Float64:
			f = rv.Float()
		default:
			return 0, false
		}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FloatPtr is Float with nil standing for "absent".
func FloatPtr(data any, path ...any) *float64 {
	f, ok := Float(data, path...)
	if !ok {
		return nil
	}
	return &f
}
