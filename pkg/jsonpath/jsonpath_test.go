package jsonpath

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestGet_Defaults(t *testing.T) {
	assert.Equal(t, 0, Get(map[string]any{"a": map[string]any{"b": 1}}, 0, "a", "c"))
	assert.Equal(t, "x", Get(map[string]any{"a": []any{1, 2}}, "x", "a", 5))
	assert.Equal(t, 2, Get(map[string]any{"a": []any{1, 2}}, nil, "a", 1))
}

func TestLookup_Mismatches(t *testing.T) {
	data := decode(t, `{"a": {"b": [10, {"c": "deep"}]}, "s": "scalar"}`)

	tests := []struct {
		name string
		path []any
	}{
		{"missing key", []any{"x"}},
		{"int key on object", []any{0}},
		{"string key on array", []any{"a", "b", "0"}},
		{"negative index", []any{"a", "b", -1}},
		{"index past end", []any{"a", "b", 2}},
		{"descend into scalar", []any{"s", "t"}},
		{"descend into number", []any{"a", "b", 0, "c"}},
		{"unsupported key type", []any{"a", 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Lookup(data, tt.path...)
			assert.False(t, ok)
			assert.Nil(t, v)
			assert.Equal(t, "fallback", Get(data, "fallback", tt.path...))
		})
	}
}

func TestLookup_Found(t *testing.T) {
	data := decode(t, `{"a": {"b": [10, {"c": "deep"}]}, "n": null}`)

	v, ok := Lookup(data, "a", "b", 1, "c")
	require.True(t, ok)
	assert.Equal(t, "deep", v)

	v, ok = Lookup(data, "n")
	assert.True(t, ok)
	assert.Nil(t, v)

	v, ok = Lookup(data)
	assert.True(t, ok)
	assert.Equal(t, data, v)
}

func TestLookup_NilRoot(t *testing.T) {
	_, ok := Lookup(nil, "a")
	assert.False(t, ok)
	assert.Equal(t, 7, Get(nil, 7, "a", 0))
}

func TestTypedHelpers(t *testing.T) {
	data := decode(t, `{
		"tracks": {"items": [{"name": "Cry For Me", "popularity": 80}]},
		"details": {"air_temperature": 12.5, "wind_speed": null, "label": "x"}
	}`)

	items, ok := Slice(data, "tracks", "items")
	require.True(t, ok)
	assert.Len(t, items, 1)

	_, ok = Slice(data, "tracks")
	assert.False(t, ok)

	details, ok := Map(data, "details")
	require.True(t, ok)
	assert.Contains(t, details, "air_temperature")

	_, ok = Map(data, "tracks", "items")
	assert.False(t, ok)

	name, ok := String(data, "tracks", "items", 0, "name")
	require.True(t, ok)
	assert.Equal(t, "Cry For Me", name)

	_, ok = String(data, "tracks", "items", 0, "popularity")
	assert.False(t, ok)

	temp, ok := Float(data, "details", "air_temperature")
	require.True(t, ok)
	assert.InDelta(t, 12.5, temp, 1e-9)

	_, ok = Float(data, "details", "wind_speed")
	assert.False(t, ok, "null is absent")

	_, ok = Float(data, "details", "label")
	assert.False(t, ok)

	assert.Nil(t, FloatPtr(data, "details", "missing"))
	if p := FloatPtr(data, "details", "air_temperature"); assert.NotNil(t, p) {
		assert.InDelta(t, 12.5, *p, 1e-9)
	}
}

func TestFloat_NumberKinds(t *testing.T) {
	dec := json.NewDecoder(strings.NewReader(`{"v": 3.25}`))
	dec.UseNumber()
	var data any
	require.NoError(t, dec.Decode(&data))

	v, ok := Float(data, "v")
	require.True(t, ok)
	assert.InDelta(t, 3.25, v, 1e-9)

	v, ok = Float(map[string]any{"i": 4, "u": uint8(9), "f": float32(1.5)}, "i")
	require.True(t, ok)
	assert.InDelta(t, 4.0, v, 1e-9)

	v, ok = Float(map[string]any{"u": uint8(9)}, "u")
	require.True(t, ok)
	assert.InDelta(t, 9.0, v, 1e-9)

	_, ok = Float(map[string]any{"nan": math.NaN()}, "nan")
	assert.False(t, ok)

	_, ok = Float(map[string]any{"bad": json.Number("1e999")}, "bad")
	assert.False(t, ok)
}
