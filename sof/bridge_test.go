package sof

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	got, err := FromAny(map[string]any{
		"b": []any{"x", []string{"y"}},
		"a": map[string]string{"d": "1", "c": "2"},
		"e": []Entry{{Key: "z", Value: Str("last")}, {Key: "y", Value: Str("first")}},
		"f": Str("value"),
	})
	require.NoError(t, err)

	want := Object(
		Field("a", Object(Field("c", Str("2")), Field("d", Str("1")))),
		Field("b", Array(Str("x"), Strings("y"))),
		Field("e", Object(Field("z", Str("last")), Field("y", Str("first")))),
		Field("f", Str("value")),
	)
	assert.True(t, Equal(want, got), "got %s", got)
}

func TestFromAny_InvalidValueKind(t *testing.T) {
	tests := []struct {
		name  string
		input any
		path  string
	}{
		{"int", 1, "$"},
		{"nil", nil, "$"},
		{"bool in array", []any{"a", true}, "$[1]"},
		{"float in map", map[string]any{"k": []any{1.5}}, "$.k[0]"},
		{"invalid value", []Entry{{Key: "k", Value: nil}}, "$.k"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromAny(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidValueKind))

			var encErr *EncodeError
			require.True(t, errors.As(err, &encErr))
			assert.Equal(t, tt.path, encErr.Path)
		})
	}
}

func TestStringify(t *testing.T) {
	in := map[string]any{
		"a": []any{1.0, 2.5, int64(-3), true, nil},
		"b": json.Number("1.50"),
		"c": map[string]any{"d": false, "e": 7},
		"f": 1e21,
	}
	out, err := Stringify(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": []any{"1", "2.5", "-3", "true", "null"},
		"b": "1.50",
		"c": map[string]any{"d": "false", "e": "7"},
		"f": "1e+21",
	}, out)

	v, err := FromAny(out)
	require.NoError(t, err)
	assert.Equal(t, 4, v.Len())

	_, err = Stringify([]any{math.NaN()})
	assert.Error(t, err)
}

func TestToAny(t *testing.T) {
	v := Object(Field("a", Strings("1")), Field("b", Object(Field("c", Str("x")))))
	got, err := ToAny(v)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": []any{"1"},
		"b": map[string]any{"c": "x"},
	}, got)

	_, err = ToAny(Array(nil))
	assert.ErrorIs(t, err, ErrInvalidValueKind)
}
