package sof

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Value
	}{
		{"string", `"hi"`, Str("hi")},
		{"number keeps literal", `1.50`, Str("1.50")},
		{"exponent", `[1e3, -0, 12]`, Strings("1e3", "-0", "12")},
		{"literals", `[true, false, null]`, Strings("true", "false", "null")},
		{"empty array", `[]`, Array()},
		{"empty object", `{}`, Object()},
		{
			"key order",
			`{"b": "1", "a": {"d": [], "c": {}}}`,
			Object(
				Field("b", Str("1")),
				Field("a", Object(Field("d", Array()), Field("c", Object()))),
			),
		},
		{"duplicate key", `{"a": 1, "b": 2, "a": 3}`, Object(Field("a", Str("3")), Field("b", Str("2")))},
		{"unicode", `"café"`, Str("café")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromJSON([]byte(tt.input))
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestFromJSON_Errors(t *testing.T) {
	for _, input := range []string{``, `[1,`, `{"a"}`, `[1] [2]`, `{"a": 1}}`} {
		_, err := FromJSON([]byte(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestFromJSONC(t *testing.T) {
	input := `{
		// comment
		"a": [1, 2, 3,], /* block */
		"b": "x",
	}`
	got, err := FromJSONC([]byte(input))
	require.NoError(t, err)
	want := Object(Field("a", Strings("1", "2", "3")), Field("b", Str("x")))
	assert.True(t, Equal(want, got), "got %s", got)
}

func TestToJSON(t *testing.T) {
	v := Object(
		Field("z", Str("a&b <c>")),
		Field("a", Array(Str("1"), Object())),
	)

	got, err := ToJSON(v, "")
	require.NoError(t, err)
	assert.Equal(t, `{"z":"a&b <c>","a":["1",{}]}`, string(got))

	pretty, err := ToJSON(v, "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"z\": \"a&b <c>\",\n  \"a\": [\n    \"1\",\n    {}\n  ]\n}", string(pretty))

	_, err = ToJSON(Array(nil), "")
	assert.ErrorIs(t, err, ErrInvalidValueKind)
}

func TestJSON_RoundTrip(t *testing.T) {
	input := `{"name":"x","list":["1","2"],"nested":{"k":"v","e":[]}}`
	v, err := FromJSON([]byte(input))
	require.NoError(t, err)
	out, err := ToJSON(v, "")
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}
