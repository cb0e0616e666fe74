package sof

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Records(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   *Value
	}{
		{"scalar", toks("V hello"), Str("hello")},
		{"empty string", []string{"V", ""}, Str("")},
		{"array", toks("A 2 V alfa V bravo"), Strings("alfa", "bravo")},
		{"array values", toks("AV 2 alfa bravo"), Strings("alfa", "bravo")},
		{"empty array", toks("A 0"), Array()},
		{"empty array values", toks("AV 0"), Array()},
		{"empty object", toks("D 0"), Object()},
		{"empty object values", toks("DV 0"), Object()},
		{
			"object values",
			toks("DV 2 b bravo a alfa"),
			Object(Field("b", Str("bravo")), Field("a", Str("alfa"))),
		},
		{
			"pointer in array",
			toks("A 2 V alfa P 7 D 1 b V bravo"),
			Array(Str("alfa"), Object(Field("b", Str("bravo")))),
		},
		{
			"pointer record at root",
			toks("P 3 AV 1 x"),
			Strings("x"),
		},
		{
			"pointer chain",
			toks("P 3 P 5 V end"),
			Str("end"),
		},
		{
			// Pointers may point backwards; only the encoder is forward-only.
			"backward pointer",
			toks("A 1 P 7 V x D 1 k P 5"),
			Array(Object(Field("k", Str("x")))),
		},
		{
			"shared target",
			toks("A 2 P 7 P 7 AV 1 s"),
			Array(Strings("s"), Strings("s")),
		},
		{
			"trailing tokens ignored",
			toks("V a V b garbage"),
			Str("a"),
		},
		{
			"tags are data inside AV",
			toks("AV 3 P Q 99"),
			Strings("P", "Q", "99"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.tokens)
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestDecode_DuplicateKeysLastWins(t *testing.T) {
	for _, tokens := range [][]string{
		toks("D 3 a V 1 b V 2 a V 3"),
		toks("DV 3 a 1 b 2 a 3"),
	} {
		got, err := Decode(tokens)
		require.NoError(t, err)
		want := Object(Field("a", Str("3")), Field("b", Str("2")))
		assert.True(t, Equal(want, got), "got %s", got)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		err    error
		addr   int
	}{
		{"unknown tag", toks("Q 1"), ErrUnknownRecordKind, 1},
		{"lowercase tag", toks("v x"), ErrUnknownRecordKind, 1},
		{"unknown tag behind pointer", toks("P 3 Q"), ErrUnknownRecordKind, 3},
		{"unknown slot tag in array", toks("A 1 AV 0"), ErrUnknownRecordKind, 3},
		{"unknown slot tag in object", toks("D 1 k X v"), ErrUnknownRecordKind, 4},
		{"count not a number", toks("A x"), ErrMalformedInteger, 2},
		{"negative count", toks("AV -1"), ErrMalformedInteger, 2},
		{"signed count", toks("AV +1 a"), ErrMalformedInteger, 2},
		{"address not a number", toks("A 1 P seven"), ErrMalformedInteger, 4},
		{"empty address", []string{"P", ""}, ErrMalformedInteger, 2},
		{"address zero", toks("P 0"), ErrDanglingPointer, 2},
		{"address past end", toks("A 1 P 9"), ErrDanglingPointer, 4},
		{"empty store", nil, ErrTruncated, 1},
		{"missing value", toks("V"), ErrTruncated, 2},
		{"missing count", toks("AV"), ErrTruncated, 2},
		{"short array", toks("A 2 V a"), ErrTruncated, 1},
		{"short object values", toks("DV 2 a 1 b"), ErrTruncated, 1},
		{"huge count", toks("AV 99999999999"), ErrTruncated, 1},
		{"pointer cycle", toks("P 1"), ErrMaxDepth, 1},
		{"container cycle", toks("A 1 P 1"), ErrMaxDepth, 1},
		{"shared pointer chain", sharedChain(40), ErrTooLarge, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.tokens)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)

			var decErr *DecodeError
			require.True(t, errors.As(err, &decErr))
			if tt.addr != 0 {
				assert.Equal(t, tt.addr, decErr.Addr)
			}
		})
	}
}

// sharedChain builds n array records that each point twice at the next one,
// ending in a string. Fully expanded it holds 2^n strings.
func sharedChain(n int) []string {
	var tokens []string
	for k := range n {
		next := strconv.Itoa(toAddress(6 * (k + 1)))
		tokens = append(tokens, "A", "2", "P", next, "P", next)
	}
	return append(tokens, "V", "x")
}

func TestDecode_MaxNodes(t *testing.T) {
	// A 2 V a V b: one record plus two elements.
	tokens := toks("A 2 V a V b")
	_, err := DecodeWithOptions(tokens, DecodeOptions{MaxNodes: 3})
	require.NoError(t, err)
	_, err = DecodeWithOptions(tokens, DecodeOptions{MaxNodes: 2})
	assert.True(t, errors.Is(err, ErrTooLarge))

	// A short chain of shared targets still decodes under the default budget.
	v, err := Decode(sharedChain(4))
	require.NoError(t, err)
	assert.Equal(t, 2, v.Len())

	_, err = DecodeWithOptions(sharedChain(4), DecodeOptions{MaxNodes: 20})
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestDecode_MaxDepth(t *testing.T) {
	// Four levels of nesting: root + three pointers.
	tokens, err := Encode(Array(Array(Array(Strings("x")))), DefaultEncodeOptions())
	require.NoError(t, err)

	_, err = DecodeWithOptions(tokens, DecodeOptions{MaxDepth: 3})
	require.NoError(t, err)

	_, err = DecodeWithOptions(tokens, DecodeOptions{MaxDepth: 2})
	assert.True(t, errors.Is(err, ErrMaxDepth))
}

func TestDecodeAt(t *testing.T) {
	tokens := toks("A 2 V alfa P 7 D 1 b V bravo")

	got, err := DecodeAt(tokens, 7)
	require.NoError(t, err)
	assert.True(t, Equal(Object(Field("b", Str("bravo"))), got))

	got, err = DecodeAt(tokens, 10)
	require.NoError(t, err)
	assert.True(t, Equal(Str("bravo"), got))

	_, err = DecodeAt(tokens, 0)
	assert.True(t, errors.Is(err, ErrDanglingPointer))
	_, err = DecodeAt(tokens, len(tokens)+1)
	assert.True(t, errors.Is(err, ErrDanglingPointer))
	_, err = DecodeAt(tokens, 2)
	assert.True(t, errors.Is(err, ErrUnknownRecordKind))
}

func TestDecodeError_Message(t *testing.T) {
	err := &DecodeError{Addr: 3, Token: "Q", Err: ErrUnknownRecordKind}
	assert.Equal(t, `sof: unknown record kind at address 3: "Q"`, err.Error())

	err = &DecodeError{Addr: 5, Err: ErrTruncated}
	assert.Equal(t, "sof: truncated store at address 5", err.Error())
}

// Stores written by older encoders may contain records no pointer reaches.
func TestDecode_UnreachableRecords(t *testing.T) {
	tokens := []string{
		"D", "3",
		"id", "V", "1882674",
		"history", "P", "12",
		"profile", "P", "21",
		// 12: reachable DV
		"DV", "1", "joined", "2012-10-24T12:59:31.000Z",
		// 16: unreachable D
		"D", "1", "joined", "V", "2012-10-24T12:59:31.000Z",
		// 21: reachable D
		"D", "1", "country", "V", "United Kingdom",
	}
	want := Object(
		Field("id", Str("1882674")),
		Field("history", Object(Field("joined", Str("2012-10-24T12:59:31.000Z")))),
		Field("profile", Object(Field("country", Str("United Kingdom")))),
	)

	got, err := Decode(tokens)
	require.NoError(t, err)
	assert.True(t, Equal(want, got), "got %s", got)

	stats, err := Inspect(tokens)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Unreachable())
}
