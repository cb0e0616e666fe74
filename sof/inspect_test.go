package sof

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	v := Object(
		Field("a", Strings("1", "2")),
		Field("b", Str("x")),
		Field("c", Array(Object(Field("d", Str("y"))))),
	)

	tokens, err := Encode(v, EncodeOptions{Optimize: true})
	require.NoError(t, err)

	stats, err := Inspect(tokens)
	require.NoError(t, err)
	assert.Equal(t, len(tokens), stats.Tokens)
	assert.Equal(t, len(tokens), stats.Reachable)
	assert.Equal(t, 0, stats.Unreachable())
	assert.Equal(t, 3, stats.Pointers)
	assert.Equal(t, 2, stats.MaxDepth)
	assert.Equal(t, map[RecordKind]int{
		RecordObject:       1,
		RecordArrayValues:  1,
		RecordArray:        1,
		RecordObjectValues: 1,
	}, stats.Records)
	assert.True(t, stats.ForwardOnly)
	assert.False(t, stats.Overlapping)
}

func TestInspect_BackwardAndShared(t *testing.T) {
	stats, err := Inspect(toks("A 2 P 7 P 7 AV 1 s"))
	require.NoError(t, err)
	assert.True(t, stats.ForwardOnly)
	assert.True(t, stats.Overlapping)

	stats, err = Inspect(toks("A 1 P 7 V x D 1 k P 5"))
	require.NoError(t, err)
	assert.False(t, stats.ForwardOnly)
	assert.False(t, stats.Overlapping)
	assert.Equal(t, 2, stats.Pointers)
}

func TestInspect_Errors(t *testing.T) {
	_, err := Inspect(toks("Q"))
	assert.True(t, errors.Is(err, ErrUnknownRecordKind))

	_, err = Inspect(toks("D 1 k P 99"))
	assert.True(t, errors.Is(err, ErrDanglingPointer))

	_, err = Inspect(toks("A 1 P 1"))
	assert.True(t, errors.Is(err, ErrMaxDepth))

	_, err = Inspect(nil)
	assert.True(t, errors.Is(err, ErrTruncated))

	_, err = Inspect(sharedChain(40))
	assert.True(t, errors.Is(err, ErrTooLarge))

	_, err = InspectWithOptions(toks("A 1 P 5 A 1 P 9 A 1 V x"), DecodeOptions{MaxDepth: 1})
	assert.True(t, errors.Is(err, ErrMaxDepth))
}
