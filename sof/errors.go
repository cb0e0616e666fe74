package sof

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidValueKind is returned when encoding meets a leaf that is not a
	// string, array or string-keyed object. Scalars must be stringified first.
	ErrInvalidValueKind = errors.New("sof: invalid value kind")

	// ErrUnknownRecordKind is returned when a tag token is not one of
	// V, P, A, D, AV, DV.
	ErrUnknownRecordKind = errors.New("sof: unknown record kind")

	// ErrMalformedInteger is returned when a count or address token is not a
	// non-negative base-10 integer.
	ErrMalformedInteger = errors.New("sof: malformed integer")

	// ErrDanglingPointer is returned when an address lies outside the store.
	ErrDanglingPointer = errors.New("sof: dangling pointer")

	// ErrTruncated is returned when a record extends past the end of the store.
	ErrTruncated = errors.New("sof: truncated store")

	// ErrMaxDepth is returned when records nest deeper than the decoder allows.
	ErrMaxDepth = errors.New("sof: maximum nesting depth exceeded")

	// ErrTooLarge is returned when a store expands to more nodes than the
	// decoder allows, typically through many pointers sharing one target.
	ErrTooLarge = errors.New("sof: store expands past node limit")
)

// EncodeError reports where in the input tree encoding failed.
type EncodeError struct {
	Path string // e.g. $.profile.images[2]
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%v at %s", e.Err, e.Path)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// DecodeError reports the store address at which decoding failed.
type DecodeError struct {
	Addr  int    // 1-indexed address of the offending token
	Token string // offending token, empty when past the end
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%v at address %d", e.Err, e.Addr)
	}
	return fmt.Sprintf("%v at address %d: %q", e.Err, e.Addr, e.Token)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
