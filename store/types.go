// Package store reads and writes SOF token lists in the container formats a
// token list travels in:
//   - lines: one token per line, the layout Scratch imports into a list
//   - json: a JSON array of strings
//   - cbor: a CBOR array of text strings (Core Deterministic Encoding)
//   - msgpack: a MessagePack array of strings
//
// The container never changes the token list itself; decoding is left to
// package sof.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a container format.
type Format uint8

const (
	FormatLines Format = iota
	FormatJSON
	FormatCBOR
	FormatMsgpack
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatLines:
		return "lines"
	case FormatJSON:
		return "json"
	case FormatCBOR:
		return "cbor"
	case FormatMsgpack:
		return "msgpack"
	default:
		return fmt.Sprintf("unknown(%d)", f)
	}
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "lines", "txt", "text":
		return FormatLines, nil
	case "json":
		return FormatJSON, nil
	case "cbor":
		return FormatCBOR, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// LookupPathFormat reports the format a file extension names. ok is false,
// and the format FormatLines, when the extension is not one of .txt, .json,
// .cbor, .msgpack or .mpk.
func LookupPathFormat(path string) (f Format, ok bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return FormatLines, true
	case ".json":
		return FormatJSON, true
	case ".cbor":
		return FormatCBOR, true
	case ".msgpack", ".mpk":
		return FormatMsgpack, true
	default:
		return FormatLines, false
	}
}

// MaxTokens is the default limit on the number of tokens a Reader accepts.
const MaxTokens = 16 * 1024 * 1024

var (
	// ErrUnknownFormat is returned for an unrecognized format name.
	ErrUnknownFormat = errors.New("store: unknown format")

	// ErrNewlineInToken is returned when writing a token that contains a
	// newline in the lines format, where it would split into two tokens.
	ErrNewlineInToken = errors.New("store: token contains a newline")

	// ErrTooManyTokens is returned when input holds more tokens than the
	// Reader allows.
	ErrTooManyTokens = errors.New("store: too many tokens")
)
