package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Writer writes a token list in one container format.
type Writer struct {
	w      io.Writer
	format Format
}

// NewWriter creates a writer for the given format.
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// Write writes tokens to w in the given format.
func Write(w io.Writer, tokens []string, format Format) error {
	return NewWriter(w, format).WriteTokens(tokens)
}

// WriteTokens writes the whole token list.
func (w *Writer) WriteTokens(tokens []string) error {
	switch w.format {
	case FormatLines:
		return w.writeLines(tokens)
	case FormatJSON:
		enc := json.NewEncoder(w.w)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(nonNil(tokens)); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		return nil
	case FormatCBOR:
		if err := newCBOREncoder(w.w).Encode(nonNil(tokens)); err != nil {
			return fmt.Errorf("write cbor: %w", err)
		}
		return nil
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w.w).Encode(nonNil(tokens)); err != nil {
			return fmt.Errorf("write msgpack: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, w.format)
	}
}

// writeLines terminates every token with '\n', so an empty final token
// survives a round trip.
func (w *Writer) writeLines(tokens []string) error {
	for i, tok := range tokens {
		if strings.ContainsRune(tok, '\n') {
			return fmt.Errorf("%w: token %d", ErrNewlineInToken, i+1)
		}
	}

	bw := bufio.NewWriter(w.w)
	for _, tok := range tokens {
		bw.WriteString(tok)
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write lines: %w", err)
	}
	return nil
}

// nonNil makes an empty list encode as an empty array instead of null.
func nonNil(tokens []string) []string {
	if tokens == nil {
		return []string{}
	}
	return tokens
}
