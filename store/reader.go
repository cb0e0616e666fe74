package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Reader reads a token list in one container format.
type Reader struct {
	r         *bufio.Reader
	format    Format
	maxTokens int
	trimCR    bool
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithMaxTokens sets the maximum number of tokens (default: MaxTokens).
func WithMaxTokens(max int) ReaderOption {
	return func(r *Reader) {
		r.maxTokens = max
	}
}

// WithTrimCR strips a trailing '\r' from each line in the lines format, for
// files saved with CRLF line endings.
func WithTrimCR() ReaderOption {
	return func(r *Reader) {
		r.trimCR = true
	}
}

// NewReader creates a reader for the given format.
func NewReader(r io.Reader, format Format, opts ...ReaderOption) *Reader {
	reader := &Reader{
		r:         bufio.NewReader(r),
		format:    format,
		maxTokens: MaxTokens,
	}
	for _, opt := range opts {
		opt(reader)
	}
	return reader
}

// Read reads a whole token list from r in the given format.
func Read(r io.Reader, format Format, opts ...ReaderOption) ([]string, error) {
	return NewReader(r, format, opts...).ReadTokens()
}

// ReadTokens reads the whole token list.
func (r *Reader) ReadTokens() ([]string, error) {
	var (
		tokens []string
		err    error
	)

	switch r.format {
	case FormatLines:
		return r.readLines()
	case FormatJSON:
		return r.readJSON()
	case FormatCBOR:
		if err = newCBORDecoder(r.r).Decode(&tokens); err != nil {
			return nil, fmt.Errorf("read cbor: %w", err)
		}
	case FormatMsgpack:
		return r.readMsgpack()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, r.format)
	}

	if len(tokens) > r.maxTokens {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyTokens, len(tokens), r.maxTokens)
	}
	if tokens == nil {
		tokens = []string{}
	}
	return tokens, nil
}

// readJSON reads a JSON array of strings one element at a time so the token
// limit applies before the whole array is held in memory. A JSON null is an
// empty list.
func (r *Reader) readJSON() ([]string, error) {
	dec := json.NewDecoder(r.r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	tokens := []string{}
	switch tok {
	case nil:
	case json.Delim('['):
		for dec.More() {
			if len(tokens) >= r.maxTokens {
				return nil, fmt.Errorf("%w: more than %d", ErrTooManyTokens, r.maxTokens)
			}
			var s string
			if err := dec.Decode(&s); err != nil {
				return nil, fmt.Errorf("read json: token %d: %w", len(tokens), err)
			}
			tokens = append(tokens, s)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("read json: %w", err)
		}
	default:
		return nil, fmt.Errorf("read json: expected array, got %v", tok)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read json: trailing data after token list")
	}
	return tokens, nil
}

// readMsgpack checks the declared array length against the token limit
// before reading any element.
func (r *Reader) readMsgpack() ([]string, error) {
	dec := msgpack.NewDecoder(r.r)
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, fmt.Errorf("read msgpack: %w", err)
	}
	if n > r.maxTokens {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyTokens, n, r.maxTokens)
	}

	tokens := make([]string, 0, max(n, 0))
	for i := 0; i < n; i++ {
		s, err := dec.DecodeString()
		if err != nil {
			return nil, fmt.Errorf("read msgpack: token %d: %w", i, err)
		}
		tokens = append(tokens, s)
	}
	return tokens, nil
}

// readLines treats every '\n' as a token terminator. A final line without a
// terminator is a token unless it is empty.
func (r *Reader) readLines() ([]string, error) {
	tokens := []string{}
	for {
		line, err := r.r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read lines: %w", err)
		}
		if errors.Is(err, io.EOF) && line == "" {
			return tokens, nil
		}

		line = strings.TrimSuffix(line, "\n")
		if r.trimCR {
			line = strings.TrimSuffix(line, "\r")
		}
		if len(tokens) >= r.maxTokens {
			return nil, fmt.Errorf("%w: more than %d", ErrTooManyTokens, r.maxTokens)
		}
		tokens = append(tokens, line)

		if err != nil {
			return tokens, nil
		}
	}
}
