package sof

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/jsonc"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Reads JSON into a Value keeping object key order, which encoding/json's
// map decoding would lose. Scalars become strings:
//   - numbers keep their literal text ("1.50" stays "1.50")
//   - true/false/null become "true", "false", "null"

// FromJSON parses a JSON document into a Value.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("sof: JSON parse error: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("sof: JSON parse error: trailing data after value")
	}
	return v, nil
}

// FromJSONC parses JSON with comments and trailing commas.
func FromJSONC(data []byte) (*Value, error) {
	return FromJSON(jsonc.ToJSON(data))
}

func readJSONValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			arr := Array()
			for dec.More() {
				item, err := readJSONValue(dec)
				if err != nil {
					return nil, fmt.Errorf("array[%d]: %w", arr.Len(), err)
				}
				arr.Append(item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil

		case '{':
			obj := newObjectBuilder(0)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, fmt.Errorf("object[%q]: %w", key, err)
				}
				obj.set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj.value(), nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)

	case string:
		return Str(t), nil
	case json.Number:
		return Str(t.String()), nil
	case bool:
		return Str(strconv.FormatBool(t)), nil
	case nil:
		return Str("null"), nil
	default:
		return nil, fmt.Errorf("unsupported JSON token: %T", tok)
	}
}

// ToJSON renders v as JSON with object keys in their stored order. Every
// scalar is written as a JSON string. A non-empty indent pretty-prints.
func ToJSON(v *Value, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONValue(&buf, v); err != nil {
		return nil, err
	}
	if indent == "" {
		return buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeJSONValue(buf *bytes.Buffer, v *Value) error {
	switch v.Kind() {
	case KindString:
		return writeJSONString(buf, v.str)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case KindObject:
		buf.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, e.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSONValue(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return ErrInvalidValueKind
	}
}

// writeJSONString writes s as a JSON string without HTML escaping.
func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode appends '\n'
	return nil
}
