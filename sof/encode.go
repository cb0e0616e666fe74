package sof

import (
	"strconv"
)

// EncodeOptions configures Encode.
type EncodeOptions struct {
	// Optimize writes AV and DV records for arrays and objects whose
	// immediate children are all strings.
	Optimize bool
}

// DefaultEncodeOptions returns options with the compact records disabled.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Optimize: false}
}

// Encode flattens v into a token list. The root record starts at the first
// token; nested records follow in depth-first order, each appended after its
// parent record is complete.
func Encode(v *Value, opts EncodeOptions) ([]string, error) {
	enc := &encoder{opts: opts}
	if _, err := enc.encode(v, "$"); err != nil {
		return nil, err
	}
	return enc.data, nil
}

// EncodeAny converts a native Go value with FromAny and encodes it.
func EncodeAny(x any, opts EncodeOptions) ([]string, error) {
	v, err := FromAny(x)
	if err != nil {
		return nil, err
	}
	return Encode(v, opts)
}

type encoder struct {
	opts EncodeOptions
	data []string
}

// pendingSlot is a reserved P slot waiting for the address of its record.
type pendingSlot struct {
	slot  int
	value *Value
	path  string
}

// encode appends the record for v and returns the index it starts at.
func (e *encoder) encode(v *Value, path string) (int, error) {
	index := len(e.data)

	switch v.Kind() {
	case KindString:
		e.data = append(e.data, string(RecordValue), v.str)

	case KindArray:
		if e.opts.Optimize && v.isScalarOnly() {
			e.encodeArrayValues(v)
		} else if err := e.encodeArray(v, path); err != nil {
			return 0, err
		}

	case KindObject:
		if e.opts.Optimize && v.isScalarOnly() {
			e.encodeObjectValues(v)
		} else if err := e.encodeObject(v, path); err != nil {
			return 0, err
		}

	default:
		return 0, &EncodeError{Path: path, Err: ErrInvalidValueKind}
	}

	return index, nil
}

func (e *encoder) encodeArray(v *Value, path string) error {
	e.data = append(e.data, string(RecordArray), strconv.Itoa(len(v.items)))

	var pending []pendingSlot
	for i, item := range v.items {
		if err := e.appendSlot(item, indexPath(path, i), &pending); err != nil {
			return err
		}
	}
	return e.resolve(pending)
}

func (e *encoder) encodeObject(v *Value, path string) error {
	e.data = append(e.data, string(RecordObject), strconv.Itoa(len(v.entries)))

	var pending []pendingSlot
	for _, entry := range v.entries {
		e.data = append(e.data, entry.Key)
		if err := e.appendSlot(entry.Value, keyPath(path, entry.Key), &pending); err != nil {
			return err
		}
	}
	return e.resolve(pending)
}

func (e *encoder) encodeArrayValues(v *Value) {
	e.data = append(e.data, string(RecordArrayValues), strconv.Itoa(len(v.items)))
	for _, item := range v.items {
		e.data = append(e.data, item.str)
	}
}

func (e *encoder) encodeObjectValues(v *Value) {
	e.data = append(e.data, string(RecordObjectValues), strconv.Itoa(len(v.entries)))
	for _, entry := range v.entries {
		e.data = append(e.data, entry.Key, entry.Value.str)
	}
}

// appendSlot writes an element slot of an A or D record: strings inline as
// V <s>, containers as a P slot to be patched by resolve.
func (e *encoder) appendSlot(v *Value, path string, pending *[]pendingSlot) error {
	switch v.Kind() {
	case KindString:
		e.data = append(e.data, string(RecordValue), v.str)
	case KindArray, KindObject:
		e.data = append(e.data, string(RecordPointer), "")
		*pending = append(*pending, pendingSlot{slot: len(e.data) - 1, value: v, path: path})
	default:
		return &EncodeError{Path: path, Err: ErrInvalidValueKind}
	}
	return nil
}

// resolve encodes the nested records of a finished container in element
// order and patches each reserved slot with the record's address.
func (e *encoder) resolve(pending []pendingSlot) error {
	for _, p := range pending {
		index, err := e.encode(p.value, p.path)
		if err != nil {
			return err
		}
		e.data[p.slot] = formatAddress(index)
	}
	return nil
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func keyPath(path, key string) string {
	if isIdent(key) {
		return path + "." + key
	}
	return path + "[" + strconv.Quote(key) + "]"
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
