package sof

import (
	"fmt"
	"strings"
)

// Kind represents the kind of a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is a node of a string/array/object tree.
type Value struct {
	kind Kind

	str     string
	items   []*Value
	entries []Entry
}

// Entry is a key-value pair of an object. Objects keep entries in insertion
// order.
type Entry struct {
	Key   string
	Value *Value
}

// ============================================================
// Constructors
// ============================================================

// Str creates a string value.
func Str(s string) *Value {
	return &Value{kind: KindString, str: s}
}

// Array creates an array value.
func Array(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{kind: KindArray, items: items}
}

// Strings creates an array of string values.
func Strings(items ...string) *Value {
	vals := make([]*Value, len(items))
	for i, s := range items {
		vals[i] = Str(s)
	}
	return Array(vals...)
}

// Object creates an object value from entries, preserving their order.
func Object(entries ...Entry) *Value {
	if entries == nil {
		entries = []Entry{}
	}
	return &Value{kind: KindObject, entries: entries}
}

// Field creates an Entry for use with Object.
func Field(key string, value *Value) Entry {
	return Entry{Key: key, Value: value}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind. A nil value is KindInvalid.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindInvalid
	}
	return v.kind
}

// AsString returns the string value.
func (v *Value) AsString() (string, error) {
	if v.Kind() != KindString {
		return "", fmt.Errorf("sof: expected string, got %s", v.Kind())
	}
	return v.str, nil
}

// AsArray returns the array elements.
func (v *Value) AsArray() ([]*Value, error) {
	if v.Kind() != KindArray {
		return nil, fmt.Errorf("sof: expected array, got %s", v.Kind())
	}
	return v.items, nil
}

// AsObject returns the object entries.
func (v *Value) AsObject() ([]Entry, error) {
	if v.Kind() != KindObject {
		return nil, fmt.Errorf("sof: expected object, got %s", v.Kind())
	}
	return v.entries, nil
}

// Len returns the length of an array or object, zero otherwise.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.entries)
	default:
		return 0
	}
}

// Get returns an object member by key, or nil.
func (v *Value) Get(key string) *Value {
	if v.Kind() != KindObject {
		return nil
	}
	for _, e := range v.entries {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Index returns the i-th element of an array.
func (v *Value) Index(i int) (*Value, error) {
	if v.Kind() != KindArray {
		return nil, fmt.Errorf("sof: not an array")
	}
	if i < 0 || i >= len(v.items) {
		return nil, fmt.Errorf("sof: index %d out of bounds (len=%d)", i, len(v.items))
	}
	return v.items[i], nil
}

// ============================================================
// Mutators
// ============================================================

// Set sets an object member. An existing key keeps its position.
func (v *Value) Set(key string, val *Value) {
	if v.Kind() != KindObject {
		panic("sof: cannot set on non-object")
	}
	for i := range v.entries {
		if v.entries[i].Key == key {
			v.entries[i].Value = val
			return
		}
	}
	v.entries = append(v.entries, Entry{Key: key, Value: val})
}

// Append adds an element to an array.
func (v *Value) Append(val *Value) {
	if v.Kind() != KindArray {
		panic("sof: cannot append to non-array")
	}
	v.items = append(v.items, val)
}

// ============================================================
// Comparison
// ============================================================

// Equal reports whether a and b are the same tree. Object key order is
// significant.
func Equal(a, b *Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.entries) != len(b.entries) {
			return false
		}
		for i := range a.entries {
			if a.entries[i].Key != b.entries[i].Key {
				return false
			}
			if !Equal(a.entries[i].Value, b.entries[i].Value) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// isScalarOnly reports whether every immediate child of an array or object is
// a string. It never looks deeper than one level.
func (v *Value) isScalarOnly() bool {
	switch v.kind {
	case KindArray:
		for _, item := range v.items {
			if item.Kind() != KindString {
				return false
			}
		}
		return true
	case KindObject:
		for _, e := range v.entries {
			if e.Value.Kind() != KindString {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String returns a compact debug form of the value.
func (v *Value) String() string {
	var b strings.Builder
	v.writeDebug(&b)
	return b.String()
}

func (v *Value) writeDebug(b *strings.Builder) {
	switch v.Kind() {
	case KindString:
		fmt.Fprintf(b, "%q", v.str)
	case KindArray:
		b.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				b.WriteByte(' ')
			}
			item.writeDebug(b)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(b, "%q:", e.Key)
			e.Value.writeDebug(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString("<invalid>")
	}
}
