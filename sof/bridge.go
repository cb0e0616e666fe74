package sof

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ============================================================
// Native Go values
// ============================================================
//
// FromAny accepts only the shapes the format can hold. Stringify first when
// the input carries numbers, booleans or nulls.

// FromAny converts a native Go value to a Value.
//
// Accepted: string, []any, []string, map[string]any, map[string]string,
// []Entry and *Value. Go maps have no order, so their keys are sorted.
// Any other leaf fails with ErrInvalidValueKind.
func FromAny(x any) (*Value, error) {
	return fromAny(x, "$")
}

func fromAny(x any, path string) (*Value, error) {
	switch val := x.(type) {
	case string:
		return Str(val), nil

	case *Value:
		if val.Kind() == KindInvalid {
			return nil, &EncodeError{Path: path, Err: ErrInvalidValueKind}
		}
		return val, nil

	case []string:
		return Strings(val...), nil

	case []any:
		items := make([]*Value, 0, len(val))
		for i, elem := range val {
			item, err := fromAny(elem, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return Array(items...), nil

	case []Entry:
		entries := make([]Entry, 0, len(val))
		for _, e := range val {
			item, err := fromAny(e.Value, keyPath(path, e.Key))
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Key: e.Key, Value: item})
		}
		return Object(entries...), nil

	case map[string]string:
		entries := make([]Entry, 0, len(val))
		for _, k := range sortedKeys(val) {
			entries = append(entries, Entry{Key: k, Value: Str(val[k])})
		}
		return Object(entries...), nil

	case map[string]any:
		entries := make([]Entry, 0, len(val))
		for _, k := range sortedKeys(val) {
			item, err := fromAny(val[k], keyPath(path, k))
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Key: k, Value: item})
		}
		return Object(entries...), nil

	default:
		return nil, &EncodeError{Path: path, Err: fmt.Errorf("%w: %T", ErrInvalidValueKind, x)}
	}
}

// Stringify converts scalars in a native Go tree to strings, leaving arrays
// and objects in place, so the result can be passed to FromAny.
//
// Booleans and null use their JSON spelling. json.Number keeps its literal
// text. Floats use the shortest representation that round-trips.
func Stringify(x any) (any, error) {
	switch val := x.(type) {
	case nil:
		return "null", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case json.Number:
		return val.String(), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float64:
		return formatFloat(val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			s, err := Stringify(elem)
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			s, err := Stringify(elem)
			if err != nil {
				return nil, err
			}
			out[k] = s
		}
		return out, nil
	default:
		return x, nil
	}
}

func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("sof: cannot stringify %v", f)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

// ToAny converts a Value to native Go values: string, []any and
// map[string]any. Object order is lost.
func ToAny(v *Value) (any, error) {
	switch v.Kind() {
	case KindString:
		return v.str, nil
	case KindArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			x, err := ToAny(item)
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		return out, nil
	case KindObject:
		out := make(map[string]any, len(v.entries))
		for _, e := range v.entries {
			x, err := ToAny(e.Value)
			if err != nil {
				return nil, err
			}
			out[e.Key] = x
		}
		return out, nil
	default:
		return nil, ErrInvalidValueKind
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
