package sof

import (
	"strconv"
)

// DefaultMaxDepth is the nesting limit used when DecodeOptions.MaxDepth is
// zero. Every pointer followed counts as one level.
const DefaultMaxDepth = 10000

// DefaultNodesPerToken and MinMaxNodes set the value budget used when
// DecodeOptions.MaxNodes is zero: DefaultNodesPerToken values per store
// token, and never fewer than MinMaxNodes.
const (
	DefaultNodesPerToken = 4
	MinMaxNodes          = 1 << 16
)

// DecodeOptions configures DecodeWithOptions.
type DecodeOptions struct {
	// MaxDepth bounds pointer nesting. Zero means DefaultMaxDepth.
	MaxDepth int

	// MaxNodes bounds the number of records and element values built.
	// Records reached through several pointers are built once per pointer,
	// so this caps the work a store with shared targets can demand.
	// Zero means the default scaled to the store length.
	MaxNodes int
}

// Decode rebuilds the tree whose root record starts at the first token.
func Decode(tokens []string) (*Value, error) {
	return DecodeWithOptions(tokens, DecodeOptions{})
}

// DecodeWithOptions is Decode with explicit options.
func DecodeWithOptions(tokens []string, opts DecodeOptions) (*Value, error) {
	return newDecoder(tokens, opts).decode(0, 0)
}

// DecodeAt rebuilds the tree whose record starts at the 1-indexed address addr.
func DecodeAt(tokens []string, addr int) (*Value, error) {
	if addr < 1 || addr > len(tokens) {
		return nil, &DecodeError{Addr: addr, Err: ErrDanglingPointer}
	}
	return newDecoder(tokens, DecodeOptions{}).decode(toIndex(addr), 0)
}

type decoder struct {
	data     []string
	maxDepth int
	budget   int // nodes left to build
}

func newDecoder(tokens []string, opts DecodeOptions) *decoder {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	budget := opts.MaxNodes
	if budget <= 0 {
		budget = max(DefaultNodesPerToken*len(tokens), MinMaxNodes)
	}
	return &decoder{data: tokens, maxDepth: maxDepth, budget: budget}
}

// charge spends n nodes of the budget for the record at index i.
func (d *decoder) charge(i, n int) error {
	d.budget -= n
	if d.budget < 0 {
		return &DecodeError{Addr: toAddress(i), Err: ErrTooLarge}
	}
	return nil
}

// decode reads the record starting at slice index i.
func (d *decoder) decode(i, depth int) (*Value, error) {
	if depth > d.maxDepth {
		return nil, &DecodeError{Addr: toAddress(i), Err: ErrMaxDepth}
	}
	if err := d.charge(i, 1); err != nil {
		return nil, err
	}

	tag, err := d.token(i)
	if err != nil {
		return nil, err
	}

	switch kind := RecordKind(tag); kind {
	case RecordValue:
		s, err := d.token(i + 1)
		if err != nil {
			return nil, err
		}
		return Str(s), nil

	case RecordPointer:
		target, err := d.pointer(i + 1)
		if err != nil {
			return nil, err
		}
		return d.decode(target, depth+1)

	case RecordArray:
		count, start, err := d.header(i, kind)
		if err != nil {
			return nil, err
		}
		if err := d.charge(i, count); err != nil {
			return nil, err
		}
		items := make([]*Value, 0, count)
		for slot := range iterateAddresses(count, start, kind.slotWidth()) {
			item, err := d.decodeSlot(slot, depth)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return Array(items...), nil

	case RecordObject:
		count, start, err := d.header(i, kind)
		if err != nil {
			return nil, err
		}
		if err := d.charge(i, count); err != nil {
			return nil, err
		}
		obj := newObjectBuilder(count)
		for slot := range iterateAddresses(count, start, kind.slotWidth()) {
			val, err := d.decodeSlot(slot+1, depth)
			if err != nil {
				return nil, err
			}
			obj.set(d.data[slot], val)
		}
		return obj.value(), nil

	case RecordArrayValues:
		count, start, err := d.header(i, kind)
		if err != nil {
			return nil, err
		}
		if err := d.charge(i, count); err != nil {
			return nil, err
		}
		items := make([]*Value, 0, count)
		for slot := range iterateAddresses(count, start, kind.slotWidth()) {
			items = append(items, Str(d.data[slot]))
		}
		return Array(items...), nil

	case RecordObjectValues:
		count, start, err := d.header(i, kind)
		if err != nil {
			return nil, err
		}
		if err := d.charge(i, count); err != nil {
			return nil, err
		}
		obj := newObjectBuilder(count)
		for slot := range iterateAddresses(count, start, kind.slotWidth()) {
			obj.set(d.data[slot], Str(d.data[slot+1]))
		}
		return obj.value(), nil

	default:
		return nil, &DecodeError{Addr: toAddress(i), Token: tag, Err: ErrUnknownRecordKind}
	}
}

// decodeSlot reads an element slot of an A or D record: an inline V <s> or a
// P <address>.
func (d *decoder) decodeSlot(i, depth int) (*Value, error) {
	tag := d.data[i]
	switch RecordKind(tag) {
	case RecordValue:
		return Str(d.data[i+1]), nil
	case RecordPointer:
		target, err := d.pointer(i + 1)
		if err != nil {
			return nil, err
		}
		return d.decode(target, depth+1)
	default:
		return nil, &DecodeError{Addr: toAddress(i), Token: tag, Err: ErrUnknownRecordKind}
	}
}

// header reads the count of the container record at i and returns the count
// and the index of its first element slot. The whole body must fit in the
// store.
func (d *decoder) header(i int, kind RecordKind) (count, start int, err error) {
	count, err = d.integer(i + 1)
	if err != nil {
		return 0, 0, err
	}
	start = i + 2
	if count > len(d.data) || start+count*kind.slotWidth() > len(d.data) {
		return 0, 0, &DecodeError{Addr: toAddress(i), Token: string(kind), Err: ErrTruncated}
	}
	return count, start, nil
}

// pointer reads the address token at i and returns the slice index it names.
func (d *decoder) pointer(i int) (int, error) {
	addr, err := d.integer(i)
	if err != nil {
		return 0, err
	}
	if addr < 1 || addr > len(d.data) {
		return 0, &DecodeError{Addr: toAddress(i), Token: d.data[i], Err: ErrDanglingPointer}
	}
	return toIndex(addr), nil
}

func (d *decoder) integer(i int) (int, error) {
	tok, err := d.token(i)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(tok, 10, strconv.IntSize-1)
	if err != nil {
		return 0, &DecodeError{Addr: toAddress(i), Token: tok, Err: ErrMalformedInteger}
	}
	return int(n), nil
}

func (d *decoder) token(i int) (string, error) {
	if i < 0 || i >= len(d.data) {
		return "", &DecodeError{Addr: toAddress(i), Err: ErrTruncated}
	}
	return d.data[i], nil
}

// objectBuilder collects object entries in order. A repeated key replaces the
// earlier value in place.
type objectBuilder struct {
	entries []Entry
	seen    map[string]int
}

func newObjectBuilder(n int) *objectBuilder {
	return &objectBuilder{
		entries: make([]Entry, 0, n),
		seen:    make(map[string]int, n),
	}
}

func (b *objectBuilder) set(key string, v *Value) {
	if i, ok := b.seen[key]; ok {
		b.entries[i].Value = v
		return
	}
	b.seen[key] = len(b.entries)
	b.entries = append(b.entries, Entry{Key: key, Value: v})
}

func (b *objectBuilder) value() *Value {
	return Object(b.entries...)
}
