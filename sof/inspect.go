package sof

// Stats describes the records reachable from the root of a store.
type Stats struct {
	Tokens    int                // store length
	Reachable int                // tokens that belong to a reachable record
	Records   map[RecordKind]int // reachable records by tag; inline V slots excluded
	Pointers  int                // pointers followed
	MaxDepth  int                // deepest pointer nesting

	// ForwardOnly is true when every pointer targets an address after its
	// own slot.
	ForwardOnly bool

	// Overlapping is true when some token belongs to more than one reachable
	// record, either because records overlap or because two pointers share a
	// target.
	Overlapping bool
}

// Unreachable returns the number of tokens no reachable record covers.
func (s *Stats) Unreachable() int {
	return s.Tokens - s.Reachable
}

// Inspect walks the store from the root and reports its shape. It fails on
// the same malformed input Decode fails on.
func Inspect(tokens []string) (*Stats, error) {
	return InspectWithOptions(tokens, DecodeOptions{})
}

// InspectWithOptions is Inspect with the depth and node limits of opts.
func InspectWithOptions(tokens []string, opts DecodeOptions) (*Stats, error) {
	in := &inspector{
		decoder: newDecoder(tokens, opts),
		covered: make([]bool, len(tokens)),
		stats: &Stats{
			Tokens:      len(tokens),
			Records:     make(map[RecordKind]int),
			ForwardOnly: true,
		},
	}
	if err := in.walk(0, 0); err != nil {
		return nil, err
	}
	for _, c := range in.covered {
		if c {
			in.stats.Reachable++
		}
	}
	return in.stats, nil
}

type inspector struct {
	*decoder
	covered []bool
	stats   *Stats
}

func (in *inspector) walk(i, depth int) error {
	if depth > in.maxDepth {
		return &DecodeError{Addr: toAddress(i), Err: ErrMaxDepth}
	}
	if err := in.charge(i, 1); err != nil {
		return err
	}
	if depth > in.stats.MaxDepth {
		in.stats.MaxDepth = depth
	}

	tag, err := in.token(i)
	if err != nil {
		return err
	}

	kind := RecordKind(tag)
	switch kind {
	case RecordValue:
		if _, err := in.token(i + 1); err != nil {
			return err
		}
		in.cover(i, 2)

	case RecordPointer:
		target, err := in.pointer(i + 1)
		if err != nil {
			return err
		}
		in.cover(i, 2)
		if err := in.follow(i+1, target, depth); err != nil {
			return err
		}

	case RecordArrayValues, RecordObjectValues:
		count, _, err := in.header(i, kind)
		if err != nil {
			return err
		}
		if err := in.charge(i, count); err != nil {
			return err
		}
		in.cover(i, 2+count*kind.slotWidth())

	case RecordArray, RecordObject:
		count, start, err := in.header(i, kind)
		if err != nil {
			return err
		}
		if err := in.charge(i, count); err != nil {
			return err
		}
		in.cover(i, 2+count*kind.slotWidth())
		for slot := range iterateAddresses(count, start, kind.slotWidth()) {
			tagAt := slot
			if kind == RecordObject {
				tagAt++ // skip key
			}
			switch RecordKind(in.data[tagAt]) {
			case RecordValue:
			case RecordPointer:
				target, err := in.pointer(tagAt + 1)
				if err != nil {
					return err
				}
				if err := in.follow(tagAt+1, target, depth); err != nil {
					return err
				}
			default:
				return &DecodeError{Addr: toAddress(tagAt), Token: in.data[tagAt], Err: ErrUnknownRecordKind}
			}
		}

	default:
		return &DecodeError{Addr: toAddress(i), Token: tag, Err: ErrUnknownRecordKind}
	}

	in.stats.Records[kind]++
	return nil
}

// follow walks the record a pointer stored at index slot refers to.
func (in *inspector) follow(slot, target, depth int) error {
	in.stats.Pointers++
	if target <= slot {
		in.stats.ForwardOnly = false
	}
	return in.walk(target, depth+1)
}

func (in *inspector) cover(start, n int) {
	for j := start; j < start+n; j++ {
		if in.covered[j] {
			in.stats.Overlapping = true
		}
		in.covered[j] = true
	}
}
