package sof

// RecordKind is the tag token that starts a record.
type RecordKind string

const (
	RecordValue        RecordKind = "V"  // V <string>
	RecordPointer      RecordKind = "P"  // P <address>
	RecordArray        RecordKind = "A"  // A <n> then n inline values or pointers
	RecordObject       RecordKind = "D"  // D <n> then n of <key> + inline value or pointer
	RecordArrayValues  RecordKind = "AV" // AV <n> then n raw strings
	RecordObjectValues RecordKind = "DV" // DV <n> then n of <key> <string>
)

// String returns the tag token.
func (k RecordKind) String() string {
	return string(k)
}

// slotWidth is the number of tokens each element occupies in the body of a
// container record.
func (k RecordKind) slotWidth() int {
	switch k {
	case RecordArray, RecordObjectValues:
		return 2
	case RecordObject:
		return 3
	case RecordArrayValues:
		return 1
	default:
		return 0
	}
}
