package sof

import (
	"iter"
	"strconv"
)

// Version is the format version written and read by this package.
const Version = 1

// Addresses stored in the token list are 1-indexed. These two helpers are the
// only places that translate between addresses and slice indexes.

// toAddress converts a slice index to a stored address.
func toAddress(index int) int {
	return index + 1
}

// toIndex converts a stored address to a slice index.
func toIndex(addr int) int {
	return addr - 1
}

// formatAddress renders a slice index as a stored address token.
func formatAddress(index int) string {
	return strconv.Itoa(toAddress(index))
}

// iterateAddresses yields count indexes starting at start, step apart.
// It walks the element slots of a container record.
func iterateAddresses(count, start, step int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < count; i++ {
			if !yield(start + i*step) {
				return
			}
		}
	}
}
