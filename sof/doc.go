// Package sof implements the Scratch object format, a flat address-based
// encoding of JSON-like trees into a single list of strings.
//
// The format exists for hosts that can only store a one-dimensional list of
// strings, such as a Scratch list variable. A tree of strings, arrays and
// objects is flattened into tagged records that refer to each other by
// address.
//
// # Data Model
//
// Scalars: string only. Numbers and booleans are stored as their text.
// Containers: array, object (ordered keys).
//
// # Records
//
//	V  <string>                       scalar value
//	P  <address>                      pointer to another record
//	A  <n> (V <string> | P <addr>)*n  array
//	D  <n> (<key> (V <string> | P <addr>))*n
//	AV <n> <string>*n                 array of scalars (optimized)
//	DV <n> (<key> <string>)*n         object of scalar values (optimized)
//
// # Addressing
//
// This package writes and reads format version 1. There is no header: the
// root record starts at the first token. Addresses stored in P slots are
// 1-indexed, so address n names the n-th token of the list, which is what
// Scratch's "item n of list" block expects.
//
// # Example
//
//	["alfa", {"b": "bravo"}]
//
// encodes (optimize off) as
//
//	A 2 V alfa P 7 D 1 b V bravo
//
// The A record occupies addresses 1-6; its second element points to the D
// record starting at address 7.
package sof
