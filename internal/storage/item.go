package storage

import (
	"bytes"
	"cmp"
)

// Item is an in-memory representation of a key-value pair stored in a layer.
// Key is fixed once the item is stored; Value may be overwritten in place
type Item[K any, V any] struct {
	Key   K
	Value V
}

func NewItem[K any, V any](key K, value V) Item[K, V] {
	return Item[K, V]{Key: key, Value: value}
}

// Comparator defines the total order on keys. It returns a negative number when a < b,
// zero when a == b and a positive number when a > b
type Comparator[K any] func(a, b K) int

// BytesComparator orders byte slice keys lexicographically
func BytesComparator() Comparator[[]byte] {
	return bytes.Compare
}

// OrderedComparator orders keys of any builtin ordered type
func OrderedComparator[K cmp.Ordered]() Comparator[K] {
	return cmp.Compare[K]
}
