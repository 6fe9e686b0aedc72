package storage

import "io"

// Layer is a sorted sequence of items. Mutable in-memory layers and immutable on-disk
// layers both implement it so that reads can merge them without knowing which is which
type Layer[K any, V any] interface {
	// Iterator returns a read-only iterator over the layer
	Iterator() (LayerIterator[K, V], error)
}

// MutableLayer is to be implemented by any data structure that's to be used as the
// in memory layer of the tree
type MutableLayer[K any, V any] interface {
	Layer[K, V]

	// Insert adds item without checking whether its key is already present
	Insert(item Item[K, V]) error

	// ReplaceOrInsert overwrites the value of an existing item with the same key,
	// or inserts item if there is none
	ReplaceOrInsert(item Item[K, V]) error

	// ReplaceRange merges item into the layer starting at lowerBound, letting
	// mergeFn decide what happens to every existing item it meets
	ReplaceRange(item Item[K, V], lowerBound Bound[K], mergeFn MergeFn[K, V]) error

	// Dump writes a human readable rendering of the layer. Debugging only
	Dump(w io.Writer) error

	// AsLayer returns a read-only view of the layer
	AsLayer() Layer[K, V]
}
