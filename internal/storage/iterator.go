package storage

// LayerIterator walks the items of a layer in key order. Implementations that hold
// locks keep them until Close is called, so always Close an iterator once done with it
type LayerIterator[K any, V any] interface {
	// Seek positions the iterator on the first item that satisfies bound
	Seek(bound Bound[K]) error

	// Advance moves to the next item. Seeks to the start of the layer if Seek
	// was never called
	Advance() error

	// Get returns the current item or nil if the iterator is past the end.
	// The item must not be modified through a read-only iterator
	Get() *Item[K, V]

	// DiscardOrAdvance drops the current item if the iterator is able to,
	// and advances otherwise
	DiscardOrAdvance() error

	// Close releases resources held by the iterator
	Close()
}

// LayerIteratorMut is the write side of LayerIterator. It is the vocabulary a merge
// driver uses to rewrite a range of a mutable layer
type LayerIteratorMut[K any, V any] interface {
	LayerIterator[K, V]

	// InsertBefore inserts item in front of the current position and leaves the
	// iterator positioned on it
	InsertBefore(item Item[K, V])

	// Erase removes the current item and leaves the iterator on its successor
	Erase()
}
