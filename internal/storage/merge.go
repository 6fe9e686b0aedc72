package storage

// MergeFn decides what happens when an incoming item meets an existing item while a
// range of a mutable layer is being replaced. The existing item is always the one at
// the current position of the layer. It is only valid for the duration of the call:
// once discarded it is zeroed, so anything kept from it must be returned through
// Incoming or Emit, which are copied before the layer is touched
type MergeFn[K any, V any] func(existing *Item[K, V], incoming *Item[K, V]) MergeResult[K, V]

// MergeResult is the outcome of a single MergeFn call
type MergeResult[K any, V any] struct {
	// Emit items are inserted, in order, in front of the existing item
	Emit []Item[K, V]

	// DiscardExisting removes the existing item from the layer
	DiscardExisting bool

	// Incoming is what remains of the incoming item. nil means it was consumed
	Incoming *Item[K, V]

	// Done stops the walk. Whatever remains of Incoming is inserted at the
	// current position
	Done bool
}
