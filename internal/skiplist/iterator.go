package skiplist

import (
	"github.com/nbroyles/nblayer/internal/storage"
)

// cursor is the state shared by read and write iterators: the finger array left
// behind by the last seek. fingers[i][i] is the next node at level i, and
// fingers[0][0] is the current item
type cursor[K any, V any] struct {
	view    *readGuard[K, V]
	fingers []pointerList[K, V]
}

// Seek positions the iterator on the first item whose key is at or above bound.
// Excluded bounds are not supported and panic
func (c *cursor[K, V]) Seek(bound storage.Bound[K]) error {
	c.fingers = c.view.seek(bound)
	return nil
}

// Advance moves to the next item. Without a previous seek, it seeks to the front
func (c *cursor[K, V]) Advance() error {
	if c.fingers == nil {
		return c.Seek(storage.UnboundedBound[K]())
	}

	c.view.mustHold()

	n := c.fingers[0][0]
	if n == nil {
		return nil
	}

	// n is now the closest predecessor on every level it occupies
	for i := range n.next {
		c.fingers[i] = n.next
	}

	return nil
}

// Get returns the current item, or nil if the iterator is past the end or was
// never positioned
func (c *cursor[K, V]) Get() *storage.Item[K, V] {
	c.view.mustHold()

	if c.fingers == nil || c.fingers[0][0] == nil {
		return nil
	}

	return &c.fingers[0][0].item
}

// Iterator is a read iterator over a SkipList. The list cannot be modified while
// any Iterator is open
type Iterator[K any, V any] struct {
	cursor[K, V]
}

// DiscardOrAdvance advances; a read iterator has nothing to discard
func (i *Iterator[K, V]) DiscardOrAdvance() error {
	return i.Advance()
}

// Close releases the shared lock
func (i *Iterator[K, V]) Close() {
	i.view.release()
}

// MutIterator is a write iterator over a SkipList. While it is open no other
// iterator can be
type MutIterator[K any, V any] struct {
	cursor[K, V]
	guard *writeGuard[K, V]
}

// InsertBefore inserts item in front of the current position and leaves the
// iterator positioned on it. Callers must have seeked to the item's key for the
// list to stay ordered
func (i *MutIterator[K, V]) InsertBefore(item storage.Item[K, V]) {
	if i.fingers == nil {
		_ = i.Seek(storage.UnboundedBound[K]())
	}

	i.guard.insert(i.fingers, item)
}

// Erase removes the current item and leaves the iterator on its successor.
// Panics if the iterator is past the end
func (i *MutIterator[K, V]) Erase() {
	if i.fingers == nil {
		_ = i.Seek(storage.UnboundedBound[K]())
	}

	i.guard.erase(i.fingers)
}

// DiscardOrAdvance erases the current item
func (i *MutIterator[K, V]) DiscardOrAdvance() error {
	i.Erase()
	return nil
}

// Close releases the exclusive lock
func (i *MutIterator[K, V]) Close() {
	i.guard.release()
}

var (
	_ storage.LayerIterator[int, int]    = &Iterator[int, int]{}
	_ storage.LayerIteratorMut[int, int] = &MutIterator[int, int]{}
)
