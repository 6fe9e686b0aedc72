package memtable

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/nbroyles/nblayer/internal/merge"
	"github.com/nbroyles/nblayer/internal/skiplist"
	"github.com/nbroyles/nblayer/internal/storage"
	log "github.com/sirupsen/logrus"
)

// MemTable is the mutable, in-memory layer of the tree. Writes land here first; reads
// see it through the same Layer contract as every other layer
type MemTable[K any, V any] struct {
	id   uuid.UUID
	cmp  storage.Comparator[K]
	list *skiplist.SkipList[K, V]
	log  *log.Entry
}

var _ storage.MutableLayer[int, int] = &MemTable[int, int]{}

func New[K any, V any](cmp storage.Comparator[K], opts ...Option) *MemTable[K, V] {
	o := newOptions(opts...)

	m := &MemTable[K, V]{
		id:   o.ID,
		cmp:  cmp,
		list: skiplist.New[K, V](cmp, o.MaxItemCount, o.Seed),
		log:  o.Logger.WithField("layer", o.ID.String()),
	}
	m.log.Debugf("created memtable. max_items=%d, height=%d", o.MaxItemCount, m.list.Height())

	return m
}

func (m *MemTable[K, V]) ID() uuid.UUID {
	return m.id
}

// Len returns the number of items held
func (m *MemTable[K, V]) Len() int {
	return m.list.Len()
}

// Iterator returns a read iterator. The memtable cannot be written until it is closed
func (m *MemTable[K, V]) Iterator() (storage.LayerIterator[K, V], error) {
	return m.list.Iterator(), nil
}

// Insert adds item without checking for an existing item with the same key.
// Use ReplaceOrInsert unless duplicates are known to be impossible
func (m *MemTable[K, V]) Insert(item storage.Item[K, V]) error {
	iter := m.list.MutIterator()
	defer iter.Close()

	if err := iter.Seek(storage.IncludedBound(item.Key)); err != nil {
		return fmt.Errorf("failed seeking to insert position: %w", err)
	}
	iter.InsertBefore(item)

	m.log.Debugf("inserted key=%v", item.Key)

	return nil
}

// ReplaceOrInsert overwrites the value of the item with the same key in place, or
// inserts item if there is none
func (m *MemTable[K, V]) ReplaceOrInsert(item storage.Item[K, V]) error {
	iter := m.list.MutIterator()
	defer iter.Close()

	if err := iter.Seek(storage.IncludedBound(item.Key)); err != nil {
		return fmt.Errorf("failed seeking to insert position: %w", err)
	}

	if found := iter.Get(); found != nil && m.cmp(found.Key, item.Key) == 0 {
		found.Value = item.Value
		m.log.Debugf("replaced key=%v", item.Key)
		return nil
	}

	iter.InsertBefore(item)
	m.log.Debugf("inserted key=%v", item.Key)

	return nil
}

// ReplaceRange merges item into the memtable starting at lowerBound. mergeFn decides
// the fate of every existing item met
func (m *MemTable[K, V]) ReplaceRange(item storage.Item[K, V], lowerBound storage.Bound[K],
	mergeFn storage.MergeFn[K, V]) error {
	iter := m.list.MutIterator()
	defer iter.Close()

	if err := merge.ReplaceRange[K, V](m.log, iter, item, lowerBound, mergeFn); err != nil {
		return fmt.Errorf("failed replacing range from %s bound: %w", lowerBound.Kind, err)
	}

	m.log.Debugf("replaced range for key=%v", item.Key)

	return nil
}

// Get returns the value stored for key
func (m *MemTable[K, V]) Get(key K) (V, bool) {
	iter := m.list.Iterator()
	defer iter.Close()

	_ = iter.Seek(storage.IncludedBound(key))
	if found := iter.Get(); found != nil && m.cmp(found.Key, key) == 0 {
		return found.Value, true
	}

	var zero V
	return zero, false
}

// Erase removes the first item stored for key. Returns true if key was removed and
// false if key was not present
func (m *MemTable[K, V]) Erase(key K) bool {
	iter := m.list.MutIterator()
	defer iter.Close()

	_ = iter.Seek(storage.IncludedBound(key))
	if found := iter.Get(); found == nil || m.cmp(found.Key, key) != 0 {
		return false
	}

	iter.Erase()
	m.log.Debugf("erased key=%v", key)

	return true
}

// Dump writes the memtable ID followed by the skip list's own header and level by level
// rendering, which are taken under a single read lock
func (m *MemTable[K, V]) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "memtable %s ", m.id); err != nil {
		return fmt.Errorf("failed writing dump header: %w", err)
	}

	if err := m.list.Dump(w); err != nil {
		return fmt.Errorf("failed dumping skip list: %w", err)
	}

	return nil
}

// Check validates the structure of the underlying skip list
func (m *MemTable[K, V]) Check() error {
	return m.list.Check()
}

// Clear drops every item
func (m *MemTable[K, V]) Clear() {
	m.list.Clear()
	m.log.Info("cleared memtable")
}

// AsLayer returns a read-only view of the memtable
func (m *MemTable[K, V]) AsLayer() storage.Layer[K, V] {
	return &readOnly[K, V]{m: m}
}

type readOnly[K any, V any] struct {
	m *MemTable[K, V]
}

func (r *readOnly[K, V]) Iterator() (storage.LayerIterator[K, V], error) {
	return r.m.Iterator()
}
