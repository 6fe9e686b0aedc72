package test

import (
	"sort"
	"testing"

	"github.com/nbroyles/nblayer/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StaticLayer is an immutable layer backed by a sorted slice. Stands in for the on-disk
// layers a mutable layer gets merged with
type StaticLayer[K any, V any] struct {
	cmp   storage.Comparator[K]
	items []storage.Item[K, V]
}

func NewStaticLayer[K any, V any](cmp storage.Comparator[K], items ...storage.Item[K, V]) *StaticLayer[K, V] {
	sorted := append([]storage.Item[K, V](nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool { return cmp(sorted[i].Key, sorted[j].Key) < 0 })

	return &StaticLayer[K, V]{cmp: cmp, items: sorted}
}

// NewStringLayer builds a StaticLayer from a map. Gotta sort keys because map iteration
// order is not guaranteed, which NewStaticLayer takes care of
func NewStringLayer(entries map[string]string) *StaticLayer[string, string] {
	var items []storage.Item[string, string]
	for key, value := range entries {
		items = append(items, storage.NewItem(key, value))
	}

	return NewStaticLayer(storage.OrderedComparator[string](), items...)
}

func (s *StaticLayer[K, V]) Iterator() (storage.LayerIterator[K, V], error) {
	return &StaticIterator[K, V]{layer: s}, nil
}

type StaticIterator[K any, V any] struct {
	layer   *StaticLayer[K, V]
	pointer int
	seeked  bool
}

func (s *StaticIterator[K, V]) Seek(bound storage.Bound[K]) error {
	items := s.layer.items
	switch bound.Kind {
	case storage.Unbounded:
		s.pointer = 0
	case storage.Included:
		s.pointer = sort.Search(len(items), func(i int) bool { return s.layer.cmp(items[i].Key, bound.Key) >= 0 })
	case storage.Excluded:
		s.pointer = sort.Search(len(items), func(i int) bool { return s.layer.cmp(items[i].Key, bound.Key) > 0 })
	}
	s.seeked = true

	return nil
}

func (s *StaticIterator[K, V]) Advance() error {
	if !s.seeked {
		return s.Seek(storage.UnboundedBound[K]())
	}

	if s.pointer < len(s.layer.items) {
		s.pointer++
	}

	return nil
}

func (s *StaticIterator[K, V]) Get() *storage.Item[K, V] {
	if !s.seeked || s.pointer >= len(s.layer.items) {
		return nil
	}

	return &s.layer.items[s.pointer]
}

func (s *StaticIterator[K, V]) DiscardOrAdvance() error {
	return s.Advance()
}

func (s *StaticIterator[K, V]) Close() {}

var _ storage.Layer[string, string] = &StaticLayer[string, string]{}
var _ storage.LayerIterator[string, string] = &StaticIterator[string, string]{}

// Collect seeks iter to the front and returns every item it yields
func Collect[K any, V any](t *testing.T, iter storage.LayerIterator[K, V]) []storage.Item[K, V] {
	var items []storage.Item[K, V]

	require.NoError(t, iter.Seek(storage.UnboundedBound[K]()))
	for item := iter.Get(); item != nil; item = iter.Get() {
		items = append(items, *item)
		require.NoError(t, iter.Advance())
	}

	return items
}

// AssertLayer asserts that a full traversal of layer yields exactly expected
func AssertLayer[K any, V any](t *testing.T, layer storage.Layer[K, V], expected ...storage.Item[K, V]) {
	iter, err := layer.Iterator()
	require.NoError(t, err)
	defer iter.Close()

	actual := Collect(t, iter)
	if len(expected) == 0 {
		assert.Empty(t, actual)
	} else {
		assert.Equal(t, expected, actual)
	}
}

// StringItems turns alternating key, value arguments into items
func StringItems(kv ...string) []storage.Item[string, string] {
	var items []storage.Item[string, string]
	for i := 0; i+1 < len(kv); i += 2 {
		items = append(items, storage.NewItem(kv[i], kv[i+1]))
	}

	return items
}
