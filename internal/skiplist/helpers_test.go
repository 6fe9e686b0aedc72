package skiplist

import (
	"testing"

	"github.com/nbroyles/nblayer/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newList() *SkipList[int, string] {
	return New[int, string](storage.OrderedComparator[int](), 1024, 1)
}

func insert(list *SkipList[int, string], key int, value string) {
	iter := list.MutIterator()
	defer iter.Close()

	_ = iter.Seek(storage.IncludedBound(key))
	iter.InsertBefore(storage.NewItem(key, value))
}

// erase removes key if present and reports whether it did
func erase(list *SkipList[int, string], key int) bool {
	iter := list.MutIterator()
	defer iter.Close()

	_ = iter.Seek(storage.IncludedBound(key))
	if item := iter.Get(); item == nil || item.Key != key {
		return false
	}

	iter.Erase()
	return true
}

func items(t *testing.T, list *SkipList[int, string]) []storage.Item[int, string] {
	iter := list.Iterator()
	defer iter.Close()

	var out []storage.Item[int, string]
	require.NoError(t, iter.Seek(storage.UnboundedBound[int]()))
	for item := iter.Get(); item != nil; item = iter.Get() {
		out = append(out, *item)
		require.NoError(t, iter.Advance())
	}

	return out
}

func assertItems(t *testing.T, list *SkipList[int, string], expected ...storage.Item[int, string]) {
	actual := items(t, list)
	if len(expected) == 0 {
		assert.Empty(t, actual)
	} else {
		assert.Equal(t, expected, actual)
	}
	assert.NoError(t, list.Check())
}

func item(key int, value string) storage.Item[int, string] {
	return storage.NewItem(key, value)
}
