package merge

import (
	"github.com/nbroyles/nblayer/internal/storage"
)

// Overwrite returns a MergeFn that replaces every existing item holding the incoming key
// and leaves all other items alone
func Overwrite[K any, V any](cmp storage.Comparator[K]) storage.MergeFn[K, V] {
	return func(existing *storage.Item[K, V], incoming *storage.Item[K, V]) storage.MergeResult[K, V] {
		c := cmp(existing.Key, incoming.Key)
		switch {
		case c < 0:
			return storage.MergeResult[K, V]{Incoming: incoming}
		case c == 0:
			return storage.MergeResult[K, V]{DiscardExisting: true, Incoming: incoming}
		default:
			return storage.MergeResult[K, V]{Incoming: incoming, Done: true}
		}
	}
}

// Accumulate returns a MergeFn that folds the value of every existing item holding the
// incoming key into the incoming value, so that a single item remains
func Accumulate[K any, V any](cmp storage.Comparator[K], combine func(existing V, incoming V) V) storage.MergeFn[K, V] {
	return func(existing *storage.Item[K, V], incoming *storage.Item[K, V]) storage.MergeResult[K, V] {
		c := cmp(existing.Key, incoming.Key)
		switch {
		case c < 0:
			return storage.MergeResult[K, V]{Incoming: incoming}
		case c == 0:
			merged := storage.NewItem(incoming.Key, combine(existing.Value, incoming.Value))
			return storage.MergeResult[K, V]{DiscardExisting: true, Incoming: &merged}
		default:
			return storage.MergeResult[K, V]{Incoming: incoming, Done: true}
		}
	}
}
