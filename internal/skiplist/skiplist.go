package skiplist

import (
	"math/bits"
	"math/rand"
	"sync"

	"github.com/nbroyles/nblayer/internal/storage"
)

// pointerList holds one link per level. The head table is a pointer list with no
// owning node; every other pointer list belongs to a node and is as long as the node
// is tall
type pointerList[K any, V any] []*node[K, V]

// node owns exactly one item. Its height is len(next) and never changes
type node[K any, V any] struct {
	item storage.Item[K, V]
	next pointerList[K, V]
}

// SkipList is an implementation of a data structure that provides
// O(log n) insertion and removal without complicated self-balancing logic
// required of similar tree-like structures (e.g. red/black, AVL trees)
// See the following for more details:
//   - https://en.wikipedia.org/wiki/Skip_list
//   - https://igoro.com/archive/skip-lists-are-fascinating/
//
// All access goes through iterators. Any number of read iterators may be open at
// once; a write iterator excludes every other iterator for as long as it is open.
// Erased nodes are reclaimed immediately, which is only sound because erasing
// requires the exclusive lock
type SkipList[K any, V any] struct {
	lock   sync.RWMutex
	head   pointerList[K, V]
	cmp    storage.Comparator[K]
	rand   *rand.Rand // guarded by the write lock
	length int
}

// New creates a skip list sized for roughly maxItemCount items. seed drives height
// generation for new nodes
func New[K any, V any](cmp storage.Comparator[K], maxItemCount int, seed int64) *SkipList[K, V] {
	return &SkipList[K, V]{
		head: make(pointerList[K, V], MaxHeight(maxItemCount)),
		cmp:  cmp,
		rand: rand.New(rand.NewSource(seed)),
	}
}

// MaxHeight returns the number of levels that keeps searches logarithmic
// for a list of maxItemCount items, i.e. floor(log2(maxItemCount)) + 1
func MaxHeight(maxItemCount int) int {
	if maxItemCount < 1 {
		return 1
	}

	return bits.Len(uint(maxItemCount))
}

// Height returns the number of levels in the head table
func (s *SkipList[K, V]) Height() int {
	return len(s.head)
}

// Len returns the number of items in the list
func (s *SkipList[K, V]) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.length
}

// Iterator returns a read iterator. It holds the shared lock until closed
func (s *SkipList[K, V]) Iterator() *Iterator[K, V] {
	g := s.acquireRead()
	return &Iterator[K, V]{cursor: cursor[K, V]{view: g}}
}

// MutIterator returns a write iterator. It holds the exclusive lock until closed
func (s *SkipList[K, V]) MutIterator() *MutIterator[K, V] {
	g := s.acquireWrite()
	return &MutIterator[K, V]{cursor: cursor[K, V]{view: &g.readGuard}, guard: g}
}

// Clear destroys every node in the list
func (s *SkipList[K, V]) Clear() {
	g := s.acquireWrite()
	defer g.release()

	g.clear()
}

// Check walks every level and reports the first structural problem it finds
func (s *SkipList[K, V]) Check() error {
	g := s.acquireRead()
	defer g.release()

	return g.check()
}

// randomHeight flips a fair coin until it comes up tails, so that
// P(height >= i) = 2^-(i-1). Capped at the head table height.
// Level generation shamelessly stolen from
// https://igoro.com/archive/skip-lists-are-fascinating/
func (s *SkipList[K, V]) randomHeight() int {
	height := 1
	for num := s.rand.Uint64(); num&1 == 1 && height < len(s.head); num >>= 1 {
		height++
	}

	return height
}
