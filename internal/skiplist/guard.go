package skiplist

import (
	"fmt"

	"github.com/nbroyles/nblayer/internal/storage"
	log "github.com/sirupsen/logrus"
)

// readGuard is the only way to reach the links of a list. It exists from the moment
// the shared lock is acquired until it is released, and refuses to be used after that
type readGuard[K any, V any] struct {
	list *SkipList[K, V]
}

// writeGuard adds the mutating operations. It can only be obtained by taking the
// exclusive lock
type writeGuard[K any, V any] struct {
	readGuard[K, V]
}

func (s *SkipList[K, V]) acquireRead() *readGuard[K, V] {
	s.lock.RLock()
	return &readGuard[K, V]{list: s}
}

func (s *SkipList[K, V]) acquireWrite() *writeGuard[K, V] {
	s.lock.Lock()
	return &writeGuard[K, V]{readGuard[K, V]{list: s}}
}

func (g *readGuard[K, V]) mustHold() *SkipList[K, V] {
	if g.list == nil {
		log.Panic("skip list accessed after its lock was released")
	}

	return g.list
}

func (g *readGuard[K, V]) release() {
	g.mustHold().lock.RUnlock()
	g.list = nil
}

func (g *writeGuard[K, V]) release() {
	g.mustHold().lock.Unlock()
	g.list = nil
}

// seek returns, for every level, the pointer list of the last node whose key is
// below the bound (or the head table if there is none)
func (g *readGuard[K, V]) seek(bound storage.Bound[K]) []pointerList[K, V] {
	s := g.mustHold()

	if bound.Kind != storage.Unbounded && bound.Kind != storage.Included {
		log.Panicf("seek with %s bound is not supported", bound.Kind)
	}

	fingers := make([]pointerList[K, V], len(s.head))
	c := s.head
	for i := len(s.head) - 1; i >= 0; i-- {
		if bound.Kind == storage.Included {
			for c[i] != nil && s.cmp(c[i].item.Key, bound.Key) < 0 {
				c = c[i].next
			}
		}
		fingers[i] = c
	}

	return fingers
}

// insert splices a new node right after the fingers on every level it occupies
func (g *writeGuard[K, V]) insert(fingers []pointerList[K, V], item storage.Item[K, V]) {
	s := g.mustHold()

	n := &node[K, V]{item: item, next: make(pointerList[K, V], s.randomHeight())}
	for i := range n.next {
		n.next[i] = fingers[i][i]
		fingers[i][i] = n
	}

	s.length++
}

// erase unlinks the node after the level 0 finger and reclaims it
func (g *writeGuard[K, V]) erase(fingers []pointerList[K, V]) {
	s := g.mustHold()

	n := fingers[0][0]
	if n == nil {
		log.Panic("cannot erase: iterator is not positioned on an item")
	}

	for i := range n.next {
		if fingers[i][i] != n {
			log.Panicf("finger at level %d does not precede the node being erased", i)
		}
		fingers[i][i] = n.next[i]
	}

	n.next = nil
	n.item = storage.Item[K, V]{}
	s.length--
}

func (g *writeGuard[K, V]) clear() {
	s := g.mustHold()

	for n := s.head[0]; n != nil; {
		next := n.next[0]
		n.next = nil
		n.item = storage.Item[K, V]{}
		n = next
	}

	for i := range s.head {
		s.head[i] = nil
	}
	s.length = 0
}

// check verifies that every level is an ordered subsequence of level 0 and that
// every node is linked on exactly the levels below its height
func (g *readGuard[K, V]) check() error {
	s := g.mustHold()

	position := make(map[*node[K, V]]int)
	expected := make([]int, len(s.head))
	for n := s.head[0]; n != nil; n = n.next[0] {
		if len(n.next) == 0 || len(n.next) > len(s.head) {
			return fmt.Errorf("node %d has height %d, want 1..%d", len(position), len(n.next), len(s.head))
		}
		for i := range n.next {
			expected[i]++
		}
		position[n] = len(position)
	}

	if len(position) != s.length {
		return fmt.Errorf("level 0 holds %d nodes but list length is %d", len(position), s.length)
	}

	for i := range s.head {
		var prev *node[K, V]
		count := 0
		for n := s.head[i]; n != nil; n = n.next[i] {
			pos, ok := position[n]
			if !ok {
				return fmt.Errorf("node linked at level %d is missing from level 0", i)
			}
			if len(n.next) <= i {
				return fmt.Errorf("node %d linked at level %d is only %d tall", pos, i, len(n.next))
			}
			if prev != nil {
				if position[prev] >= pos {
					return fmt.Errorf("level %d links node %d after node %d", i, pos, position[prev])
				}
				if s.cmp(prev.item.Key, n.item.Key) > 0 {
					return fmt.Errorf("level %d keys out of order at node %d", i, pos)
				}
			}
			prev = n
			count++
		}

		if count != expected[i] {
			return fmt.Errorf("level %d links %d nodes, want %d", i, count, expected[i])
		}
	}

	return nil
}
