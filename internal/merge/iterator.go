package merge

import (
	"fmt"

	"github.com/nbroyles/nblayer/internal/storage"
	log "github.com/sirupsen/logrus"
)

// Iterator merges several layers into a single sorted view. Layers are expected in order
// of most recently created to least recently created so that when more than one layer
// holds a key, only the newest copy is visible
type Iterator[K any, V any] struct {
	cmp     storage.Comparator[K]
	iters   []storage.LayerIterator[K, V]
	current int
	seeked  bool
}

// NewIterator opens an iterator on every layer. The returned iterator owns them and
// closes them all on Close
func NewIterator[K any, V any](cmp storage.Comparator[K], layers ...storage.Layer[K, V]) (*Iterator[K, V], error) {
	iters := make([]storage.LayerIterator[K, V], 0, len(layers))
	for i, layer := range layers {
		iter, err := layer.Iterator()
		if err != nil {
			closeAll(iters)
			return nil, fmt.Errorf("could not open iterator for layer %d: %w", i, err)
		}
		iters = append(iters, iter)
	}

	return &Iterator[K, V]{cmp: cmp, iters: iters, current: -1}, nil
}

func (m *Iterator[K, V]) Seek(bound storage.Bound[K]) error {
	for i, iter := range m.iters {
		if err := iter.Seek(bound); err != nil {
			return fmt.Errorf("failed seeking layer %d: %w", i, err)
		}
	}

	m.seeked = true
	m.pick()

	return nil
}

func (m *Iterator[K, V]) Advance() error {
	if !m.seeked {
		return m.Seek(storage.UnboundedBound[K]())
	}

	if m.current < 0 {
		return nil
	}

	key := m.iters[m.current].Get().Key

	// skip this key in every layer, older layers hold shadowed versions of it
	for i, iter := range m.iters {
		for item := iter.Get(); item != nil && m.cmp(item.Key, key) == 0; item = iter.Get() {
			if i != m.current {
				log.Debugf("skipping key=%v in layer %d since newer version found", key, i)
			}
			if err := iter.Advance(); err != nil {
				return fmt.Errorf("failed advancing layer %d: %w", i, err)
			}
		}
	}

	m.pick()

	return nil
}

func (m *Iterator[K, V]) Get() *storage.Item[K, V] {
	if m.current < 0 {
		return nil
	}

	return m.iters[m.current].Get()
}

// DiscardOrAdvance advances; a merged view is read-only
func (m *Iterator[K, V]) DiscardOrAdvance() error {
	return m.Advance()
}

func (m *Iterator[K, V]) Close() {
	closeAll(m.iters)
	m.iters = nil
	m.current = -1
}

// pick selects the layer holding the smallest key. Ties go to the most recent layer
func (m *Iterator[K, V]) pick() {
	m.current = -1

	var best *storage.Item[K, V]
	for i, iter := range m.iters {
		item := iter.Get()
		if item == nil {
			continue
		}

		if best == nil || m.cmp(item.Key, best.Key) < 0 {
			best = item
			m.current = i
		}
	}
}

func closeAll[K any, V any](iters []storage.LayerIterator[K, V]) {
	for _, iter := range iters {
		iter.Close()
	}
}

var _ storage.LayerIterator[int, int] = &Iterator[int, int]{}

type layers[K any, V any] struct {
	cmp    storage.Comparator[K]
	layers []storage.Layer[K, V]
}

// Layers returns a Layer whose iterators merge the given layers, most recent first
func Layers[K any, V any](cmp storage.Comparator[K], ls ...storage.Layer[K, V]) storage.Layer[K, V] {
	return &layers[K, V]{cmp: cmp, layers: ls}
}

func (l *layers[K, V]) Iterator() (storage.LayerIterator[K, V], error) {
	iter, err := NewIterator(l.cmp, l.layers...)
	if err != nil {
		return nil, err
	}

	return iter, nil
}
