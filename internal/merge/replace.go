package merge

import (
	"fmt"

	"github.com/nbroyles/nblayer/internal/storage"
	log "github.com/sirupsen/logrus"
)

// ReplaceRange merges item into the layer behind iter, starting at lowerBound. mergeFn is
// called with every existing item met along the way for as long as something remains of
// the incoming item; whatever remains at the end is inserted at the position the walk
// stopped at. The layer is only ever touched through InsertBefore, Advance and
// DiscardOrAdvance, so merge policy lives entirely in mergeFn
func ReplaceRange[K any, V any](logger *log.Entry, iter storage.LayerIteratorMut[K, V], item storage.Item[K, V],
	lowerBound storage.Bound[K], mergeFn storage.MergeFn[K, V]) error {
	if err := iter.Seek(lowerBound); err != nil {
		return fmt.Errorf("failed seeking to start of range: %w", err)
	}

	incoming := &item
	for incoming != nil {
		existing := iter.Get()
		if existing == nil {
			break
		}

		res := mergeFn(existing, incoming)

		// Incoming may point at existing, which is zeroed once discarded
		incoming = nil
		if res.Incoming != nil {
			next := *res.Incoming
			incoming = &next
		}

		for _, emit := range res.Emit {
			iter.InsertBefore(emit)
			// step over what we just inserted so that existing is current again
			if err := iter.Advance(); err != nil {
				return fmt.Errorf("failed advancing past emitted item: %w", err)
			}
		}

		if res.DiscardExisting {
			logger.Debugf("merge discarding existing item key=%v", existing.Key)
			if err := iter.DiscardOrAdvance(); err != nil {
				return fmt.Errorf("failed discarding existing item: %w", err)
			}
		} else if !res.Done {
			if err := iter.Advance(); err != nil {
				return fmt.Errorf("failed advancing past existing item: %w", err)
			}
		}

		if res.Done {
			break
		}
	}

	if incoming != nil {
		logger.Debugf("merge inserting remaining item key=%v", incoming.Key)
		iter.InsertBefore(*incoming)
	}

	return nil
}
