package pkg

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nbroyles/nblayer/internal/memtable"
	"github.com/nbroyles/nblayer/internal/merge"
	"github.com/nbroyles/nblayer/internal/storage"
	log "github.com/sirupsen/logrus"
)

// ErrClosed is returned by every operation on a closed DB
var ErrClosed = errors.New("database is closed")

// value is what the DB stores per key. Deletes are recorded as tombstones so that they
// shadow older versions of the key in frozen layers
type value struct {
	data    []byte
	deleted bool
}

// DB is an in-memory key-value store. Writes go to a mutable memtable; Freeze turns the
// current memtable read-only and starts a new one. Reads merge every layer, most recent
// first, so the newest write for a key always wins
type DB struct {
	lock   sync.RWMutex
	name   string
	opts   []memtable.Option
	active *memtable.MemTable[[]byte, value]
	frozen []*memtable.MemTable[[]byte, value] // most recent first
	closed bool
	log    *log.Entry
}

var cmp = storage.BytesComparator()

// New creates a new database with the name provided. opts are applied to every memtable
// the database creates
func New(name string, opts ...memtable.Option) *DB {
	d := &DB{
		name: name,
		opts: opts,
		log:  log.WithField("db", name),
	}
	d.active = d.newMemTable()

	return d
}

func (d *DB) newMemTable() *memtable.MemTable[[]byte, value] {
	return memtable.New[[]byte, value](cmp, d.opts...)
}

// Get returns the value associated with the key. If key is not found then
// the value returned is nil
func (d *DB) Get(key []byte) ([]byte, error) {
	iter, err := d.iterator()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	if err := iter.Seek(storage.IncludedBound(key)); err != nil {
		return nil, fmt.Errorf("failed seeking to key: %w", err)
	}

	item := iter.Get()
	if item == nil || !bytes.Equal(item.Key, key) || item.Value.deleted {
		return nil, nil
	}

	return bytes.Clone(item.Value.data), nil
}

// Put inserts or updates the value if the key already exists
func (d *DB) Put(key []byte, val []byte) error {
	return d.write(key, value{data: bytes.Clone(val)})
}

// Delete deletes the specified key from the data store
func (d *DB) Delete(key []byte) error {
	return d.write(key, value{deleted: true})
}

func (d *DB) write(key []byte, val value) error {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.closed {
		return ErrClosed
	}

	if err := d.active.ReplaceOrInsert(storage.NewItem(bytes.Clone(key), val)); err != nil {
		return fmt.Errorf("failed writing to memtable: %w", err)
	}

	return nil
}

// scanBatch is the number of items Scan reads per pass over the layers
const scanBatch = 256

// Scan calls fn for every live key at or after start, in key order, until fn returns
// false. A nil start scans from the first key. Items are read in batches and no lock is
// held while fn runs, so fn may call back into the DB. Writes made during a scan may or
// may not be seen by the batches that follow
func (d *DB) Scan(start []byte, fn func(key []byte, value []byte) bool) error {
	bound := storage.UnboundedBound[[]byte]()
	if start != nil {
		bound = storage.IncludedBound(start)
	}

	var after []byte
	for {
		batch, last, more, err := d.readBatch(bound, after)
		if err != nil {
			return err
		}

		for _, item := range batch {
			if !fn(item.Key, item.Value.data) {
				return nil
			}
		}

		if !more {
			return nil
		}
		bound, after = storage.IncludedBound(last), last
	}
}

// readBatch collects up to scanBatch items from bound onwards, skipping a leading item
// whose key is after. Returns the live items, the last key read and whether any items
// remain past it
func (d *DB) readBatch(bound storage.Bound[[]byte], after []byte) ([]storage.Item[[]byte, value], []byte, bool, error) {
	iter, err := d.iterator()
	if err != nil {
		return nil, nil, false, err
	}
	defer iter.Close()

	if err := iter.Seek(bound); err != nil {
		return nil, nil, false, fmt.Errorf("failed seeking to start of scan: %w", err)
	}

	if item := iter.Get(); item != nil && after != nil && bytes.Equal(item.Key, after) {
		if err := iter.Advance(); err != nil {
			return nil, nil, false, fmt.Errorf("failed advancing scan: %w", err)
		}
	}

	var batch []storage.Item[[]byte, value]
	var last []byte
	for read := 0; read < scanBatch; read++ {
		item := iter.Get()
		if item == nil {
			return batch, last, false, nil
		}

		last = bytes.Clone(item.Key)
		if !item.Value.deleted {
			batch = append(batch, storage.NewItem(last, value{data: bytes.Clone(item.Value.data)}))
		}

		if err := iter.Advance(); err != nil {
			return nil, nil, false, fmt.Errorf("failed advancing scan: %w", err)
		}
	}

	return batch, last, iter.Get() != nil, nil
}

// Freeze makes the current memtable read-only and directs new writes to a fresh one.
// Returns the ID of the frozen memtable
func (d *DB) Freeze() (uuid.UUID, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.closed {
		return uuid.Nil, ErrClosed
	}

	frozen := d.active
	d.frozen = append([]*memtable.MemTable[[]byte, value]{frozen}, d.frozen...)
	d.active = d.newMemTable()

	d.log.WithField("layer", frozen.ID().String()).Infof("froze memtable with %d items. frozen=%d",
		frozen.Len(), len(d.frozen))

	return frozen.ID(), nil
}

// Layers returns the number of memtables, mutable and frozen
func (d *DB) Layers() int {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return len(d.frozen) + 1
}

// Close ensures that any resources used by the DB are tidied up
func (d *DB) Close() error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.closed {
		return ErrClosed
	}

	d.active.Clear()
	for _, m := range d.frozen {
		m.Clear()
	}
	d.frozen = nil
	d.closed = true

	return nil
}

func (d *DB) iterator() (storage.LayerIterator[[]byte, value], error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.closed {
		return nil, ErrClosed
	}

	layers := make([]storage.Layer[[]byte, value], 0, len(d.frozen)+1)
	layers = append(layers, d.active.AsLayer())
	for _, m := range d.frozen {
		layers = append(layers, m.AsLayer())
	}

	iter, err := merge.Layers(cmp, layers...).Iterator()
	if err != nil {
		return nil, fmt.Errorf("could not open iterator over %d layers: %w", len(layers), err)
	}

	return iter, nil
}
