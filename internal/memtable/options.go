package memtable

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultMaxItemCount sizes the skip list when no count is given
	DefaultMaxItemCount = 1 << 16
)

type Options struct {
	// MaxItemCount is the number of items the memtable is expected to hold before it is
	// flushed. It only bounds the skip list height, more items can still be added
	MaxItemCount int
	Seed         int64
	Logger       *log.Logger
	ID           uuid.UUID
}

type Option func(*Options)

func WithMaxItemCount(count int) Option {
	return func(o *Options) {
		o.MaxItemCount = count
	}
}

func WithSeed(seed int64) Option {
	return func(o *Options) {
		o.Seed = seed
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func WithID(id uuid.UUID) Option {
	return func(o *Options) {
		o.ID = id
	}
}

func newOptions(opts ...Option) Options {
	o := Options{
		MaxItemCount: DefaultMaxItemCount,
		Seed:         time.Now().UnixNano(),
		Logger:       log.StandardLogger(),
		ID:           uuid.New(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}
