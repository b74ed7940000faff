package vfile

import (
	"github.com/sirupsen/logrus"
)

// Option configures Open and the administrative functions.
type Option func(*options)

type options struct {
	log       logrus.FieldLogger
	chunkSize int
}

func defaultOptions() *options {
	return &options{
		log: logrus.StandardLogger(),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithChunkSize sets the chunk size of byte arrays created by Open. Values
// <= 0 leave the choice to the container.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}
