package bolt

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-vfile/internal/chunk"
	"github.com/robert-malhotra/go-vfile/internal/filter"
)

// Option configures a Container.
type Option func(*options) error

type options struct {
	readOnly  bool
	timeout   time.Duration
	chunkSize int
	filters   []filter.Spec
	checksum  bool
	log       logrus.FieldLogger
}

func defaultOptions() *options {
	return &options{
		timeout:   time.Second,
		chunkSize: chunk.DefaultSize,
		log:       logrus.StandardLogger(),
	}
}

// WithReadOnly opens the database read-only. The file must already exist.
func WithReadOnly() Option {
	return func(o *options) error {
		o.readOnly = true
		return nil
	}
}

// WithTimeout sets how long Open waits for the database file lock.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		o.timeout = d
		return nil
	}
}

// WithChunkSize sets the default chunk size for new byte arrays.
func WithChunkSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("chunk size must be positive, got %d", n)
		}
		o.chunkSize = n
		return nil
	}
}

// WithCompression compresses the chunks of new byte arrays with the named
// filter ("deflate" or "zstd"). Level zero selects the filter default. An
// empty name or "none" disables compression.
func WithCompression(name string, level int) Option {
	return func(o *options) error {
		if name == "" || name == "none" {
			return nil
		}
		id, err := filter.Lookup(name)
		if err != nil {
			return err
		}
		if id == filter.IDFletcher32 {
			return fmt.Errorf("%s is not a compression filter", name)
		}
		o.filters = append(o.filters, filter.Spec{ID: id, Level: level})
		return nil
	}
}

// WithChecksum appends a Fletcher-32 checksum to every chunk of new byte
// arrays.
func WithChecksum() Option {
	return func(o *options) error {
		o.checksum = true
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) error {
		o.log = l
		return nil
	}
}

// pipeline returns the filter list new arrays are created with.
func (o *options) pipeline() []filter.Spec {
	specs := append([]filter.Spec(nil), o.filters...)
	if o.checksum {
		specs = append(specs, filter.Spec{ID: filter.IDFletcher32})
	}
	return specs
}
