// Package contents holds immutable file buffers and answers search and
// extraction requests against them.
package contents

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/mhr3/filescan/ascii"
	"github.com/mhr3/filescan/lineindex"
)

// Contents is the immutable content of one file at one point in time. A
// changed file gets a new Contents; the old one is closed.
//
// All methods are safe for concurrent use.
type Contents struct {
	size    int64
	modTime time.Time
	hash    uint64
	isASCII bool

	lease lease

	indexOnce sync.Once
	index     *lineindex.Index

	extent int
	logger *slog.Logger
}

// Option configures a Contents.
type Option func(*Contents)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Contents) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// WithTextExtent sets how many bytes extracts may reach around a match.
// Default is lineindex.DefaultMaxTextExtent.
func WithTextExtent(n int) Option {
	return func(c *Contents) {
		if n >= 0 {
			c.extent = n
		}
	}
}

// New takes ownership of data; the caller must not modify it afterwards.
func New(data []byte, modTime time.Time, opts ...Option) *Contents {
	c := &Contents{
		size:    int64(len(data)),
		modTime: modTime,
		hash:    xxhash.Sum64(data),
		isASCII: ascii.Valid(data),
		lease:   lease{data: data},
		extent:  lineindex.DefaultMaxTextExtent,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ByteLength returns the size of the buffer in bytes.
func (c *Contents) ByteLength() int64 { return c.size }

// ModTime returns the last-write time of the file the buffer was read from.
func (c *Contents) ModTime() time.Time { return c.modTime }

// Hash returns the xxhash of the content.
func (c *Contents) Hash() uint64 { return c.hash }

// IsASCII reports whether every byte is below 0x80.
func (c *Contents) IsASCII() bool { return c.isASCII }

// Close marks the buffer as replaced. Calls in flight finish normally; the
// storage is dropped when the last of them returns and later calls fail with
// ErrReleased. The cached line index holds offsets only and keeps no
// reference to the storage. Close is idempotent.
func (c *Contents) Close() {
	c.lease.close()
}

func (c *Contents) lineIndex(data []byte) *lineindex.Index {
	c.indexOnce.Do(func() {
		c.index = lineindex.Build(data)
	})
	return c.index
}

// text exposes a pinned buffer and its line index to the compound filter.
type text struct {
	data  []byte
	lines *lineindex.Index
}

func (t text) Len() int { return len(t.data) }

func (t text) Slice(start, end int) []byte { return t.data[start:end:end] }

func (t text) LineRange(pos int) (start, end int) { return t.lines.LineRange(pos) }
