// Package loader reads files from disk into contents buffers.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/mhr3/filescan/contents"
	"github.com/panjf2000/ants/v2"
)

var (
	// ErrTooLarge is returned for files above the configured size limit.
	ErrTooLarge = errors.New("file too large")

	// ErrNotRegular is returned for directories and other special files.
	ErrNotRegular = errors.New("not a regular file")
)

const releaseTimeout = 5 * time.Second

// File is a loaded buffer together with the path it was read from.
type File struct {
	Path string
	*contents.Contents
}

// Loader reads files concurrently on a bounded worker pool.
type Loader struct {
	pool        *ants.Pool
	maxFileSize int64
	contentOpts []contents.Option
	logger      *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithPoolSize sets the number of files read concurrently.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if l.pool != nil {
			_ = l.pool.ReleaseTimeout(releaseTimeout)
		}
		l.pool = pool
		return nil
	}
}

// WithMaxFileSize skips files larger than n bytes. Zero disables the limit.
func WithMaxFileSize(n int64) Option {
	return func(l *Loader) error {
		l.maxFileSize = n
		return nil
	}
}

// WithContentsOptions sets the options every loaded buffer is created with.
func WithContentsOptions(opts ...contents.Option) Option {
	return func(l *Loader) error {
		l.contentOpts = opts
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// New creates a Loader. Call Release when done with it.
func New(opts ...Option) (*Loader, error) {
	pool, err := ants.NewPool(max(runtime.NumCPU(), 1))
	if err != nil {
		return nil, err
	}

	l := &Loader{
		pool:   pool,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			l.pool.Release()
			return nil, err
		}
	}
	return l, nil
}

// Release stops the worker pool and waits for its goroutines to exit.
func (l *Loader) Release() error {
	return l.pool.ReleaseTimeout(releaseTimeout)
}

// Load reads one file into a new buffer.
func (l *Loader) Load(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if err := l.check(path, info); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &File{Path: path, Contents: contents.New(data, info.ModTime(), l.contentOpts...)}, nil
}

func (l *Loader) check(path string, info os.FileInfo) error {
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	if l.maxFileSize > 0 && info.Size() > l.maxFileSize {
		return fmt.Errorf("%s: %w (%d bytes)", path, ErrTooLarge, info.Size())
	}
	return nil
}

// LoadAll loads paths concurrently and returns the buffers in path order.
// Files that cannot be loaded are logged and skipped. A canceled context
// stops the remaining loads and returns the context error.
func (l *Loader) LoadAll(ctx context.Context, paths []string) ([]*File, error) {
	loaded := make([]*File, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		err := l.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			f, err := l.Load(path)
			if err != nil {
				l.logger.Warn("skipping file", slog.String("path", path), slog.Any("err", err))
				return
			}
			loaded[i] = f
		})
		if err != nil {
			wg.Done()
			return nil, fmt.Errorf("submitting %s: %w", path, err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		for _, f := range loaded {
			if f != nil {
				f.Close()
			}
		}
		return nil, err
	}

	files := make([]*File, 0, len(loaded))
	for _, f := range loaded {
		if f != nil {
			files = append(files, f)
		}
	}
	l.logger.Debug("loaded files", slog.Int("requested", len(paths)), slog.Int("loaded", len(files)))
	return files, nil
}

// Reload returns a buffer reflecting the current state of prev's file. When
// size and modification time are unchanged prev itself is returned.
// Otherwise prev is closed and replaced by a new buffer; changed reports
// whether the content differs.
func (l *Loader) Reload(prev *File) (f *File, changed bool, err error) {
	info, err := os.Stat(prev.Path)
	if err != nil {
		return nil, false, err
	}
	if info.Size() == prev.ByteLength() && info.ModTime().Equal(prev.ModTime()) {
		return prev, false, nil
	}
	if err := l.check(prev.Path, info); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(prev.Path)
	if err != nil {
		return nil, false, err
	}
	next := &File{Path: prev.Path, Contents: contents.New(data, info.ModTime(), l.contentOpts...)}
	changed = next.Hash() != prev.Hash()
	prev.Close()

	l.logger.Debug("reloaded file", slog.String("path", prev.Path), slog.Bool("changed", changed))
	return next, changed, nil
}
