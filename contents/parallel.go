package contents

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"github.com/mhr3/filescan/search"
	"golang.org/x/sync/errgroup"
)

// FileResult is the outcome of searching one buffer. Err is set only for
// buffers that were released before they could be searched.
type FileResult struct {
	File  *Contents
	Spans []search.Span
	Err   error
}

// SearchFiles runs req against every file with at most workers concurrent
// searches. Results are in the order of files. A released file is reported
// in its FileResult; any other error, cancellation included, aborts the
// whole search.
func SearchFiles(ctx context.Context, files []*Contents, req *Request, workers int) ([]FileResult, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]FileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, f := range files {
		g.Go(func() error {
			results[i].File = f
			spans, err := f.Search(ctx, req)
			if errors.Is(err, ErrReleased) {
				f.logger.Warn("skipping released file", slog.Int("index", i))
				results[i].Err = err
				return nil
			}
			if err != nil {
				return err
			}
			results[i].Spans = spans
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
