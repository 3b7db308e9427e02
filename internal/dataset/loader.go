package dataset

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader reads the configured file once and hands out the same Dataset
// for the rest of the process lifetime. Failed loads are not cached.
type Loader struct {
	path   string
	logger *slog.Logger
	read   func(path string) (*Dataset, error)

	group singleflight.Group
	mu    sync.RWMutex
	ds    *Dataset
}

// NewLoader creates a loader for the CSV file at path.
func NewLoader(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		path:   path,
		logger: logger.With(slog.String("component", "dataset_loader")),
		read:   ReadFile,
	}
}

// Path returns the configured source file.
func (l *Loader) Path() string {
	return l.path
}

// Cached returns the dataset if it has been loaded.
func (l *Loader) Cached() (*Dataset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ds, l.ds != nil
}

// Load returns the cached dataset, reading the file on first use.
// Concurrent first calls share a single read.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	if ds, ok := l.Cached(); ok {
		return ds, nil
	}

	ch := l.group.DoChan(l.path, func() (interface{}, error) {
		if ds, ok := l.Cached(); ok {
			return ds, nil
		}

		start := time.Now()
		ds, err := l.read(l.path)
		if err != nil {
			l.logger.ErrorContext(ctx, "dataset load failed",
				slog.String("path", l.path),
				slog.String("error", err.Error()))
			return nil, err
		}

		l.mu.Lock()
		l.ds = ds
		l.mu.Unlock()

		l.logger.InfoContext(ctx, "dataset loaded",
			slog.String("path", l.path),
			slog.Int("rows", ds.Len()),
			slog.Int("columns", len(ds.columns)),
			slog.Int("invalid_year_cells", ds.InvalidYearCells()),
			slog.Duration("duration", time.Since(start)))
		return ds, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Dataset), nil
	}
}
