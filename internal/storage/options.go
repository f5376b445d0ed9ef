package storage

import (
	"log/slog"

	"github.com/hupe1980/graphgo/internal/cache"
	"github.com/hupe1980/graphgo/internal/fs"
)

type options struct {
	fs     fs.FileSystem
	logger *slog.Logger
	cache  cache.RecordCache
}

// Option configures a Storage.
type Option func(*options)

// WithFileSystem sets the file system the directory and data files live on.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithLogger sets the logger used for recovery warnings and traces.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCache sets a cache for encoded records. Entries are keyed by the
// storage path, so one cache may serve several storages.
func WithCache(c cache.RecordCache) Option {
	return func(o *options) { o.cache = c }
}

func applyOptions(opts []Option) options {
	o := options{
		fs:     fs.Default,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
