package disk

import (
	"log/slog"

	"github.com/hupe1980/graphgo/internal/fs"
)

type options struct {
	fs        fs.FileSystem
	logger    *slog.Logger
	cacheSize int64
}

// Option configures a Store.
type Option func(*options)

// WithFileSystem sets the file system the store files live on.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCacheSize enables an LRU cache of encoded node records and adjacency
// lists holding up to bytes bytes. 0 disables it.
func WithCacheSize(bytes int64) Option {
	return func(o *options) {
		if bytes >= 0 {
			o.cacheSize = bytes
		}
	}
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
