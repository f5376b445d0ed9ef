package mmap

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrClosed is returned by Bytes after Close.
var ErrClosed = errors.New("mmap: region closed")

// Hint tells the kernel how a region will be read.
type Hint uint8

const (
	HintNormal Hint = iota
	HintSequential
	HintRandom
)

// Region is a read-only mapping of a whole file.
type Region struct {
	mu     sync.RWMutex
	data   []byte
	unmap  func() error
	closed bool
}

// Map maps the file at path read-only and applies hint to the mapping.
// The hint is best effort; a platform that ignores it still maps the file.
func Map(path string, hint Hint) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size == 0 {
		return &Region{}, nil
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("mmap: %s: %d bytes exceed the address space", path, size)
	}

	data, unmap, err := mapFile(f, int(size))
	if err != nil {
		return nil, fmt.Errorf("mmap: %s: %w", path, err)
	}
	_ = advise(data, hint)
	return &Region{data: data, unmap: unmap}, nil
}

// Bytes returns the mapped contents. The slice must not be used after Close.
// An empty file yields a nil slice.
func (r *Region) Bytes() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}
	return r.data, nil
}

// Len returns the mapped size in bytes.
func (r *Region) Len() int {
	return len(r.data)
}

// Close unmaps the region. Calling it again is a no-op.
func (r *Region) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.unmap == nil {
		return nil
	}
	return r.unmap()
}
