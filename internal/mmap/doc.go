// Package mmap maps whole files read-only.
//
// The local blob store serves snapshot files from a Region instead of
// reading them through a buffer:
//
//	r, err := mmap.Map("nodes.dat.zst", mmap.HintSequential)
//	if err != nil { ... }
//	defer r.Close()
//	data, err := r.Bytes()
//
// On Unix the hint becomes an madvise(2) call; Windows ignores it.
package mmap
