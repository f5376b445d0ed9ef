// Package hash provides the CRC32-Castagnoli checksums used to verify
// snapshot files.
//
// Reader checksums a stream while it is copied:
//
//	r := hash.NewReader(f)
//	_, err := io.Copy(dst, r)
//	sum, n := r.Sum32(), r.N()
//
// Go's crc32 package uses SSE4.2 or the ARM CRC extension when available.
package hash
