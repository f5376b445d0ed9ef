// Package blobstore provides the storage abstraction snapshots are written
// to and restored from.
//
// BlobStore is the interface for reading and writing named blobs (snapshot
// files, manifests). Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local directory; reads are memory mapped, writes are atomic renames
//   - MemoryStore: In-process map, for tests and throwaway snapshots
//
// # Custom Implementations
//
// Implement the BlobStore interface to support other backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)            // Open for reading
//	    Create(ctx, name) (WritableBlob, error)  // Create for writing
//	    Put(ctx, name, data) error               // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
