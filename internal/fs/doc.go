// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: Represents an open file with positional read/write, sync and truncate
//   - [FileSystem]: Abstracts filesystem operations (open, remove, rename, etc.)
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// # Usage
//
// Production code should use fs.Default (which is [LocalFS]):
//
//	file, err := fs.Default.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
//
// Tests can inject [FaultyFS] to simulate failures:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.SetLimit(1024) // Fail after 1KB written
//	ffs.AddRule(".idx", fs.Fault{FailAfterBytes: -1, FailOnSync: true})
//	// inject ffs into component under test
//
// # Design Notes
//
// This package does NOT include context.Context parameters: local
// filesystem calls are not interruptible at the syscall level.
//
// Snapshot transfers, which may be rate limited, go through the blobstore
// package instead, which takes a context.
package fs
