// Package storage implements a block allocator with an id-addressed
// directory over a pair of files.
//
// A storage called "nodes" keeps two files:
//
//   - nodes.idx: a directory of 16-byte entries (id u64, block position
//     u32, byte length u32, big-endian). An all-zero entry is an empty slot.
//   - nodes.dat: record bytes, addressed in 512-byte blocks.
//
// Records are placed with first-fit search over a roaring bitmap of
// occupied blocks; empty directory slots are tracked in a second bitmap and
// the lowest one is reused first. [Storage.Add] with an existing id writes
// the new copy elsewhere and then releases the old blocks and slot.
//
// On [Open] the directory is read back and validated. A directory whose
// length is not a multiple of [EntrySize], an entry that points past the end
// of the data file, or two entries sharing a block fail with a
// [*CorruptionError].
package storage
