package storage

import (
	"encoding/binary"
	"fmt"
)

const (
	// BlockSize is the allocation unit of the data file.
	BlockSize = 512

	// EntrySize is the size of one directory entry.
	EntrySize = 16

	// maxBlocks is the number of addressable blocks.
	maxBlocks = 1 << 32
)

// Allocation is a directory entry: a record id and the byte range holding it.
// The zero Allocation marks an empty slot.
type Allocation struct {
	ID       uint64
	Position uint32 // in blocks
	Length   uint32 // in bytes
}

// IsEmpty reports whether a is an empty slot.
func (a Allocation) IsEmpty() bool {
	return a == Allocation{}
}

// Blocks returns the number of blocks the allocation occupies.
func (a Allocation) Blocks() uint32 {
	return blocksFor(int(a.Length))
}

// Offset returns the byte offset of the allocation in the data file.
func (a Allocation) Offset() int64 {
	return int64(a.Position) * BlockSize
}

// End returns the first block after the allocation.
func (a Allocation) End() uint64 {
	return uint64(a.Position) + uint64(a.Blocks())
}

func (a Allocation) String() string {
	return fmt.Sprintf("Alloc(id=%d pos=%d len=%d)", a.ID, a.Position, a.Length)
}

func (a Allocation) encode(buf []byte) {
	binary.BigEndian.PutUint64(buf[0:8], a.ID)
	binary.BigEndian.PutUint32(buf[8:12], a.Position)
	binary.BigEndian.PutUint32(buf[12:16], a.Length)
}

func decodeAllocation(buf []byte) Allocation {
	return Allocation{
		ID:       binary.BigEndian.Uint64(buf[0:8]),
		Position: binary.BigEndian.Uint32(buf[8:12]),
		Length:   binary.BigEndian.Uint32(buf[12:16]),
	}
}

// blocksFor returns ceil(n/BlockSize), at least 1.
func blocksFor(n int) uint32 {
	if n <= 0 {
		return 1
	}
	return uint32((n + BlockSize - 1) / BlockSize)
}
