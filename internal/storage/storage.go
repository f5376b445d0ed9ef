package storage

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/graphgo/internal/cache"
	"github.com/hupe1980/graphgo/internal/conv"
	"github.com/hupe1980/graphgo/internal/fs"
)

// Record is a value that can be kept in a Storage.
type Record interface {
	ID() uint64
	MarshalBinary() ([]byte, error)
}

// DecodeFunc restores a record from the bytes produced by MarshalBinary.
type DecodeFunc[T Record] func(data []byte) (T, error)

const (
	indexSuffix = ".idx"
	dataSuffix  = ".dat"
)

// Files returns the directory and data file names of the storage called name.
func Files(name string) (index, data string) {
	return name + indexSuffix, name + dataSuffix
}

// Storage is an id-addressed record store over a directory file and a data
// file. The data file is divided into BlockSize blocks; every record occupies
// a contiguous run of blocks found by first-fit search.
//
// Every mutation is written through: the data file is synced before the
// directory is written, and the directory is synced before the call returns.
type Storage[T Record] struct {
	mu     sync.RWMutex
	name   string
	fs     fs.FileSystem
	logger *slog.Logger
	decode DecodeFunc[T]
	cache  cache.RecordCache
	path   string

	idx fs.File
	dat fs.File

	slots     []Allocation
	byID      map[uint64]uint32
	freeSlots *roaring.Bitmap
	blocks    *roaring.Bitmap
	closed    bool
}

// Open opens or creates the storage called name in dir and recovers its
// directory.
func Open[T Record](dir, name string, decode DecodeFunc[T], opts ...Option) (*Storage[T], error) {
	o := applyOptions(opts)

	s := &Storage[T]{
		name:      name,
		fs:        o.fs,
		logger:    o.logger.With("storage", name),
		decode:    decode,
		cache:     o.cache,
		path:      filepath.Join(dir, name),
		byID:      make(map[uint64]uint32),
		freeSlots: roaring.New(),
		blocks:    roaring.New(),
	}

	idxName, datName := Files(name)

	var err error
	s.idx, err = s.fs.OpenFile(filepath.Join(dir, idxName), os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("storage %s: open directory: %w", name, err)
	}
	s.dat, err = s.fs.OpenFile(filepath.Join(dir, datName), os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		_ = s.idx.Close()
		return nil, fmt.Errorf("storage %s: open data: %w", name, err)
	}

	if err := s.recover(); err != nil {
		_ = s.idx.Close()
		_ = s.dat.Close()
		return nil, err
	}
	return s, nil
}

// recover rebuilds the in-memory directory from the directory file.
func (s *Storage[T]) recover() error {
	idxSize, err := fs.Size(s.idx)
	if err != nil {
		return fmt.Errorf("storage %s: stat directory: %w", s.name, err)
	}
	if idxSize%EntrySize != 0 {
		return &CorruptionError{Name: s.name, Reason: fmt.Sprintf("directory length %d is not a multiple of %d", idxSize, EntrySize)}
	}
	if idxSize/EntrySize > math.MaxUint32 {
		return &CorruptionError{Name: s.name, Reason: "directory too large"}
	}
	datSize, err := fs.Size(s.dat)
	if err != nil {
		return fmt.Errorf("storage %s: stat data: %w", s.name, err)
	}

	buf := make([]byte, idxSize)
	if err := readFull(s.idx, buf, 0); err != nil {
		return fmt.Errorf("storage %s: read directory: %w", s.name, err)
	}

	s.slots = make([]Allocation, idxSize/EntrySize)
	for i := range s.slots {
		slot := uint32(i)
		a := decodeAllocation(buf[i*EntrySize:])
		if a.IsEmpty() {
			s.freeSlots.Add(slot)
			continue
		}

		if a.Offset()+int64(a.Length) > datSize {
			return &CorruptionError{Name: s.name, Reason: fmt.Sprintf("%v extends past data file end %d", a, datSize)}
		}

		if prev, ok := s.byID[a.ID]; ok {
			// An interrupted upsert leaves two entries for one id.
			s.logger.Warn("duplicate directory entry, keeping later slot",
				"id", a.ID, "slot", slot, "previous_slot", prev)
			s.release(prev)
		}

		for b := uint64(a.Position); b < a.End(); b++ {
			if s.blocks.Contains(uint32(b)) {
				return &CorruptionError{Name: s.name, Reason: fmt.Sprintf("%v overlaps another allocation at block %d", a, b)}
			}
		}

		s.slots[i] = a
		s.byID[a.ID] = slot
		s.blocks.AddRange(uint64(a.Position), a.End())
	}

	s.logger.Debug("recovered directory",
		"records", len(s.byID),
		"slots", len(s.slots),
		"blocks", s.blocks.GetCardinality())
	return nil
}

// Name returns the storage name.
func (s *Storage[T]) Name() string {
	return s.name
}

// Add stores rec, replacing any record with the same id.
//
// The new copy is written to a free region before the directory points at
// it, so the previous copy stays intact until the directory update is
// synced. The two files are not updated atomically.
func (s *Storage[T]) Add(rec T) error {
	data, err := rec.MarshalBinary()
	if err != nil {
		return fmt.Errorf("storage %s: encode record %d: %w", s.name, rec.ID(), err)
	}
	if len(data) == 0 {
		return ErrEmptyRecord
	}
	length, err := conv.IntToUint32(len(data))
	if err != nil {
		return fmt.Errorf("storage %s: record %d: %w: %w", s.name, rec.ID(), ErrFull, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	n := blocksFor(len(data))
	pos := s.findFreeRegion(n)
	if pos+uint64(n) > maxBlocks {
		return ErrFull
	}

	entry := Allocation{ID: rec.ID(), Position: uint32(pos), Length: length}

	if _, err := s.dat.WriteAt(data, entry.Offset()); err != nil {
		return fmt.Errorf("storage %s: write record %d: %w", s.name, entry.ID, err)
	}
	if err := s.dat.Sync(); err != nil {
		return fmt.Errorf("storage %s: sync data: %w", s.name, err)
	}

	slot := s.nextSlot()
	oldSlot, replacing := s.byID[entry.ID]

	var eb [EntrySize]byte
	entry.encode(eb[:])
	if _, err := s.idx.WriteAt(eb[:], int64(slot)*EntrySize); err != nil {
		return fmt.Errorf("storage %s: write directory: %w", s.name, err)
	}
	if replacing {
		var zero [EntrySize]byte
		if _, err := s.idx.WriteAt(zero[:], int64(oldSlot)*EntrySize); err != nil {
			return fmt.Errorf("storage %s: clear directory slot: %w", s.name, err)
		}
	}
	if err := s.idx.Sync(); err != nil {
		return fmt.Errorf("storage %s: sync directory: %w", s.name, err)
	}
	s.uncache(entry.ID)

	if replacing {
		s.release(oldSlot)
	}
	if int(slot) == len(s.slots) {
		s.slots = append(s.slots, entry)
	} else {
		s.slots[slot] = entry
		s.freeSlots.Remove(slot)
	}
	s.byID[entry.ID] = slot
	s.blocks.AddRange(pos, pos+uint64(n))

	s.logger.Debug("stored record", "id", entry.ID, "slot", slot, "position", entry.Position, "length", entry.Length)
	return nil
}

// Load returns the record with the given id.
// The boolean is false when no such record exists.
func (s *Storage[T]) Load(id uint64) (T, bool, error) {
	var zero T

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return zero, false, ErrClosed
	}

	slot, ok := s.byID[id]
	if !ok {
		return zero, false, nil
	}
	a := s.slots[slot]

	buf, err := s.read(a)
	if err != nil {
		return zero, false, err
	}

	rec, err := s.decode(buf)
	if err != nil {
		return zero, false, &CorruptionError{Name: s.name, Reason: fmt.Sprintf("decode record %d", id), Err: err}
	}
	return rec, true, nil
}

// Contains reports whether a record with the given id exists.
func (s *Storage[T]) Contains(id uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok
}

// Remove deletes the record with the given id and frees its blocks and
// directory slot. It reports whether a record was removed.
func (s *Storage[T]) Remove(id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrClosed
	}

	slot, ok := s.byID[id]
	if !ok {
		return false, nil
	}

	var zero [EntrySize]byte
	if _, err := s.idx.WriteAt(zero[:], int64(slot)*EntrySize); err != nil {
		return false, fmt.Errorf("storage %s: clear directory slot: %w", s.name, err)
	}
	if err := s.idx.Sync(); err != nil {
		return false, fmt.Errorf("storage %s: sync directory: %w", s.name, err)
	}

	s.uncache(id)
	s.release(slot)
	s.logger.Debug("removed record", "id", id, "slot", slot)
	return true, nil
}

// Len returns the number of stored records.
func (s *Storage[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Allocations returns the live directory entries in slot order.
// The sequence iterates over a snapshot taken when iteration starts.
func (s *Storage[T]) Allocations() iter.Seq[Allocation] {
	return func(yield func(Allocation) bool) {
		for _, a := range s.snapshot() {
			if !yield(a) {
				return
			}
		}
	}
}

// All loads every record in slot order. Records removed while iterating are
// skipped.
func (s *Storage[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, a := range s.snapshot() {
			rec, ok, err := s.Load(a.ID)
			if err != nil {
				yield(rec, err)
				return
			}
			if !ok {
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// MaxID returns the largest stored id. The boolean is false when the
// storage is empty.
func (s *Storage[T]) MaxID() (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		maxID uint64
		found bool
	)
	for id := range s.byID {
		if !found || id > maxID {
			maxID, found = id, true
		}
	}
	return maxID, found
}

// Stats describes the space usage of a storage.
type Stats struct {
	Name       string
	Records    int
	Slots      int
	FreeSlots  int
	UsedBlocks uint64
	DataBytes  int64
}

// Stats returns current space usage.
func (s *Storage[T]) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Stats{}, ErrClosed
	}
	size, err := fs.Size(s.dat)
	if err != nil {
		return Stats{}, fmt.Errorf("storage %s: stat data: %w", s.name, err)
	}
	return Stats{
		Name:       s.name,
		Records:    len(s.byID),
		Slots:      len(s.slots),
		FreeSlots:  int(s.freeSlots.GetCardinality()),
		UsedBlocks: s.blocks.GetCardinality(),
		DataBytes:  size,
	}, nil
}

// Close closes the underlying files.
func (s *Storage[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.cache != nil {
		s.cache.Invalidate(func(k cache.Key) bool { return k.Storage == s.path })
	}
	return errors.Join(s.idx.Close(), s.dat.Close())
}

// read returns the encoded record at a, from the cache when possible.
// Must be called with mu held.
func (s *Storage[T]) read(a Allocation) ([]byte, error) {
	key := cache.Key{Storage: s.path, ID: a.ID}
	if s.cache != nil {
		if b, ok := s.cache.Get(key); ok {
			return b, nil
		}
	}

	buf := make([]byte, a.Length)
	if err := readFull(s.dat, buf, a.Offset()); err != nil {
		return nil, fmt.Errorf("storage %s: read record %d: %w", s.name, a.ID, err)
	}
	if s.cache != nil {
		s.cache.Set(key, buf)
	}
	return buf, nil
}

func (s *Storage[T]) uncache(id uint64) {
	if s.cache != nil {
		s.cache.Delete(cache.Key{Storage: s.path, ID: id})
	}
}

func (s *Storage[T]) snapshot() []Allocation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Allocation, 0, len(s.byID))
	for _, a := range s.slots {
		if !a.IsEmpty() {
			out = append(out, a)
		}
	}
	return out
}

// findFreeRegion returns the lowest block position followed by at least n
// unoccupied blocks. Must be called with mu held.
func (s *Storage[T]) findFreeRegion(n uint32) uint64 {
	current := int64(-1)
	it := s.blocks.Iterator()
	for it.HasNext() {
		used := int64(it.Next())
		if used-current-1 >= int64(n) {
			break
		}
		current = used
	}
	return uint64(current + 1)
}

// nextSlot returns the lowest empty slot, or the slot after the last one.
func (s *Storage[T]) nextSlot() uint32 {
	if !s.freeSlots.IsEmpty() {
		return s.freeSlots.Minimum()
	}
	return uint32(len(s.slots))
}

// release frees a slot and its blocks in memory.
func (s *Storage[T]) release(slot uint32) {
	a := s.slots[slot]
	if id, ok := s.byID[a.ID]; ok && id == slot {
		delete(s.byID, a.ID)
	}
	s.blocks.RemoveRange(uint64(a.Position), a.End())
	s.slots[slot] = Allocation{}
	s.freeSlots.Add(slot)
}

func readFull(r io.ReaderAt, buf []byte, off int64) error {
	n, err := r.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
