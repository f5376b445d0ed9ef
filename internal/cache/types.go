package cache

// Key identifies one encoded record.
type Key struct {
	// Storage is the name of the storage the record belongs to.
	Storage string
	// ID is the record id.
	ID uint64
}

// RecordCache is a byte-oriented cache for encoded records.
// Returned slices must be treated as read-only.
type RecordCache interface {
	// Get returns a cached record. ok=false if missing.
	Get(key Key) (b []byte, ok bool)
	// Set caches a record. The caller must not modify b afterwards.
	Set(key Key, b []byte)
	// Delete removes one entry.
	Delete(key Key)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key Key) bool)
	// Stats returns cache statistics.
	Stats() (hits, misses int64)
}
