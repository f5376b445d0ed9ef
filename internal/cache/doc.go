// Package cache provides an LRU cache for encoded records.
//
// A storage consults the cache before reading a record from its data file
// and invalidates the entry whenever the record is rewritten or removed.
// One cache may be shared by several storages; keys carry the storage name.
package cache
