// Package disk implements the durable graph backend.
//
// A store directory holds three block storages (see internal/storage):
//
//   - relationships: interned relationship names
//   - nodes: node records with their property maps
//   - edges: one adjacency list per node with at least one edge
//
// Edges have no record of their own. An edge exists as a pair of identical
// tuples, one in the start node's list and one in the end node's list; a
// self-loop is two tuples in the same list. Operations that touch two lists
// are not atomic, so a crash can leave an edge visible from one endpoint
// only. [Store.Check] reports such edges and [Store.Repair] removes them.
//
// On [Open] the store rebuilds its relationship cache and id counters from
// the files. Node 0 is the root node and always exists.
//
// [Store.Backup] copies the six store files into a blobstore.BlobStore
// with optional lz4 or zstd compression and a JSON manifest carrying
// CRC32C checksums; [Restore] reverses it.
package disk
