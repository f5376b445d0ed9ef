// Package graphgo provides an embedded graph store for Go.
//
// A graph holds nodes with typed properties, interned relationships and
// directed edges between nodes. It is backed either by a durable on-disk
// engine (Open) or by process memory (NewMemory).
//
// # Quick Start
//
//	store, _ := graphgo.Open("./data") // directory must exist
//	defer store.Close()
//
//	g := store.Graph()
//	root, _ := g.RootNode()
//	alice, _ := g.CreateNode()
//	_ = alice.Set("name", "alice")
//
//	friend, _ := g.Relationship("friend")
//	_, _ = root.Link(alice, friend)
//
//	out, _ := root.OutgoingEdges(friend) // one edge to alice
//	in, _ := alice.IncomingEdges(friend) // the same edge
//
// # Root Node
//
// Every graph has a root node with id 0. It is created when a store is
// first opened and cannot be removed; use it as the entry point for
// traversals.
//
// # Durability Model
//
// The disk backend writes through: every mutating call syncs its writes
// before it returns. A call that changes two adjacency lists (Link, Unlink,
// RemoveNode) is not atomic, so a crash in between can leave an edge that
// is visible from one endpoint only. The disk backend's Check and Repair
// find and remove such edges:
//
//	ds := store.Backend().(*disk.Store)
//	report, _ := ds.Repair()
//
// # Properties
//
// Property values are nil, bool, int64, float64, string, or homogeneous
// lists of those. Other Go integer and float types are converted; anything
// else is rejected with ErrInvalidArgument.
//
// # Caching
//
// Reads go to disk unless WithCacheSize is set, in which case encoded node
// records and adjacency lists are kept in an LRU cache until rewritten:
//
//	store, err := graphgo.Open(dir, graphgo.WithCacheSize(64<<20))
//
// # Snapshots
//
// disk.Store.Backup copies a store into a blobstore.BlobStore (local
// directory or memory) with optional lz4/zstd compression; disk.Restore
// recreates it in an empty directory.
package graphgo
