package disk

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/graphgo/internal/cache"
	"github.com/hupe1980/graphgo/internal/fs"
	"github.com/hupe1980/graphgo/internal/storage"
	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/property"
)

// StorageStats describes the space usage of one storage.
type StorageStats = storage.Stats

// Stats describes a store.
type Stats struct {
	Relationships StorageStats
	Nodes         StorageStats
	EdgeLists     StorageStats

	NextNode         model.NodeID
	NextEdge         model.EdgeID
	NextRelationship model.RelationshipID

	// Cache counters; zero when the record cache is disabled.
	CacheHits   int64
	CacheMisses int64
	CacheBytes  int64
}

// Store is a graph backend over three block storages in one directory:
// relationships, nodes and edges (one adjacency list per node).
//
// Mutations are serialized by a store-wide lock. Queries only take the
// read locks of the storages they touch, so a query running concurrently
// with a mutation that rewrites two adjacency lists may observe one list
// before the other.
type Store struct {
	mu     sync.Mutex
	dir    string
	fs     fs.FileSystem
	logger *slog.Logger

	relationships *storage.Storage[relationshipRecord]
	nodes         *storage.Storage[nodeRecord]
	edges         *storage.Storage[EdgeList]

	relMu     sync.RWMutex
	relByName map[string]model.Relationship
	relByID   map[model.RelationshipID]model.Relationship

	nextNode model.NodeID
	nextEdge model.EdgeID
	nextRel  model.RelationshipID

	cache *cache.LRU

	closed atomic.Bool
}

// Open opens the graph store in dir, creating its files and the root node
// if necessary. dir must be an existing, writable directory.
func Open(dir string, opts ...Option) (*Store, error) {
	o := applyOptions(opts)

	if err := checkDir(o.fs, dir); err != nil {
		return nil, err
	}

	s := &Store{
		dir:       dir,
		fs:        o.fs,
		logger:    o.logger,
		relByName: make(map[string]model.Relationship),
		relByID:   make(map[model.RelationshipID]model.Relationship),
	}

	sopts := []storage.Option{
		storage.WithFileSystem(o.fs),
		storage.WithLogger(o.logger),
	}
	if o.cacheSize > 0 {
		s.cache = cache.NewLRU(o.cacheSize)
		sopts = append(sopts, storage.WithCache(s.cache))
	}

	var err error
	if s.relationships, err = storage.Open(dir, relationshipsStorage, decodeRelationship, sopts...); err != nil {
		return nil, err
	}
	if s.nodes, err = storage.Open(dir, nodesStorage, decodeNode, sopts...); err != nil {
		_ = s.relationships.Close()
		return nil, err
	}
	if s.edges, err = storage.Open(dir, edgesStorage, DecodeEdgeList, sopts...); err != nil {
		_ = s.relationships.Close()
		_ = s.nodes.Close()
		return nil, err
	}

	if err := s.boot(); err != nil {
		_ = s.closeStorages()
		return nil, err
	}
	return s, nil
}

func checkDir(fsys fs.FileSystem, dir string) error {
	info, err := fsys.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ConfigurationError{Dir: dir, Reason: "does not exist"}
		}
		return &ConfigurationError{Dir: dir, Reason: "cannot be inspected", Err: err}
	}
	if !info.IsDir() {
		return &ConfigurationError{Dir: dir, Reason: "is not a directory"}
	}
	if err := checkWritable(dir); err != nil {
		return &ConfigurationError{Dir: dir, Reason: "is not writable", Err: err}
	}
	return nil
}

// boot rebuilds the relationship cache and the id counters.
func (s *Store) boot() error {
	for rec, err := range s.relationships.All() {
		if err != nil {
			return err
		}
		r := model.Relationship{ID: rec.id, Name: rec.name}
		if prev, dup := s.relByName[r.Name]; dup {
			s.logger.Warn("duplicate relationship name", "name", r.Name, "id", r.ID, "kept", prev.ID)
		} else {
			s.relByName[r.Name] = r
		}
		s.relByID[r.ID] = r
		if r.ID >= s.nextRel {
			s.nextRel = r.ID + 1
		}
	}

	if maxID, ok := s.nodes.MaxID(); ok {
		s.nextNode = model.NodeID(maxID) + 1
		if !s.nodes.Contains(uint64(model.RootNodeID)) {
			s.logger.Warn("root node missing, recreating it")
			if err := s.nodes.Add(nodeRecord{id: model.RootNodeID, props: property.Map{}}); err != nil {
				return err
			}
		}
	} else {
		if err := s.nodes.Add(nodeRecord{id: model.RootNodeID, props: property.Map{}}); err != nil {
			return err
		}
		s.nextNode = model.RootNodeID + 1
	}

	// Edges have no records of their own; their ids live inside the lists.
	for list, err := range s.edges.All() {
		if err != nil {
			return err
		}
		if id, ok := list.MaxEdgeID(); ok && id >= s.nextEdge {
			s.nextEdge = id + 1
		}
	}

	s.logger.Info("opened graph store",
		"dir", s.dir,
		"nodes", s.nodes.Len(),
		"relationships", len(s.relByID),
		"edge_lists", s.edges.Len(),
		"next_node", s.nextNode,
		"next_edge", s.nextEdge,
		"next_relationship", s.nextRel)
	return nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Root returns the id of the root node.
func (s *Store) Root() model.NodeID {
	return model.RootNodeID
}

// NodeIDs returns the ids of all nodes in directory order.
func (s *Store) NodeIDs() []model.NodeID {
	var ids []model.NodeID
	for a := range s.nodes.Allocations() {
		ids = append(ids, model.NodeID(a.ID))
	}
	return ids
}

// Relationships returns every interned relationship ordered by id.
func (s *Store) Relationships() []model.Relationship {
	s.relMu.RLock()
	defer s.relMu.RUnlock()

	out := make([]model.Relationship, 0, len(s.relByID))
	for _, r := range s.relByID {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b model.Relationship) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// Stats returns space usage and counters.
func (s *Store) Stats() (Stats, error) {
	if err := s.checkOpen(); err != nil {
		return Stats{}, err
	}

	var (
		st  Stats
		err error
	)
	if st.Relationships, err = s.relationships.Stats(); err != nil {
		return Stats{}, err
	}
	if st.Nodes, err = s.nodes.Stats(); err != nil {
		return Stats{}, err
	}
	if st.EdgeLists, err = s.edges.Stats(); err != nil {
		return Stats{}, err
	}

	s.mu.Lock()
	st.NextNode, st.NextEdge, st.NextRelationship = s.nextNode, s.nextEdge, s.nextRel
	s.mu.Unlock()

	if s.cache != nil {
		st.CacheHits, st.CacheMisses = s.cache.Stats()
		st.CacheBytes = s.cache.Size()
	}
	return st, nil
}

// Close closes the store. It is idempotent.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("closing graph store", "dir", s.dir)
	return s.closeStorages()
}

func (s *Store) closeStorages() error {
	return errors.Join(s.relationships.Close(), s.nodes.Close(), s.edges.Close())
}

func (s *Store) checkOpen() error {
	if s.closed.Load() {
		return model.ErrClosed
	}
	return nil
}

func notFound(id model.NodeID) error {
	return fmt.Errorf("node %d: %w", id, model.ErrNotFound)
}
