package graphgo

import (
	"sync/atomic"

	"github.com/hupe1980/graphgo/disk"
	"github.com/hupe1980/graphgo/memory"
	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/property"
)

// Backend is the storage contract behind a Graph. The disk and memory
// packages implement it independently.
type Backend interface {
	Root() model.NodeID
	CreateNode() (model.NodeID, error)
	LoadNode(id model.NodeID) (property.Map, bool, error)
	HasNode(id model.NodeID) bool
	StoreNode(id model.NodeID, props property.Map) error
	RemoveNode(id model.NodeID) error

	Relationship(name string) (model.Relationship, error)
	RelationshipByID(id model.RelationshipID) (model.Relationship, bool)

	CreateEdge(start, end model.NodeID, rel model.RelationshipID) (model.Edge, error)
	RemoveEdge(start, end model.NodeID, rel model.RelationshipID) (bool, error)
	Edges(q model.EdgeQuery) ([]model.Edge, error)

	Close() error
}

var (
	_ Backend = (*disk.Store)(nil)
	_ Backend = (*memory.Store)(nil)
)

// Store owns a backend and the graph view over it.
type Store struct {
	backend Backend
	graph   *Graph
	logger  *Logger
	closed  atomic.Bool
}

// Open opens or creates the durable graph store in dir. dir must be an
// existing, writable directory.
func Open(dir string, opts ...Option) (*Store, error) {
	o := applyOptions(opts)

	ds, err := disk.Open(dir,
		disk.WithFileSystem(o.fs),
		disk.WithLogger(o.logger.Logger),
		disk.WithCacheSize(o.cacheSize),
	)
	if err != nil {
		o.logger.Error("open failed", "dir", dir, "error", err)
		return nil, translateError(err)
	}
	return newStore(ds, o), nil
}

// NewMemory creates a graph store held in process memory.
func NewMemory(opts ...Option) *Store {
	o := applyOptions(opts)
	return newStore(memory.New(memory.WithLogger(o.logger.Logger)), o)
}

// NewWithBackend wraps an already opened backend.
func NewWithBackend(b Backend, opts ...Option) *Store {
	return newStore(b, applyOptions(opts))
}

func newStore(b Backend, o options) *Store {
	s := &Store{backend: b, logger: o.logger}
	s.graph = &Graph{
		store:   s,
		backend: b,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}
	return s
}

// Graph returns the graph of this store.
func (s *Store) Graph() *Graph {
	return s.graph
}

// Backend returns the underlying backend, e.g. to reach disk.Store's
// Check, Repair and Backup.
func (s *Store) Backend() Backend {
	return s.backend
}
