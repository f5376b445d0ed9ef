package memory

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/property"
)

// Store is an in-memory graph backend guarded by a single RWMutex.
type Store struct {
	mu     sync.RWMutex
	logger *slog.Logger

	nodes map[model.NodeID]property.Map
	edges map[model.EdgeID]model.Edge
	// incident lists the edges touching each node in insertion order.
	// A self-loop is listed once.
	incident map[model.NodeID][]model.EdgeID

	relByName map[string]model.Relationship
	relByID   map[model.RelationshipID]model.Relationship

	nextNode model.NodeID
	nextEdge model.EdgeID
	nextRel  model.RelationshipID

	closed bool
}

// New creates an empty graph containing only the root node.
func New(opts ...Option) *Store {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store{
		logger:    o.logger,
		nodes:     map[model.NodeID]property.Map{model.RootNodeID: {}},
		edges:     make(map[model.EdgeID]model.Edge),
		incident:  make(map[model.NodeID][]model.EdgeID),
		relByName: make(map[string]model.Relationship),
		relByID:   make(map[model.RelationshipID]model.Relationship),
		nextNode:  model.RootNodeID + 1,
	}
}

// Root returns the id of the root node.
func (s *Store) Root() model.NodeID {
	return model.RootNodeID
}

// CreateNode creates an empty node.
func (s *Store) CreateNode() (model.NodeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, model.ErrClosed
	}
	id := s.nextNode
	s.nextNode++
	s.nodes[id] = property.Map{}
	return id, nil
}

// LoadNode returns a copy of the node's properties.
func (s *Store) LoadNode(id model.NodeID) (property.Map, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, model.ErrClosed
	}
	props, ok := s.nodes[id]
	if !ok {
		return nil, false, nil
	}
	return props.Clone(), true, nil
}

// HasNode reports whether the node exists.
func (s *Store) HasNode(id model.NodeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.nodes[id]
	return ok
}

// StoreNode replaces the properties of an existing node.
func (s *Store) StoreNode(id model.NodeID, props property.Map) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return model.ErrClosed
	}
	if _, ok := s.nodes[id]; !ok {
		return notFound(id)
	}
	s.nodes[id] = props.Clone()
	return nil
}

// RemoveNode removes a node and every edge touching it.
func (s *Store) RemoveNode(id model.NodeID) error {
	if id == model.RootNodeID {
		return model.ErrRootNode
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return model.ErrClosed
	}
	if _, ok := s.nodes[id]; !ok {
		return notFound(id)
	}

	for _, eid := range s.incident[id] {
		e := s.edges[eid]
		if other := e.Other(id); other != id {
			s.detach(other, eid)
		}
		delete(s.edges, eid)
	}
	delete(s.incident, id)
	delete(s.nodes, id)
	return nil
}

// CreateEdge creates an edge from start to end.
func (s *Store) CreateEdge(start, end model.NodeID, rel model.RelationshipID) (model.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return model.Edge{}, model.ErrClosed
	}
	if _, ok := s.nodes[start]; !ok {
		return model.Edge{}, notFound(start)
	}
	if _, ok := s.nodes[end]; !ok {
		return model.Edge{}, notFound(end)
	}
	if _, ok := s.relByID[rel]; !ok {
		return model.Edge{}, fmt.Errorf("relationship %d: %w", rel, model.ErrUnknownRelationship)
	}

	e := model.Edge{ID: s.nextEdge, Start: start, End: end, Relationship: rel}
	s.nextEdge++

	s.edges[e.ID] = e
	s.incident[start] = append(s.incident[start], e.ID)
	if start != end {
		s.incident[end] = append(s.incident[end], e.ID)
	}
	return e, nil
}

// RemoveEdge removes the first edge from start to end with the given
// relationship and reports whether one existed.
func (s *Store) RemoveEdge(start, end model.NodeID, rel model.RelationshipID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, model.ErrClosed
	}
	for _, eid := range s.incident[start] {
		e := s.edges[eid]
		if e.Start == start && e.End == end && e.Relationship == rel {
			s.detach(start, eid)
			if end != start {
				s.detach(end, eid)
			}
			delete(s.edges, eid)
			return true, nil
		}
	}
	return false, nil
}

// Edges returns the edges matching q in insertion order.
func (s *Store) Edges(q model.EdgeQuery) ([]model.Edge, error) {
	var owner model.NodeID
	switch {
	case q.Start != nil:
		owner = *q.Start
	case q.End != nil:
		owner = *q.End
	default:
		return nil, fmt.Errorf("edge query without endpoints: %w", model.ErrInvalidArgument)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, model.ErrClosed
	}
	if _, ok := s.nodes[owner]; !ok {
		return nil, notFound(owner)
	}

	var out []model.Edge
	for _, eid := range s.incident[owner] {
		if e := s.edges[eid]; q.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Relationship returns the relationship with the given name, interning it
// on first use.
func (s *Store) Relationship(name string) (model.Relationship, error) {
	if err := model.ValidateRelationshipName(name); err != nil {
		return model.Relationship{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return model.Relationship{}, model.ErrClosed
	}
	if r, ok := s.relByName[name]; ok {
		return r, nil
	}
	r := model.Relationship{ID: s.nextRel, Name: name}
	s.nextRel++
	s.relByName[name] = r
	s.relByID[r.ID] = r
	return r, nil
}

// RelationshipByID returns an interned relationship.
func (s *Store) RelationshipByID(id model.RelationshipID) (model.Relationship, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.relByID[id]
	return r, ok
}

// Len returns the number of nodes and edges.
func (s *Store) Len() (nodes, edges int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.nodes), len(s.edges)
}

// Close discards the graph. It is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.logger.Debug("closing memory graph store", "nodes", len(s.nodes), "edges", len(s.edges))
	clear(s.nodes)
	clear(s.edges)
	clear(s.incident)
	return nil
}

// detach removes eid from the incident list of id.
func (s *Store) detach(id model.NodeID, eid model.EdgeID) {
	list := s.incident[id]
	if i := slices.Index(list, eid); i >= 0 {
		list = slices.Delete(list, i, i+1)
	}
	if len(list) == 0 {
		delete(s.incident, id)
		return
	}
	s.incident[id] = list
}

func notFound(id model.NodeID) error {
	return fmt.Errorf("node %d: %w", id, model.ErrNotFound)
}
