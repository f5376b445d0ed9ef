package disk

import (
	"fmt"

	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/property"
)

// CreateNode creates an empty node.
func (s *Store) CreateNode() (model.NodeID, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextNode
	s.nextNode++

	if err := s.nodes.Add(nodeRecord{id: id, props: property.Map{}}); err != nil {
		return 0, err
	}
	s.logger.Debug("created node", "node", id)
	return id, nil
}

// LoadNode returns the properties of a node.
// The boolean is false when the node does not exist.
func (s *Store) LoadNode(id model.NodeID) (property.Map, bool, error) {
	if err := s.checkOpen(); err != nil {
		return nil, false, err
	}
	rec, ok, err := s.nodes.Load(uint64(id))
	if err != nil || !ok {
		return nil, false, err
	}
	return rec.props, true, nil
}

// HasNode reports whether the node exists.
func (s *Store) HasNode(id model.NodeID) bool {
	return s.nodes.Contains(uint64(id))
}

// StoreNode replaces the properties of an existing node by rewriting its
// whole record.
func (s *Store) StoreNode(id model.NodeID, props property.Map) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.nodes.Contains(uint64(id)) {
		return notFound(id)
	}
	if props == nil {
		props = property.Map{}
	}
	return s.nodes.Add(nodeRecord{id: id, props: props})
}

// RemoveNode removes a node and every edge touching it. Each edge is first
// removed from the adjacency list of its other endpoint, then the node's
// own record and adjacency list are deleted.
func (s *Store) RemoveNode(id model.NodeID) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if id == model.RootNodeID {
		return model.ErrRootNode
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.nodes.Contains(uint64(id)) {
		return notFound(id)
	}

	own, err := s.loadList(id)
	if err != nil {
		return err
	}

	// Neighbors are rewritten once each, in order of first appearance.
	var order []model.NodeID
	neighbors := make(map[model.NodeID]*EdgeList)
	for _, e := range own.Edges {
		other := e.Other(id)
		if other == id {
			continue
		}
		l, ok := neighbors[other]
		if !ok {
			loaded, err := s.loadList(other)
			if err != nil {
				return err
			}
			l = &loaded
			neighbors[other] = l
			order = append(order, other)
		}
		if !l.RemoveFirst(e.ID) {
			s.logger.Warn("edge missing from neighbor list", "edge", e.ID, "node", id, "neighbor", other)
		}
	}

	for _, other := range order {
		if err := s.saveList(*neighbors[other]); err != nil {
			return err
		}
	}

	if _, err := s.edges.Remove(uint64(id)); err != nil {
		return err
	}
	if _, err := s.nodes.Remove(uint64(id)); err != nil {
		return err
	}

	s.logger.Debug("removed node", "node", id, "edges", own.Len())
	return nil
}

// CreateEdge creates an edge from start to end. Both nodes must exist and
// the relationship must have been interned.
func (s *Store) CreateEdge(start, end model.NodeID, rel model.RelationshipID) (model.Edge, error) {
	if err := s.checkOpen(); err != nil {
		return model.Edge{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.nodes.Contains(uint64(start)) {
		return model.Edge{}, notFound(start)
	}
	if !s.nodes.Contains(uint64(end)) {
		return model.Edge{}, notFound(end)
	}
	if _, ok := s.RelationshipByID(rel); !ok {
		return model.Edge{}, fmt.Errorf("relationship %d: %w", rel, model.ErrUnknownRelationship)
	}

	e := model.Edge{ID: s.nextEdge, Start: start, End: end, Relationship: rel}
	s.nextEdge++

	startList, err := s.loadList(start)
	if err != nil {
		return model.Edge{}, err
	}
	startList.Append(e)

	if start == end {
		// A self-loop is recorded twice so it is both outgoing and incoming.
		startList.Append(e)
		if err := s.saveList(startList); err != nil {
			return model.Edge{}, err
		}
		s.logger.Debug("created edge", "edge", e.ID, "start", start, "end", end, "relationship", rel)
		return e, nil
	}

	if err := s.saveList(startList); err != nil {
		return model.Edge{}, err
	}

	endList, err := s.loadList(end)
	if err != nil {
		return model.Edge{}, err
	}
	endList.Append(e)
	if err := s.saveList(endList); err != nil {
		return model.Edge{}, err
	}

	s.logger.Debug("created edge", "edge", e.ID, "start", start, "end", end, "relationship", rel)
	return e, nil
}

// RemoveEdge removes the first edge from start to end with the given
// relationship and reports whether one existed.
func (s *Store) RemoveEdge(start, end model.NodeID, rel model.RelationshipID) (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	startList, err := s.loadList(start)
	if err != nil {
		return false, err
	}
	e, ok := startList.Find(start, end, rel)
	if !ok {
		return false, nil
	}

	startList.RemoveFirst(e.ID)
	if start == end {
		startList.RemoveFirst(e.ID)
		if err := s.saveList(startList); err != nil {
			return false, err
		}
		s.logger.Debug("removed edge", "edge", e.ID)
		return true, nil
	}
	if err := s.saveList(startList); err != nil {
		return false, err
	}

	endList, err := s.loadList(end)
	if err != nil {
		return false, err
	}
	if !endList.RemoveFirst(e.ID) {
		s.logger.Warn("edge missing from end list", "edge", e.ID, "end", end)
		return true, nil
	}
	if err := s.saveList(endList); err != nil {
		return false, err
	}

	s.logger.Debug("removed edge", "edge", e.ID)
	return true, nil
}

// Edges returns the edges matching q, each edge id at most once. The
// adjacency list of q.Start is scanned when set, else that of q.End.
func (s *Store) Edges(q model.EdgeQuery) ([]model.Edge, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	var owner model.NodeID
	switch {
	case q.Start != nil:
		owner = *q.Start
	case q.End != nil:
		owner = *q.End
	default:
		return nil, fmt.Errorf("edge query without endpoints: %w", model.ErrInvalidArgument)
	}

	if !s.nodes.Contains(uint64(owner)) {
		return nil, notFound(owner)
	}

	l, err := s.loadList(owner)
	if err != nil {
		return nil, err
	}
	return l.Filter(q), nil
}

// EdgeList returns the adjacency list of a node. A node without edges has
// an empty list.
func (s *Store) EdgeList(id model.NodeID) (EdgeList, error) {
	if err := s.checkOpen(); err != nil {
		return EdgeList{}, err
	}
	return s.loadList(id)
}

// Relationship returns the relationship with the given name, interning it
// on first use.
func (s *Store) Relationship(name string) (model.Relationship, error) {
	if err := s.checkOpen(); err != nil {
		return model.Relationship{}, err
	}
	if err := model.ValidateRelationshipName(name); err != nil {
		return model.Relationship{}, err
	}

	s.relMu.RLock()
	r, ok := s.relByName[name]
	s.relMu.RUnlock()
	if ok {
		return r, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.relMu.RLock()
	r, ok = s.relByName[name]
	s.relMu.RUnlock()
	if ok {
		return r, nil
	}

	r = model.Relationship{ID: s.nextRel, Name: name}
	s.nextRel++

	if err := s.relationships.Add(relationshipRecord{id: r.ID, name: r.Name}); err != nil {
		return model.Relationship{}, err
	}

	s.relMu.Lock()
	s.relByName[name] = r
	s.relByID[r.ID] = r
	s.relMu.Unlock()

	s.logger.Debug("interned relationship", "relationship", r.ID, "name", name)
	return r, nil
}

// RelationshipByID returns an interned relationship.
func (s *Store) RelationshipByID(id model.RelationshipID) (model.Relationship, bool) {
	s.relMu.RLock()
	defer s.relMu.RUnlock()
	r, ok := s.relByID[id]
	return r, ok
}

func (s *Store) loadList(id model.NodeID) (EdgeList, error) {
	l, ok, err := s.edges.Load(uint64(id))
	if err != nil {
		return EdgeList{}, err
	}
	if !ok {
		return EdgeList{Node: id}, nil
	}
	return l, nil
}

// saveList persists l, deleting the record once the list is empty.
func (s *Store) saveList(l EdgeList) error {
	if l.Len() == 0 {
		_, err := s.edges.Remove(uint64(l.Node))
		return err
	}
	return s.edges.Add(l)
}
