package graphgo

import (
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/property"
)

// Node is a handle to a graph node. It caches the node's properties as of
// the last load or write through any handle of this graph; writes always
// rewrite the stored record.
type Node struct {
	graph *Graph
	id    model.NodeID

	mu    sync.RWMutex
	props property.Map
}

// ID returns the node id.
func (n *Node) ID() model.NodeID { return n.id }

// Graph returns the owning graph.
func (n *Node) Graph() *Graph { return n.graph }

func (n *Node) String() string {
	return fmt.Sprintf("node(%d)", n.id)
}

// Get returns the value of a property as a plain Go value.
func (n *Node) Get(key string) (any, bool) {
	v, ok := n.Value(key)
	if !ok {
		return nil, false
	}
	return v.Any(), true
}

// Value returns the typed value of a property.
func (n *Node) Value(key string) (property.Value, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	v, ok := n.props[key]
	return v, ok
}

// Properties returns a copy of all properties.
func (n *Node) Properties() property.Map {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.props.Clone()
}

// Set stores a property. value may be nil, a bool, any integer or float
// type, a string, a property.Value, or a slice of one of those.
func (n *Node) Set(key string, value any) error {
	v, err := toValue(value)
	if err != nil {
		return translateError(err)
	}
	return n.graph.updateProperties(n, func(m property.Map) {
		m[key] = v
	})
}

// Delete removes a property. Deleting an absent key is not an error.
func (n *Node) Delete(key string) error {
	return n.graph.updateProperties(n, func(m property.Map) {
		delete(m, key)
	})
}

// Link creates an edge of type rel from n to other.
func (n *Node) Link(other *Node, rel Relationship) (Edge, error) {
	g := n.graph
	if err := g.checkOpen(); err != nil {
		return Edge{}, err
	}
	if err := g.validateNode(other); err != nil {
		return Edge{}, err
	}
	if err := g.validateRelationship(rel); err != nil {
		return Edge{}, err
	}

	start := time.Now()
	e, err := g.backend.CreateEdge(n.id, other.id, rel.id)
	g.metrics.RecordLink(time.Since(start), err)
	g.logger.LogLink(n.id, other.id, rel.model(), e.ID, err)
	if err != nil {
		return Edge{}, translateError(err)
	}
	return Edge{id: e.ID, start: n, end: other, rel: rel}, nil
}

// Unlink removes one edge of type rel from n to other and reports whether
// one existed.
func (n *Node) Unlink(other *Node, rel Relationship) (bool, error) {
	g := n.graph
	if err := g.checkOpen(); err != nil {
		return false, err
	}
	if err := g.validateNode(other); err != nil {
		return false, err
	}
	if err := g.validateRelationship(rel); err != nil {
		return false, err
	}

	start := time.Now()
	removed, err := g.backend.RemoveEdge(n.id, other.id, rel.id)
	g.metrics.RecordUnlink(time.Since(start), err)
	g.logger.LogUnlink(n.id, other.id, rel.model(), removed, err)
	return removed, translateError(err)
}

// OutgoingEdges returns the edges of type rel leaving n.
func (n *Node) OutgoingEdges(rel Relationship) ([]Edge, error) {
	return n.graph.Edges(n, nil, rel)
}

// IncomingEdges returns the edges of type rel arriving at n.
func (n *Node) IncomingEdges(rel Relationship) ([]Edge, error) {
	return n.graph.Edges(nil, n, rel)
}

func toValue(value any) (property.Value, error) {
	if v, ok := value.(property.Value); ok {
		if v.Kind == property.KindInvalid {
			return property.Value{}, fmt.Errorf("%w: invalid property value", ErrInvalidArgument)
		}
		return v, nil
	}
	return property.FromAny(value)
}
