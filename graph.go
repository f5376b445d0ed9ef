package graphgo

import (
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/property"
)

// Graph is the node/edge view of a Store.
//
// Every call validates its arguments before touching the backend, so a
// rejected call leaves the graph unchanged.
type Graph struct {
	store   *Store
	backend Backend
	logger  *Logger
	metrics MetricsCollector

	// propMu serializes property read-modify-write cycles.
	propMu sync.Mutex
}

// RootNode returns the root node (id 0).
func (g *Graph) RootNode() (*Node, error) {
	return g.Node(g.backend.Root())
}

// CreateNode creates a node without properties.
func (g *Graph) CreateNode() (*Node, error) {
	if err := g.checkOpen(); err != nil {
		return nil, err
	}

	start := time.Now()
	id, err := g.backend.CreateNode()
	g.metrics.RecordCreateNode(time.Since(start), err)
	g.logger.LogCreateNode(id, err)
	if err != nil {
		return nil, translateError(err)
	}
	return &Node{graph: g, id: id, props: property.Map{}}, nil
}

// Node loads the node with the given id.
func (g *Graph) Node(id model.NodeID) (*Node, error) {
	if err := g.checkOpen(); err != nil {
		return nil, err
	}

	props, ok, err := g.backend.LoadNode(id)
	if err != nil {
		return nil, translateError(err)
	}
	if !ok {
		return nil, fmt.Errorf("node %d: %w", id, ErrNotFound)
	}
	return &Node{graph: g, id: id, props: props}, nil
}

// RemoveNode removes n and every edge touching it. The root node cannot be
// removed.
func (g *Graph) RemoveNode(n *Node) error {
	if err := g.checkOpen(); err != nil {
		return err
	}
	if err := g.validateNode(n); err != nil {
		return err
	}

	start := time.Now()
	err := g.backend.RemoveNode(n.id)
	g.metrics.RecordRemoveNode(time.Since(start), err)
	g.logger.LogRemoveNode(n.id, err)
	return translateError(err)
}

// Relationship returns the relationship with the given name, creating it
// on first use.
func (g *Graph) Relationship(name string) (Relationship, error) {
	if err := g.checkOpen(); err != nil {
		return Relationship{}, err
	}

	r, err := g.backend.Relationship(name)
	if err != nil {
		return Relationship{}, translateError(err)
	}
	return Relationship{graph: g, id: r.ID, name: r.Name}, nil
}

// Edges returns the edges of type rel from start to end. Either endpoint
// may be nil to match any node, but not both. Each edge is returned once;
// a self-loop matches both as outgoing and as incoming edge.
//
// Edges reference the passed-in nodes where possible; other endpoints are
// loaded once per call. Edges whose other endpoint no longer exists are
// skipped.
func (g *Graph) Edges(start, end *Node, rel Relationship) ([]Edge, error) {
	if err := g.checkOpen(); err != nil {
		return nil, err
	}
	if start == nil && end == nil {
		return nil, fmt.Errorf("%w: edge query needs a start or an end node", ErrInvalidArgument)
	}
	if err := g.validateRelationship(rel); err != nil {
		return nil, err
	}

	q := model.EdgeQuery{Relationship: rel.id}
	known := make(map[model.NodeID]*Node, 2)
	if start != nil {
		if err := g.validateNode(start); err != nil {
			return nil, err
		}
		q.Start = &start.id
		known[start.id] = start
	}
	if end != nil {
		if err := g.validateNode(end); err != nil {
			return nil, err
		}
		q.End = &end.id
		known[end.id] = end
	}

	begin := time.Now()
	edges, err := g.edges(q, rel, known)
	g.metrics.RecordEdgeQuery(len(edges), time.Since(begin), err)
	return edges, err
}

func (g *Graph) edges(q model.EdgeQuery, rel Relationship, known map[model.NodeID]*Node) ([]Edge, error) {
	found, err := g.backend.Edges(q)
	if err != nil {
		return nil, translateError(err)
	}

	missing := make(map[model.NodeID]bool)
	resolve := func(id model.NodeID) (*Node, error) {
		if n, ok := known[id]; ok {
			return n, nil
		}
		if missing[id] {
			return nil, nil
		}
		props, ok, err := g.backend.LoadNode(id)
		if err != nil {
			return nil, translateError(err)
		}
		if !ok {
			missing[id] = true
			return nil, nil
		}
		n := &Node{graph: g, id: id, props: props}
		known[id] = n
		return n, nil
	}

	out := make([]Edge, 0, len(found))
	for _, e := range found {
		s, err := resolve(e.Start)
		if err != nil {
			return nil, err
		}
		t, err := resolve(e.End)
		if err != nil {
			return nil, err
		}
		if s == nil || t == nil {
			g.logger.WithEdge(e.ID).Warn("skipping edge with missing endpoint",
				"start", e.Start, "end", e.End)
			continue
		}
		out = append(out, Edge{id: e.ID, start: s, end: t, rel: rel})
	}
	return out, nil
}

// updateProperties applies mutate to the stored properties of n and
// writes the whole record back.
func (g *Graph) updateProperties(n *Node, mutate func(property.Map)) error {
	if err := g.checkOpen(); err != nil {
		return err
	}

	start := time.Now()
	err := g.writeProperties(n, mutate)
	g.metrics.RecordSetProperty(time.Since(start), err)
	if err != nil {
		g.logger.WithNode(n.id).Error("property write failed", "error", err)
	}
	return err
}

func (g *Graph) writeProperties(n *Node, mutate func(property.Map)) error {
	g.propMu.Lock()
	defer g.propMu.Unlock()

	props, ok, err := g.backend.LoadNode(n.id)
	if err != nil {
		return translateError(err)
	}
	if !ok {
		return fmt.Errorf("node %d: %w", n.id, ErrNotFound)
	}
	if props == nil {
		props = property.Map{}
	}
	mutate(props)

	if err := g.backend.StoreNode(n.id, props); err != nil {
		return translateError(err)
	}

	n.mu.Lock()
	n.props = props
	n.mu.Unlock()
	return nil
}

func (g *Graph) checkOpen() error {
	if g.store.closed.Load() {
		return ErrClosed
	}
	return nil
}

func (g *Graph) validateNode(n *Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrInvalidArgument)
	}
	if n.graph != g {
		return fmt.Errorf("node %d: %w", n.id, ErrForeignNode)
	}
	return nil
}

func (g *Graph) validateRelationship(r Relationship) error {
	if r.graph == nil {
		return fmt.Errorf("%w: zero relationship", ErrInvalidArgument)
	}
	if r.graph != g {
		return fmt.Errorf("relationship %q: %w", r.name, ErrForeignRelationship)
	}
	return nil
}
