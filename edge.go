package graphgo

import (
	"fmt"

	"github.com/hupe1980/graphgo/model"
)

// Edge is a directed edge between two nodes. Edges are identified by ID
// alone; two Edge values for the same edge may hold different node
// handles.
type Edge struct {
	id    model.EdgeID
	start *Node
	end   *Node
	rel   Relationship
}

// ID returns the edge id.
func (e Edge) ID() model.EdgeID { return e.id }

// Start returns the node the edge leaves.
func (e Edge) Start() *Node { return e.start }

// End returns the node the edge enters.
func (e Edge) End() *Node { return e.end }

// Relationship returns the edge type.
func (e Edge) Relationship() Relationship { return e.rel }

func (e Edge) String() string {
	return fmt.Sprintf("%d: %d -[%s]-> %d", e.id, e.start.ID(), e.rel.name, e.end.ID())
}
