package model

import (
	"fmt"
	"unicode/utf8"
)

// NodeID identifies a node within a graph.
// Node 0 is always the root node.
type NodeID uint64

// RootNodeID is the id of the node every graph is created with.
const RootNodeID NodeID = 0

// EdgeID identifies an edge within a graph.
type EdgeID uint64

// RelationshipID identifies an interned relationship name.
type RelationshipID uint64

// Relationship is a named, interned edge label.
type Relationship struct {
	ID   RelationshipID
	Name string
}

// ValidateRelationshipName rejects names that do not survive the UTF-16
// record encoding unchanged.
func ValidateRelationshipName(name string) error {
	if !utf8.ValidString(name) {
		return fmt.Errorf("relationship name %q is not valid UTF-8: %w", name, ErrInvalidArgument)
	}
	return nil
}

// String returns a string representation of the Relationship.
func (r Relationship) String() string {
	return fmt.Sprintf("Rel(%d:%q)", r.ID, r.Name)
}

// Edge is a single adjacency tuple: a directed, labeled connection
// from Start to End.
type Edge struct {
	ID           EdgeID
	Start        NodeID
	End          NodeID
	Relationship RelationshipID
}

// String returns a string representation of the Edge.
func (e Edge) String() string {
	return fmt.Sprintf("Edge(%d: %d-[%d]->%d)", e.ID, e.Start, e.Relationship, e.End)
}

// IsLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsLoop() bool {
	return e.Start == e.End
}

// Other returns the endpoint opposite to id.
// For a self-loop it returns id itself.
func (e Edge) Other(id NodeID) NodeID {
	if e.Start == id {
		return e.End
	}
	return e.Start
}

// EdgeQuery selects edges by relationship and endpoints.
// At least one of Start and End must be set.
type EdgeQuery struct {
	Start        *NodeID
	End          *NodeID
	Relationship RelationshipID
}

// Matches reports whether e satisfies the query.
func (q EdgeQuery) Matches(e Edge) bool {
	if e.Relationship != q.Relationship {
		return false
	}
	if q.Start != nil && e.Start != *q.Start {
		return false
	}
	if q.End != nil && e.End != *q.End {
		return false
	}
	return true
}

// Outgoing returns a query for edges leaving start.
func Outgoing(start NodeID, rel RelationshipID) EdgeQuery {
	return EdgeQuery{Start: &start, Relationship: rel}
}

// Incoming returns a query for edges arriving at end.
func Incoming(end NodeID, rel RelationshipID) EdgeQuery {
	return EdgeQuery{End: &end, Relationship: rel}
}

// Between returns a query for edges from start to end.
func Between(start, end NodeID, rel RelationshipID) EdgeQuery {
	return EdgeQuery{Start: &start, End: &end, Relationship: rel}
}
