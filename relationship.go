package graphgo

import (
	"fmt"

	"github.com/hupe1980/graphgo/model"
)

// Relationship is an interned edge type. Two lookups of the same name in
// the same graph return values that compare equal with ==. The zero value
// is not a valid relationship.
type Relationship struct {
	graph *Graph
	id    model.RelationshipID
	name  string
}

// ID returns the relationship id.
func (r Relationship) ID() model.RelationshipID { return r.id }

// Name returns the relationship name.
func (r Relationship) Name() string { return r.name }

// Graph returns the owning graph, nil for the zero value.
func (r Relationship) Graph() *Graph { return r.graph }

func (r Relationship) String() string {
	return fmt.Sprintf("%s(%d)", r.name, r.id)
}

func (r Relationship) model() model.Relationship {
	return model.Relationship{ID: r.id, Name: r.name}
}
