package disk

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/hupe1980/graphgo/internal/conv"
	"github.com/hupe1980/graphgo/model"
)

const (
	edgeListHeaderSize = 12
	edgeTupleSize      = 32
)

// EdgeList is the adjacency list of one node: every edge that starts or
// ends at Node, in insertion order. A self-loop appears twice.
//
// Layout: node id u64, count u32, then count tuples of edge id, start id,
// end id and relationship id (u64 each).
type EdgeList struct {
	Node  model.NodeID
	Edges []model.Edge
}

// ID implements storage.Record.
func (l EdgeList) ID() uint64 { return uint64(l.Node) }

// MarshalBinary implements storage.Record.
func (l EdgeList) MarshalBinary() ([]byte, error) {
	n, err := conv.IntToUint32(len(l.Edges))
	if err != nil {
		return nil, fmt.Errorf("edge list of node %d: %w", l.Node, err)
	}
	buf := make([]byte, edgeListHeaderSize, edgeListHeaderSize+edgeTupleSize*len(l.Edges))
	binary.BigEndian.PutUint64(buf[0:8], uint64(l.Node))
	binary.BigEndian.PutUint32(buf[8:12], n)
	for _, e := range l.Edges {
		buf = binary.BigEndian.AppendUint64(buf, uint64(e.ID))
		buf = binary.BigEndian.AppendUint64(buf, uint64(e.Start))
		buf = binary.BigEndian.AppendUint64(buf, uint64(e.End))
		buf = binary.BigEndian.AppendUint64(buf, uint64(e.Relationship))
	}
	return buf, nil
}

// DecodeEdgeList restores an EdgeList from its encoding.
func DecodeEdgeList(data []byte) (EdgeList, error) {
	if len(data) < edgeListHeaderSize {
		return EdgeList{}, fmt.Errorf("edge list: %d bytes, need at least %d", len(data), edgeListHeaderSize)
	}
	count := binary.BigEndian.Uint32(data[8:12])
	if uint64(len(data)) != edgeListHeaderSize+edgeTupleSize*uint64(count) {
		return EdgeList{}, fmt.Errorf("edge list: %d bytes for %d tuples", len(data), count)
	}

	l := EdgeList{
		Node:  model.NodeID(binary.BigEndian.Uint64(data[0:8])),
		Edges: make([]model.Edge, count),
	}
	for i := range l.Edges {
		t := data[edgeListHeaderSize+i*edgeTupleSize:]
		l.Edges[i] = model.Edge{
			ID:           model.EdgeID(binary.BigEndian.Uint64(t[0:8])),
			Start:        model.NodeID(binary.BigEndian.Uint64(t[8:16])),
			End:          model.NodeID(binary.BigEndian.Uint64(t[16:24])),
			Relationship: model.RelationshipID(binary.BigEndian.Uint64(t[24:32])),
		}
	}
	return l, nil
}

// Len returns the number of tuples.
func (l *EdgeList) Len() int { return len(l.Edges) }

// Append adds a tuple.
func (l *EdgeList) Append(e model.Edge) {
	l.Edges = append(l.Edges, e)
}

// RemoveFirst removes the first tuple with the given edge id and reports
// whether one was found.
func (l *EdgeList) RemoveFirst(id model.EdgeID) bool {
	i := slices.IndexFunc(l.Edges, func(e model.Edge) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	l.Edges = slices.Delete(l.Edges, i, i+1)
	return true
}

// Find returns the first tuple matching start, end and relationship.
func (l *EdgeList) Find(start, end model.NodeID, rel model.RelationshipID) (model.Edge, bool) {
	for _, e := range l.Edges {
		if e.Start == start && e.End == end && e.Relationship == rel {
			return e, true
		}
	}
	return model.Edge{}, false
}

// Filter returns the tuples matching q, at most once per edge id.
func (l *EdgeList) Filter(q model.EdgeQuery) []model.Edge {
	var out []model.Edge
	seen := make(map[model.EdgeID]struct{})
	for _, e := range l.Edges {
		if !q.Matches(e) {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Count returns how many tuples carry the given edge id.
func (l *EdgeList) Count(id model.EdgeID) int {
	n := 0
	for _, e := range l.Edges {
		if e.ID == id {
			n++
		}
	}
	return n
}

// MaxEdgeID returns the largest edge id in the list.
func (l *EdgeList) MaxEdgeID() (model.EdgeID, bool) {
	if len(l.Edges) == 0 {
		return 0, false
	}
	return slices.MaxFunc(l.Edges, func(a, b model.Edge) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	}).ID, true
}
