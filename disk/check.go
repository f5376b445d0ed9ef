package disk

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hupe1980/graphgo/model"
)

// IssueKind classifies an inconsistency found by Check.
type IssueKind uint8

const (
	// IssueAsymmetric marks an edge missing from one endpoint's list.
	IssueAsymmetric IssueKind = iota + 1
	// IssueDanglingEndpoint marks an edge whose start or end node does not exist.
	IssueDanglingEndpoint
	// IssueMisplaced marks a tuple stored in the list of a node that is not an endpoint.
	IssueMisplaced
	// IssueOrphanList marks an adjacency list whose node does not exist.
	IssueOrphanList
)

func (k IssueKind) String() string {
	switch k {
	case IssueAsymmetric:
		return "asymmetric"
	case IssueDanglingEndpoint:
		return "dangling-endpoint"
	case IssueMisplaced:
		return "misplaced"
	case IssueOrphanList:
		return "orphan-list"
	default:
		return "unknown"
	}
}

// Issue is one inconsistency. Node is the owner of the list the issue was
// found in; Edge is zero for IssueOrphanList.
type Issue struct {
	Kind IssueKind
	Node model.NodeID
	Edge model.Edge
}

func (i Issue) String() string {
	if i.Kind == IssueOrphanList {
		return fmt.Sprintf("%s: list of node %d", i.Kind, i.Node)
	}
	return fmt.Sprintf("%s: %v in list of node %d", i.Kind, i.Edge, i.Node)
}

// CheckReport summarizes a consistency check.
type CheckReport struct {
	Nodes     int
	EdgeLists int
	Edges     int
	Issues    []Issue
}

// OK reports whether no issues were found.
func (r *CheckReport) OK() bool {
	return len(r.Issues) == 0
}

type placement struct {
	owner model.NodeID
	edge  model.Edge
}

// Check verifies that every edge appears in both endpoint lists with
// identical tuples (twice in one list for a self-loop) and that every list
// and endpoint refers to an existing node.
func (s *Store) Check() (*CheckReport, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report, _, err := s.check()
	return report, err
}

// Repair runs Check and removes what it finds: orphan lists are deleted and
// every tuple of an inconsistent edge is dropped from all lists, so the
// edge ends up in neither endpoint. It returns the issues it fixed.
func (s *Store) Repair() (*CheckReport, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report, placements, err := s.check()
	if err != nil || report.OK() {
		return report, err
	}

	orphans := make(map[model.NodeID]bool)
	strip := make(map[model.NodeID]map[model.EdgeID]bool)
	for _, issue := range report.Issues {
		if issue.Kind == IssueOrphanList {
			orphans[issue.Node] = true
			continue
		}
		for _, p := range placements[issue.Edge.ID] {
			if strip[p.owner] == nil {
				strip[p.owner] = make(map[model.EdgeID]bool)
			}
			strip[p.owner][p.edge.ID] = true
		}
	}

	for _, owner := range slices.Sorted(maps.Keys(orphans)) {
		if _, err := s.edges.Remove(uint64(owner)); err != nil {
			return report, err
		}
	}
	for _, owner := range slices.Sorted(maps.Keys(strip)) {
		if orphans[owner] {
			continue
		}
		l, err := s.loadList(owner)
		if err != nil {
			return report, err
		}
		drop := strip[owner]
		l.Edges = slices.DeleteFunc(l.Edges, func(e model.Edge) bool { return drop[e.ID] })
		if err := s.saveList(l); err != nil {
			return report, err
		}
	}

	s.logger.Warn("repaired graph store", "issues", len(report.Issues))
	return report, nil
}

func (s *Store) check() (*CheckReport, map[model.EdgeID][]placement, error) {
	report := &CheckReport{Nodes: s.nodes.Len()}
	placements := make(map[model.EdgeID][]placement)

	for l, err := range s.edges.All() {
		if err != nil {
			return nil, nil, err
		}
		report.EdgeLists++
		if !s.nodes.Contains(uint64(l.Node)) {
			report.Issues = append(report.Issues, Issue{Kind: IssueOrphanList, Node: l.Node})
		}
		for _, e := range l.Edges {
			placements[e.ID] = append(placements[e.ID], placement{owner: l.Node, edge: e})
		}
	}

	for _, id := range slices.Sorted(maps.Keys(placements)) {
		report.Edges++
		if issue, bad := s.checkEdge(placements[id]); bad {
			report.Issues = append(report.Issues, issue)
		}
	}
	return report, placements, nil
}

func (s *Store) checkEdge(ps []placement) (Issue, bool) {
	first := ps[0]
	e := first.edge

	for _, p := range ps {
		if p.edge.Start != p.owner && p.edge.End != p.owner {
			return Issue{Kind: IssueMisplaced, Node: p.owner, Edge: p.edge}, true
		}
	}
	if !s.nodes.Contains(uint64(e.Start)) || !s.nodes.Contains(uint64(e.End)) {
		return Issue{Kind: IssueDanglingEndpoint, Node: first.owner, Edge: e}, true
	}

	symmetric := len(ps) == 2 && ps[0].edge == ps[1].edge
	if symmetric {
		if e.IsLoop() {
			symmetric = ps[0].owner == e.Start && ps[1].owner == e.Start
		} else {
			symmetric = ps[0].owner != ps[1].owner
		}
	}
	if !symmetric {
		return Issue{Kind: IssueAsymmetric, Node: first.owner, Edge: e}, true
	}
	return Issue{}, false
}
