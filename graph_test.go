package graphgo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/graphgo/disk"
	"github.com/hupe1980/graphgo/internal/fs"
	"github.com/hupe1980/graphgo/internal/storage"
	"github.com/hupe1980/graphgo/memory"
	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a constructor per backend so every behavioral test runs
// against both.
func backends() []struct {
	name string
	open func(t *testing.T) *Store
} {
	return []struct {
		name string
		open func(t *testing.T) *Store
	}{
		{"Disk", func(t *testing.T) *Store {
			s, err := Open(t.TempDir())
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		}},
		{"Memory", func(t *testing.T) *Store {
			s := NewMemory()
			t.Cleanup(func() { _ = s.Close() })
			return s
		}},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, g *Graph)) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			fn(t, b.open(t).Graph())
		})
	}
}

func TestRootNode(t *testing.T) {
	forEachBackend(t, func(t *testing.T, g *Graph) {
		root, err := g.RootNode()
		require.NoError(t, err)
		assert.Equal(t, model.RootNodeID, root.ID())
		assert.Same(t, g, root.Graph())

		assert.ErrorIs(t, g.RemoveNode(root), ErrRootNode)

		n, err := g.CreateNode()
		require.NoError(t, err)
		assert.Equal(t, model.NodeID(1), n.ID())
	})
}

func TestSymmetricAdjacency(t *testing.T) {
	forEachBackend(t, func(t *testing.T, g *Graph) {
		s, _ := g.CreateNode()
		e, _ := g.CreateNode()
		rel, err := g.Relationship("knows")
		require.NoError(t, err)

		edge, err := s.Link(e, rel)
		require.NoError(t, err)
		assert.Same(t, s, edge.Start())
		assert.Same(t, e, edge.End())
		assert.Equal(t, rel, edge.Relationship())

		out, err := s.OutgoingEdges(rel)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, edge.ID(), out[0].ID())
		assert.Equal(t, e.ID(), out[0].End().ID())

		in, err := e.IncomingEdges(rel)
		require.NoError(t, err)
		require.Len(t, in, 1)
		assert.Equal(t, s.ID(), in[0].Start().ID())

		none, err := s.IncomingEdges(rel)
		require.NoError(t, err)
		assert.Empty(t, none)

		removed, err := s.Unlink(e, rel)
		require.NoError(t, err)
		assert.True(t, removed)

		out, err = s.OutgoingEdges(rel)
		require.NoError(t, err)
		assert.Empty(t, out)
		in, err = e.IncomingEdges(rel)
		require.NoError(t, err)
		assert.Empty(t, in)

		removed, err = s.Unlink(e, rel)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestSelfLoop(t *testing.T) {
	forEachBackend(t, func(t *testing.T, g *Graph) {
		n, _ := g.CreateNode()
		rel, _ := g.Relationship("self")

		edge, err := n.Link(n, rel)
		require.NoError(t, err)

		out, err := n.OutgoingEdges(rel)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, edge.ID(), out[0].ID())
		assert.Same(t, n, out[0].Start())
		assert.Same(t, n, out[0].End())

		in, err := n.IncomingEdges(rel)
		require.NoError(t, err)
		require.Len(t, in, 1)
		assert.Equal(t, edge.ID(), in[0].ID())
	})
}

func TestRelationshipsAreTyped(t *testing.T) {
	forEachBackend(t, func(t *testing.T, g *Graph) {
		a, _ := g.CreateNode()
		b, _ := g.CreateNode()
		friend, _ := g.Relationship("friend")
		enemy, _ := g.Relationship("enemy")

		again, err := g.Relationship("friend")
		require.NoError(t, err)
		assert.True(t, friend == again)
		assert.False(t, friend == enemy)
		assert.Equal(t, "friend", friend.Name())

		_, err = a.Link(b, friend)
		require.NoError(t, err)

		out, err := a.OutgoingEdges(enemy)
		require.NoError(t, err)
		assert.Empty(t, out)

		between, err := g.Edges(a, b, friend)
		require.NoError(t, err)
		assert.Len(t, between, 1)

		reverse, err := g.Edges(b, a, friend)
		require.NoError(t, err)
		assert.Empty(t, reverse)
	})
}

func TestRemoveNodeCascades(t *testing.T) {
	forEachBackend(t, func(t *testing.T, g *Graph) {
		root, _ := g.RootNode()
		a, _ := g.CreateNode()
		b, _ := g.CreateNode()
		rel, _ := g.Relationship("r")

		_, err := root.Link(a, rel)
		require.NoError(t, err)
		_, err = a.Link(b, rel)
		require.NoError(t, err)
		_, err = a.Link(a, rel)
		require.NoError(t, err)

		require.NoError(t, g.RemoveNode(a))

		out, err := root.OutgoingEdges(rel)
		require.NoError(t, err)
		assert.Empty(t, out)
		in, err := b.IncomingEdges(rel)
		require.NoError(t, err)
		assert.Empty(t, in)

		_, err = g.Node(a.ID())
		assert.ErrorIs(t, err, ErrNotFound)

		// The stale handle is rejected.
		assert.ErrorIs(t, a.Set("k", 1), ErrNotFound)
		_, err = a.Link(b, rel)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = a.OutgoingEdges(rel)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, g.RemoveNode(a), ErrNotFound)
	})
}

func TestProperties(t *testing.T) {
	forEachBackend(t, func(t *testing.T, g *Graph) {
		n, _ := g.CreateNode()

		require.NoError(t, n.Set("name", "alice"))
		require.NoError(t, n.Set("age", 30))
		require.NoError(t, n.Set("score", 0.5))
		require.NoError(t, n.Set("admin", true))
		require.NoError(t, n.Set("tags", []string{"a", "b"}))
		require.NoError(t, n.Set("nothing", nil))

		v, ok := n.Get("name")
		assert.True(t, ok)
		assert.Equal(t, "alice", v)

		v, ok = n.Get("age")
		assert.True(t, ok)
		assert.Equal(t, int64(30), v)

		v, _ = n.Get("tags")
		assert.Equal(t, []any{"a", "b"}, v)

		_, ok = n.Get("missing")
		assert.False(t, ok)

		// A second handle sees the stored record.
		other, err := g.Node(n.ID())
		require.NoError(t, err)
		assert.True(t, n.Properties().Equal(other.Properties()))

		require.NoError(t, other.Delete("age"))
		require.NoError(t, n.Set("city", "berlin"))

		fresh, err := g.Node(n.ID())
		require.NoError(t, err)
		_, ok = fresh.Get("age")
		assert.False(t, ok)
		v, _ = fresh.Get("city")
		assert.Equal(t, "berlin", v)

		assert.ErrorIs(t, n.Set("bad", struct{}{}), ErrInvalidArgument)
		assert.ErrorIs(t, n.Set("mixed", []any{1, "x"}), ErrInvalidArgument)
	})
}

func TestValidation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, g *Graph) {
		a, _ := g.CreateNode()
		rel, _ := g.Relationship("r")

		foreign := NewMemory()
		defer foreign.Close()
		fn, _ := foreign.Graph().CreateNode()
		frel, _ := foreign.Graph().Relationship("r")

		tests := []struct {
			name string
			call func() error
			want error
		}{
			{"LinkNil", func() error { _, err := a.Link(nil, rel); return err }, ErrInvalidArgument},
			{"LinkZeroRelationship", func() error { _, err := a.Link(a, Relationship{}); return err }, ErrInvalidArgument},
			{"LinkForeignNode", func() error { _, err := a.Link(fn, rel); return err }, ErrForeignNode},
			{"LinkForeignRelationship", func() error { _, err := a.Link(a, frel); return err }, ErrForeignRelationship},
			{"UnlinkForeignNode", func() error { _, err := a.Unlink(fn, rel); return err }, ErrForeignNode},
			{"EdgesNoEndpoints", func() error { _, err := g.Edges(nil, nil, rel); return err }, ErrInvalidArgument},
			{"EdgesForeignStart", func() error { _, err := g.Edges(fn, nil, rel); return err }, ErrForeignNode},
			{"RemoveNil", func() error { return g.RemoveNode(nil) }, ErrInvalidArgument},
			{"RemoveForeign", func() error { return g.RemoveNode(fn) }, ErrForeignNode},
			{"MissingNode", func() error { _, err := g.Node(999); return err }, ErrNotFound},
			{"RelationshipInvalidUTF8", func() error { _, err := g.Relationship("k\xff"); return err }, ErrInvalidArgument},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.ErrorIs(t, tt.call(), tt.want)
			})
		}

		// Rejected calls left no edges behind.
		out, err := a.OutgoingEdges(rel)
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestClosedStore(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			g := s.Graph()
			n, _ := g.CreateNode()
			rel, _ := g.Relationship("r")

			require.NoError(t, s.Close())
			require.NoError(t, s.Close())

			_, err := g.CreateNode()
			assert.ErrorIs(t, err, ErrClosed)
			_, err = g.RootNode()
			assert.ErrorIs(t, err, ErrClosed)
			_, err = n.Link(n, rel)
			assert.ErrorIs(t, err, ErrClosed)
			assert.ErrorIs(t, n.Set("k", 1), ErrClosed)
			_, err = n.OutgoingEdges(rel)
			assert.ErrorIs(t, err, ErrClosed)
		})
	}
}

func TestReopenScenario(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	g := s.Graph()

	root, err := g.RootNode()
	require.NoError(t, err)
	assert.Equal(t, model.RootNodeID, root.ID())

	a, err := g.CreateNode()
	require.NoError(t, err)
	friend, err := g.Relationship("friend")
	require.NoError(t, err)
	_, err = root.Link(a, friend)
	require.NoError(t, err)

	out, _ := root.OutgoingEdges(friend)
	in, _ := a.IncomingEdges(friend)
	back, _ := root.IncomingEdges(friend)
	assert.Len(t, out, 1)
	assert.Len(t, in, 1)
	assert.Empty(t, back)
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()
	g = s.Graph()

	root, err = g.RootNode()
	require.NoError(t, err)
	assert.Equal(t, model.RootNodeID, root.ID())
	friend, err = g.Relationship("friend")
	require.NoError(t, err)

	out, err = root.OutgoingEdges(friend)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, a.ID(), out[0].End().ID())
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, disk.ErrConfiguration)

	idx, _ := storage.Files("nodes")
	require.NoError(t, os.WriteFile(filepath.Join(dir, idx), []byte{1, 2, 3}, 0o644))
	_, err = Open(dir)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFailedLinkLeavesGraphUnchanged(t *testing.T) {
	faulty := fs.NewFaultyFS(nil)
	s, err := Open(t.TempDir(), WithFileSystem(faulty))
	require.NoError(t, err)
	defer s.Close()

	g := s.Graph()
	a, _ := g.CreateNode()
	b, _ := g.CreateNode()
	rel, _ := g.Relationship("r")

	faulty.SetLimit(0)
	_, err = a.Link(b, rel)
	require.Error(t, err)
	faulty.SetLimit(-1)

	out, err := a.OutgoingEdges(rel)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = a.Link(b, rel)
	require.NoError(t, err)
	out, err = a.OutgoingEdges(rel)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

// hidingBackend reports one node as missing, like a crash between the
// list writes of RemoveNode would.
type hidingBackend struct {
	*memory.Store
	hidden model.NodeID
}

func (b *hidingBackend) LoadNode(id model.NodeID) (property.Map, bool, error) {
	if id == b.hidden {
		return nil, false, nil
	}
	return b.Store.LoadNode(id)
}

func TestDanglingEdgeIsSkipped(t *testing.T) {
	backend := &hidingBackend{Store: memory.New(), hidden: 2}
	s := NewWithBackend(backend)
	defer s.Close()
	g := s.Graph()

	a, _ := g.CreateNode()
	b, _ := g.CreateNode()
	c, _ := g.CreateNode()
	require.Equal(t, backend.hidden, b.ID())
	rel, _ := g.Relationship("r")

	_, err := a.Link(b, rel)
	require.NoError(t, err)
	_, err = a.Link(c, rel)
	require.NoError(t, err)

	out, err := a.OutgoingEdges(rel)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, c.ID(), out[0].End().ID())
}
