package memory

import (
	"sync"
	"testing"

	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHasRoot(t *testing.T) {
	s := New()
	assert.True(t, s.HasNode(model.RootNodeID))

	id, err := s.CreateNode()
	require.NoError(t, err)
	assert.Equal(t, model.NodeID(1), id)
}

func TestLinkQueryUnlink(t *testing.T) {
	s := New()
	a, _ := s.CreateNode()
	b, _ := s.CreateNode()
	rel, err := s.Relationship("friend")
	require.NoError(t, err)

	e, err := s.CreateEdge(a, b, rel.ID)
	require.NoError(t, err)

	out, err := s.Edges(model.Outgoing(a, rel.ID))
	require.NoError(t, err)
	assert.Equal(t, []model.Edge{e}, out)

	in, err := s.Edges(model.Incoming(b, rel.ID))
	require.NoError(t, err)
	assert.Equal(t, []model.Edge{e}, in)

	none, err := s.Edges(model.Incoming(a, rel.ID))
	require.NoError(t, err)
	assert.Empty(t, none)

	ok, err := s.RemoveEdge(a, b, rel.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.RemoveEdge(a, b, rel.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, edges := s.Len()
	assert.Zero(t, edges)
}

func TestSelfLoop(t *testing.T) {
	s := New()
	a, _ := s.CreateNode()
	rel, _ := s.Relationship("self")

	e, err := s.CreateEdge(a, a, rel.ID)
	require.NoError(t, err)

	out, err := s.Edges(model.Outgoing(a, rel.ID))
	require.NoError(t, err)
	assert.Equal(t, []model.Edge{e}, out)

	in, err := s.Edges(model.Incoming(a, rel.ID))
	require.NoError(t, err)
	assert.Equal(t, []model.Edge{e}, in)
}

func TestRemoveNode(t *testing.T) {
	s := New()
	a, _ := s.CreateNode()
	b, _ := s.CreateNode()
	rel, _ := s.Relationship("r")

	_, err := s.CreateEdge(a, b, rel.ID)
	require.NoError(t, err)
	_, err = s.CreateEdge(a, a, rel.ID)
	require.NoError(t, err)
	keep, err := s.CreateEdge(b, model.RootNodeID, rel.ID)
	require.NoError(t, err)

	require.NoError(t, s.RemoveNode(a))
	assert.False(t, s.HasNode(a))

	out, err := s.Edges(model.Outgoing(b, rel.ID))
	require.NoError(t, err)
	assert.Equal(t, []model.Edge{keep}, out)

	in, err := s.Edges(model.Incoming(b, rel.ID))
	require.NoError(t, err)
	assert.Empty(t, in)

	assert.ErrorIs(t, s.RemoveNode(a), model.ErrNotFound)
	assert.ErrorIs(t, s.RemoveNode(model.RootNodeID), model.ErrRootNode)
}

func TestValidation(t *testing.T) {
	s := New()
	a, _ := s.CreateNode()

	_, err := s.CreateEdge(a, 9, 0)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.CreateEdge(a, a, 3)
	assert.ErrorIs(t, err, model.ErrUnknownRelationship)

	_, err = s.Edges(model.EdgeQuery{})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = s.Edges(model.Outgoing(9, 0))
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.ErrorIs(t, s.StoreNode(9, nil), model.ErrNotFound)
}

func TestPropertiesAreCopied(t *testing.T) {
	s := New()
	a, _ := s.CreateNode()

	props := property.Map{"k": property.Int(1)}
	require.NoError(t, s.StoreNode(a, props))
	props["k"] = property.Int(2)

	got, ok, err := s.LoadNode(a)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), got["k"].Any())

	got["k"] = property.Int(3)
	again, _, _ := s.LoadNode(a)
	assert.Equal(t, int64(1), again["k"].Any())
}

func TestRelationshipInterning(t *testing.T) {
	s := New()
	a, err := s.Relationship("a")
	require.NoError(t, err)
	b, err := s.Relationship("b")
	require.NoError(t, err)
	again, err := s.Relationship("a")
	require.NoError(t, err)

	assert.Equal(t, a, again)
	assert.NotEqual(t, a.ID, b.ID)

	got, ok := s.RelationshipByID(b.ID)
	assert.True(t, ok)
	assert.Equal(t, b, got)
}

func TestClose(t *testing.T) {
	s := New()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.CreateNode()
	assert.ErrorIs(t, err, model.ErrClosed)
	_, err = s.Relationship("r")
	assert.ErrorIs(t, err, model.ErrClosed)
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	rel, _ := s.Relationship("r")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				n, err := s.CreateNode()
				if !assert.NoError(t, err) {
					return
				}
				_, err = s.CreateEdge(model.RootNodeID, n, rel.ID)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	out, err := s.Edges(model.Outgoing(model.RootNodeID, rel.ID))
	require.NoError(t, err)
	assert.Len(t, out, 400)
}

func TestRelationshipRejectsInvalidUTF8(t *testing.T) {
	s := New()
	_, err := s.Relationship("k\xff")
	require.ErrorIs(t, err, model.ErrInvalidArgument)

	// The rejected name consumed no id.
	r, err := s.Relationship("k")
	require.NoError(t, err)
	assert.Equal(t, model.RelationshipID(0), r.ID)
}
