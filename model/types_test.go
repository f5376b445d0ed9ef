package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeQueryMatches(t *testing.T) {
	e := Edge{ID: 7, Start: 1, End: 2, Relationship: 3}

	tests := []struct {
		name  string
		query EdgeQuery
		want  bool
	}{
		{"outgoing", Outgoing(1, 3), true},
		{"incoming", Incoming(2, 3), true},
		{"between", Between(1, 2, 3), true},
		{"reversed", Between(2, 1, 3), false},
		{"wrong relationship", Outgoing(1, 4), false},
		{"wrong start", Outgoing(2, 3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.Matches(e))
		})
	}
}

func TestEdgeOther(t *testing.T) {
	e := Edge{ID: 1, Start: 4, End: 9}
	assert.Equal(t, NodeID(9), e.Other(4))
	assert.Equal(t, NodeID(4), e.Other(9))
	assert.False(t, e.IsLoop())

	loop := Edge{ID: 2, Start: 5, End: 5}
	assert.True(t, loop.IsLoop())
	assert.Equal(t, NodeID(5), loop.Other(5))
}
