package graphgo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hupe1980/graphgo/disk"
	"github.com/hupe1980/graphgo/internal/storage"
	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/property"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	other := errors.New("disk on fire")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"NotFound", fmt.Errorf("node 3: %w", model.ErrNotFound), ErrNotFound},
		{"UnknownRelationship", model.ErrUnknownRelationship, ErrNotFound},
		{"RootNode", model.ErrRootNode, ErrRootNode},
		{"InvalidArgument", model.ErrInvalidArgument, ErrInvalidArgument},
		{"UnsupportedType", property.ErrUnsupportedType, ErrInvalidArgument},
		{"HeterogeneousList", &property.HeterogeneousListError{Index: 1}, ErrInvalidArgument},
		{"Closed", model.ErrClosed, ErrClosed},
		{"StorageClosed", storage.ErrClosed, ErrClosed},
		{"Corrupt", &storage.CorruptionError{Name: "nodes", Reason: "torn"}, ErrCorrupt},
		{"Configuration", &disk.ConfigurationError{Dir: "/x", Reason: "does not exist"}, ErrConfiguration},
		{"Other", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.in)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.in)
		})
	}

	assert.NoError(t, translateError(nil))
}
