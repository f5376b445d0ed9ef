package graphgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/graphgo/disk"
	"github.com/hupe1980/graphgo/internal/storage"
	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/property"
)

var (
	// ErrInvalidArgument is returned for nil nodes, zero relationships,
	// unsupported property values and edge queries without endpoints.
	ErrInvalidArgument = errors.New("graphgo: invalid argument")

	// ErrForeignNode is returned when a node of another graph is passed in.
	ErrForeignNode = errors.New("graphgo: node belongs to another graph")

	// ErrForeignRelationship is returned when a relationship of another graph is passed in.
	ErrForeignRelationship = errors.New("graphgo: relationship belongs to another graph")

	// ErrNotFound is returned when a node does not exist or was removed.
	ErrNotFound = errors.New("graphgo: not found")

	// ErrRootNode is returned when removing the root node.
	ErrRootNode = errors.New("graphgo: root node cannot be removed")

	// ErrCorrupt is returned when the store files fail validation on open
	// or a record cannot be decoded.
	ErrCorrupt = errors.New("graphgo: corrupt store")

	// ErrConfiguration is returned when the store directory is missing,
	// not a directory, or not writable.
	ErrConfiguration = errors.New("graphgo: invalid configuration")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("graphgo: store closed")
)

// translateError maps backend errors onto the public sentinels. The
// original error stays in the chain.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrUnknownRelationship):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, model.ErrRootNode):
		return fmt.Errorf("%w: %w", ErrRootNode, err)
	case errors.Is(err, model.ErrInvalidArgument),
		errors.Is(err, property.ErrUnsupportedType),
		errors.Is(err, property.ErrHeterogeneousList):
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	case errors.Is(err, model.ErrClosed), errors.Is(err, storage.ErrClosed):
		return fmt.Errorf("%w: %w", ErrClosed, err)
	case errors.Is(err, storage.ErrCorrupt):
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	case errors.Is(err, disk.ErrConfiguration):
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return err
}
