package model

import "errors"

// Sentinel errors shared by all backends.
var (
	// ErrNotFound is returned when a node does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned when an argument is invalid (e.g. an edge query without endpoints).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRootNode is returned when removing the root node.
	ErrRootNode = errors.New("root node cannot be removed")

	// ErrUnknownRelationship is returned when a relationship id was never interned.
	ErrUnknownRelationship = errors.New("unknown relationship")

	// ErrClosed is returned when an operation is attempted on a closed backend.
	ErrClosed = errors.New("backend closed")
)
