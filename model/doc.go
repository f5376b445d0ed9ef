// Package model defines core types used throughout graphgo.
//
// # Identity Types
//
//   - NodeID: Store-assigned node identifier (uint64), root is 0
//   - EdgeID: Store-assigned edge identifier (uint64)
//   - RelationshipID: Identifier of an interned relationship name (uint64)
//
// # Data Types
//
//   - Relationship: Interned edge label
//   - Edge: Adjacency tuple (id, start, end, relationship)
//   - EdgeQuery: Filter used by backends to select edges
//
// Queries are usually built with the helpers:
//
//	q := model.Outgoing(nodeID, relID)
//	q := model.Between(a, b, relID)
package model
