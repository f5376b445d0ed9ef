// Package memory implements a graph backend held entirely in process
// memory. Nothing is persisted; closing the store discards the graph.
//
// It follows the same rules as the disk backend (root node 0, edges
// visible from both endpoints, self-loops reported once per direction) so
// the two can be swapped behind graphgo.Backend.
package memory
