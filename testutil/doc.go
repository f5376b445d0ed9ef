// Package testutil provides testing utilities for graphgo.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	links := rng.Pairs(1000, nodeCount) // random (start, end) indexes
//	props := rng.Properties(8)          // property.Map with mixed kinds
package testutil
