// Package property implements the typed values stored on graph nodes.
//
// A node's properties form a [Map] of string keys to [Value]s. Values are
// tagged with an explicit [Kind]:
//
//   - Null: property.Null()
//   - Int: property.Int(42)
//   - Float: property.Float(3.14)
//   - String: property.String("alice")
//   - Bool: property.Bool(true)
//   - List: property.List(property.Int(1), property.Int(2))
//
// Lists are homogeneous: every item has the same kind.
//
// # Binary Format
//
// [Map.MarshalBinary] produces a compact self-describing encoding that is
// stored verbatim in node records. Decoding never reflects into arbitrary Go
// types; unknown kinds are rejected with [ErrInvalidEncoding].
//
// Plain Go values can be adapted with [FromAny] and [MapFromAny].
package property
