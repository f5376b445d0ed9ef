// Package conv provides checked integer conversions for the length and
// count fields of on-disk records.
//
// Lengths are encoded as u32; a value that does not fit is an error rather
// than a silent truncation.
package conv
