// Package ir provides the value and type foundation for pathql.
//
// This package contains declared types, runtime value helpers and canonical
// JSON hashing. All other internal packages import ir; ir imports nothing
// internal. This keeps ir the foundational layer with no import cycles.
//
// Key constraints:
//   - *Type values are immutable and shared; compare with Equal
//   - Runtime values are plain Go values (int8..int64, float32/64,
//     decimal.Decimal, string, bool, time.Time, slices, maps, structs)
//   - Canonical JSON is the only encoding used for fingerprints
package ir
