// Package value provides the closed set of typed values held by an
// evaluation context.
//
// This package contains value definitions, conversion, canonical encoding
// and hashing only. It imports nothing internal, so evalctx, memo and store
// can all depend on it without cycles.
//
// Key design constraints:
//   - The kind set is sealed: Bool, Int, Float, String and homogeneous
//     arrays of each. Extend the kind set rather than storing arbitrary Go values.
//   - Equality is structural and kind-sensitive: Int(1) != Float(1)
//   - Arrays are deep-copied at every boundary (FromGo, Clone, ToGo)
//   - Canonical encoding is the only input to content hashes
package value
