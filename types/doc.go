// Package types defines the runtime type headers and the hashing used to
// intern them.
//
// A header uniquely identifies a type: a Primitive carries one of four
// built-in tags, while Struct and Enum carry a name and an ordered sequence
// of type-argument references. Two headers identify the same type when they
// have the same variant and, for composites, equal names and identical
// argument references — argument identity presumes the arguments themselves
// are already canonical, which the store's interning guarantees.
//
// Hashing is structural: HashValue folds the variant, the name bytes, and
// the argument hashes through the FNV-64 Hasher, so equal headers always
// hash equally.
//
// Headers constructed here are candidates; the store's Declare resolves a
// candidate to the single canonical instance for its equivalence class.
package types
