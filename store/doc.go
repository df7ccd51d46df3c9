// Package store implements the type identifier interning store and the
// type-erased value protocol built on top of it.
//
// # Lifecycle
//
// A type goes through two steps. Declare interns its header, returning the
// single canonical reference for its equivalence class; the associated
// metatype starts out undefined (primitives excepted — their layout is
// fixed by the host and assigned at declaration). DefineStruct or
// DefineEnum then computes the layout exactly once:
//
//	s := store.New()
//	i32 := s.DeclarePrimitive(types.Int32)
//
//	maybe := s.Declare(types.NewEnum("Maybe", i32))
//	nothing := s.Declare(types.NewStruct("Nothing", i32))
//	just := s.Declare(types.NewStruct("Just", i32))
//	s.DefineStruct(nothing, nil)
//	m, _ := s.DefineStruct(just, []store.Field{store.NewField(i32, false)})
//	s.DefineEnum(maybe, []store.Field{
//	    store.NewField(nothing, false),
//	    store.NewField(just, false),
//	})
//
// Fields passed to a definition may reference declared types whose own
// definition is still pending, but only behind an out-of-line indirection:
// the pending type contributes one pointer word to the layout, so size and
// alignment stay computable. This is how recursive types are built.
//
// # Value Protocol
//
// Value operations take a type reference and raw addresses and dispatch on
// the header variant. CopyInitialize copies, Deinitialize destroys and
// frees out-of-line storage, DumpInstance writes the stable textual form,
// AddressOf navigates to a field (allocating lazy out-of-line backing
// storage as a side effect), and WithTemporaryAllocation scopes a zeroed
// aligned buffer:
//
//	s.WithTemporaryAllocation(just, 1, func(p unsafe.Pointer) error {
//	    a, _ := s.AddressOf(m, 0, p)
//	    store.CopyInitializePrimitive(s, i32, a, int32(42))
//	    out, _ := s.DescribeInstance(just, p) // Just<Int32>(42)
//	    return s.Deinitialize(just, p)
//	})
//
// # Sum Layout
//
// For a sum with two or more cases the metatype exposes exactly two slots:
// slot 0 is the payload at the base address, slot 1 the 16-bit tag. The
// Offsets view therefore has length 2 regardless of case count, while the
// Fields view keeps one descriptor per case; the active case's type is
// Fields()[tag]. Single-case sums adopt their case's layout with no tag,
// and empty sums are zero-sized.
//
// # Failure Model
//
// Every violation — unknown handle, layout query on an undefined type,
// redefinition, out-of-range index or tag, primitive size mismatch,
// allocation failure — returns a structured *errors.Error. Errors raised
// where a type reference is at hand carry its description; AddressOf's
// index errors and allocation failures carry none. Value operations check
// the definedness of the top-level type and the range of a tag before they
// touch memory, but a failure inside a composite's field walk leaves the
// fields already copied, and any out-of-line storage already allocated, in
// the target.
//
// # Logging
//
// A store logs nowhere by default; construct it with WithLogger to observe
// declarations and computed layouts at debug level.
package store
