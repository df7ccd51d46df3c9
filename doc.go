// Package xst provides the runtime type-description and value-manipulation
// core of an interpreter for a statically typed language with algebraic data
// types and parametric generics.
//
// Given a nominal type (name plus ordered type arguments) or a primitive
// type, the library computes its memory layout, interns a canonical
// identifier for it, and offers a type-erased protocol for copying,
// destroying, and textually dumping values of that type through an untyped
// memory pointer.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	xst/             Root package with the core Allocator and Sink interfaces
//	├── types/       Type headers: primitives, structs, enums, hashing
//	├── store/       Interning store, metatypes, layout, value protocol
//	├── mem/         Aligned heap allocator with offset-prefix headers
//	├── errors/      Structured invariant-violation failures
//	└── cmd/
//	    └── xst-inspect/  Layout inspector CLI with interactive browser
//
// # Quick Start
//
// Declare and define a pair type, then build and dump a value:
//
//	s := store.New()
//	i64 := s.DeclarePrimitive(types.Int64)
//	i32 := s.DeclarePrimitive(types.Int32)
//
//	pair := s.Declare(types.NewStruct("Pair", i64, i32))
//	m, err := s.DefineStruct(pair, []store.Field{
//	    store.NewField(i64, false),
//	    store.NewField(i32, false),
//	})
//
//	s.WithTemporaryAllocation(pair, 1, func(p unsafe.Pointer) error {
//	    a, _ := s.AddressOf(m, 0, p)
//	    store.CopyInitializePrimitive(s, i64, a, int64(42))
//	    b, _ := s.AddressOf(m, 1, p)
//	    store.CopyInitializePrimitive(s, i32, b, int32(7))
//	    out, _ := s.DescribeInstance(pair, p)
//	    fmt.Println(out) // Pair<Int64, Int32>(42, 7)
//	    return s.Deinitialize(pair, p)
//	})
//
// # Layout Conventions
//
// Compound types are laid out with natural alignment:
//
//	Type            Size        Alignment
//	─────────────────────────────────────
//	bool            1           1
//	i32             4           4
//	i64             8           8
//	str             word        word
//	struct          sum+pad     max field align
//	enum (0 cases)  0           1
//	enum (1 case)   case size   case align
//	enum (≥2)       payload+u16 max(case aligns, 2)
//
// A struct's fields appear in declared order with padding to each field's
// alignment. An enum with two or more cases stores its payload at offset 0
// and a 16-bit tag at the maximum case size rounded up to 2. A field marked
// out-of-line occupies one pointer slot regardless of its type; its backing
// storage is allocated lazily on first address computation, which is how
// recursive types break their size cycles.
//
// # Ownership
//
// The store owns every interned header and its metatype; clients hold
// borrowed references valid for the store's lifetime. Value memory is owned
// by the caller; out-of-line sub-values are allocated by the value protocol,
// owned by the containing value, and released by Deinitialize.
//
// # Thread Safety
//
// The store is NOT safe for concurrent use: Declare and Define race on the
// interning table. Confine a store to one goroutine or synchronize access
// externally.
package xst
