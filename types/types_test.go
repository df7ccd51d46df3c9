package types

import (
	"testing"
	"unsafe"
)

func TestPrimitiveLayout(t *testing.T) {
	tests := []struct {
		tag   PrimitiveTag
		name  string
		size  uintptr
		align uintptr
	}{
		{Bool, "Bool", 1, 1},
		{Int32, "Int32", 4, 4},
		{Int64, "Int64", 8, 8},
		{Str, "String", unsafe.Sizeof(uintptr(0)), unsafe.Sizeof(uintptr(0))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPrimitive(tc.tag)
			if got := p.Size(); got != tc.size {
				t.Errorf("size: got %d, want %d", got, tc.size)
			}
			if got := p.Alignment(); got != tc.align {
				t.Errorf("alignment: got %d, want %d", got, tc.align)
			}
			if got := p.Description(); got != tc.name {
				t.Errorf("description: got %q, want %q", got, tc.name)
			}
		})
	}
}

func TestDescription(t *testing.T) {
	i64 := NewPrimitive(Int64)
	i32 := NewPrimitive(Int32)

	tests := []struct {
		name string
		ref  Ref
		want string
	}{
		{"bare_struct", NewStruct("Unit"), "Unit"},
		{"one_arg", NewStruct("Box", i64), "Box<Int64>"},
		{"two_args", NewStruct("Pair", i64, i32), "Pair<Int64, Int32>"},
		{"enum", NewEnum("Maybe", i32), "Maybe<Int32>"},
		{"nested", NewStruct("Box", NewEnum("Maybe", i32)), "Box<Maybe<Int32>>"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ref.Description(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEquality(t *testing.T) {
	i64 := NewPrimitive(Int64)
	i32 := NewPrimitive(Int32)

	tests := []struct {
		name string
		a, b Ref
		want bool
	}{
		{"same_primitive", NewPrimitive(Bool), NewPrimitive(Bool), true},
		{"different_primitive", NewPrimitive(Bool), NewPrimitive(Int32), false},
		{"same_struct", NewStruct("Pair", i64, i32), NewStruct("Pair", i64, i32), true},
		{"different_name", NewStruct("Pair", i64, i32), NewStruct("Pear", i64, i32), false},
		{"different_args", NewStruct("Pair", i64, i32), NewStruct("Pair", i32, i64), false},
		{"different_arity", NewStruct("Pair", i64), NewStruct("Pair", i64, i32), false},
		{"struct_vs_enum", NewStruct("List", i64), NewEnum("List", i64), false},
		{"same_enum", NewEnum("Maybe", i32), NewEnum("Maybe", i32), true},
		{"primitive_vs_struct", i64, NewStruct("Int64"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.EqualTo(tc.b); got != tc.want {
				t.Errorf("EqualTo: got %v, want %v", got, tc.want)
			}
			if got := tc.b.EqualTo(tc.a); got != tc.want {
				t.Errorf("EqualTo (flipped): got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEqualImpliesSameHash(t *testing.T) {
	i64 := NewPrimitive(Int64)

	pairs := [][2]Ref{
		{NewPrimitive(Str), NewPrimitive(Str)},
		{NewStruct("Pair", i64), NewStruct("Pair", i64)},
		{NewEnum("List", i64), NewEnum("List", i64)},
	}

	for _, p := range pairs {
		if !p[0].EqualTo(p[1]) {
			t.Fatalf("%s not equal to its clone", p[0].Description())
		}
		if p[0].HashValue() != p[1].HashValue() {
			t.Errorf("%s: equal headers hash differently", p[0].Description())
		}
	}
}

func TestHashDiscriminatesVariants(t *testing.T) {
	i64 := NewPrimitive(Int64)
	s := NewStruct("List", i64)
	e := NewEnum("List", i64)
	if s.HashValue() == e.HashValue() {
		t.Error("struct and enum headers with same name and args share a hash")
	}
}

func TestHasherDeterminism(t *testing.T) {
	mk := func() uint64 {
		h := NewHasher()
		h.Combine(0x2a)
		h.CombineString("List")
		h.Combine(0xdeadbeef)
		return h.Finalize()
	}
	if mk() != mk() {
		t.Error("hasher is not deterministic")
	}
}

func TestHasherOrderSensitive(t *testing.T) {
	a := NewHasher()
	a.Combine(1)
	a.Combine(2)
	b := NewHasher()
	b.Combine(2)
	b.Combine(1)
	if a.Finalize() == b.Finalize() {
		t.Error("hasher ignores combination order")
	}
}

func TestHasherEmptyIsBasis(t *testing.T) {
	h := NewHasher()
	if h.Finalize() != 0xcbf29ce484222325 {
		t.Errorf("empty hash: got %#x", h.Finalize())
	}
}
