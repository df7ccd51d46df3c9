package types

import (
	"strings"
	"unsafe"
)

// WordSize is the size in bytes of a pointer slot, which is also the size
// and alignment of the str primitive and of every out-of-line field.
const WordSize = unsafe.Sizeof(uintptr(0))

// Kind discriminates the three header variants.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindStruct
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	default:
		return "invalid"
	}
}

// Ref identifies a type at runtime. The canonical instance for each
// structurally distinct type is owned by a store; clients hold borrowed
// references whose validity is tied to the store's lifetime.
type Ref interface {
	// Kind returns the variant of the header.
	Kind() Kind

	// HashValue returns a structural hash of the header. Equal headers
	// hash equally.
	HashValue() uint64

	// EqualTo reports whether the header identifies the same type as
	// other: same variant and, for composites, equal names and identical
	// ordered argument references.
	EqualTo(other Ref) bool

	// Description returns a printable form: the name for primitives,
	// Name<A1, A2> for composites with arguments.
	Description() string

	sealed()
}

// PrimitiveTag identifies one of the built-in types. The numbering is a
// stable part of the external interface.
type PrimitiveTag uint8

const (
	Bool  PrimitiveTag = 0
	Int32 PrimitiveTag = 1
	Int64 PrimitiveTag = 2
	Str   PrimitiveTag = 3
)

func (t PrimitiveTag) String() string {
	switch t {
	case Bool:
		return "Bool"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case Str:
		return "String"
	default:
		return "invalid"
	}
}

// Primitive is the header of a built-in type. It carries its tag only.
type Primitive struct {
	tag PrimitiveTag
}

// NewPrimitive creates a header identifying the given built-in type.
func NewPrimitive(tag PrimitiveTag) *Primitive {
	return &Primitive{tag: tag}
}

// Tag returns the built-in type identified by this header.
func (p *Primitive) Tag() PrimitiveTag {
	return p.tag
}

func (p *Primitive) Kind() Kind {
	return KindPrimitive
}

// Size returns the byte size of a value of the primitive: 1 for Bool, 4
// for Int32, 8 for Int64, one word for Str.
func (p *Primitive) Size() uintptr {
	switch p.tag {
	case Bool:
		return 1
	case Int32:
		return 4
	case Int64:
		return 8
	case Str:
		return WordSize
	default:
		return 0
	}
}

// Alignment returns the alignment of a value of the primitive, which for
// all four built-ins equals its size.
func (p *Primitive) Alignment() uintptr {
	return p.Size()
}

func (p *Primitive) HashValue() uint64 {
	h := NewHasher()
	h.Combine(uint64(KindPrimitive))
	h.Combine(uint64(p.tag))
	return h.Finalize()
}

func (p *Primitive) EqualTo(other Ref) bool {
	that, ok := other.(*Primitive)
	return ok && p.tag == that.tag
}

func (p *Primitive) Description() string {
	return p.tag.String()
}

func (p *Primitive) sealed() {}

// composite carries the shared shape of struct and enum headers: a name
// and an ordered sequence of type arguments. The argument references must
// already be canonical; equality compares them by identity.
type composite struct {
	name string
	args []Ref
}

func (c *composite) Name() string {
	return c.name
}

func (c *composite) Arguments() []Ref {
	return c.args
}

func (c *composite) hashValue(kind Kind) uint64 {
	h := NewHasher()
	h.Combine(uint64(kind))
	h.CombineString(c.name)
	h.CombineRefs(c.args)
	return h.Finalize()
}

func (c *composite) equalTo(that *composite) bool {
	if c.name != that.name || len(c.args) != len(that.args) {
		return false
	}
	for i, a := range c.args {
		if a != that.args[i] {
			return false
		}
	}
	return true
}

func (c *composite) description() string {
	if len(c.args) == 0 {
		return c.name
	}

	var b strings.Builder
	b.WriteString(c.name)
	b.WriteByte('<')
	for i, a := range c.args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Description())
	}
	b.WriteByte('>')
	return b.String()
}

// Struct is the header of a product type.
type Struct struct {
	composite
}

// NewStruct creates a struct header with the given name and ordered type
// arguments.
func NewStruct(name string, args ...Ref) *Struct {
	return &Struct{composite{name: name, args: args}}
}

func (s *Struct) Kind() Kind {
	return KindStruct
}

func (s *Struct) HashValue() uint64 {
	return s.hashValue(KindStruct)
}

func (s *Struct) EqualTo(other Ref) bool {
	that, ok := other.(*Struct)
	return ok && s.equalTo(&that.composite)
}

func (s *Struct) Description() string {
	return s.description()
}

func (s *Struct) sealed() {}

// Enum is the header of a sum type. It has the same shape as a struct
// header; only the semantics differ.
type Enum struct {
	composite
}

// NewEnum creates an enum header with the given name and ordered type
// arguments.
func NewEnum(name string, args ...Ref) *Enum {
	return &Enum{composite{name: name, args: args}}
}

func (e *Enum) Kind() Kind {
	return KindEnum
}

func (e *Enum) HashValue() uint64 {
	return e.hashValue(KindEnum)
}

func (e *Enum) EqualTo(other Ref) bool {
	that, ok := other.(*Enum)
	return ok && e.equalTo(&that.composite)
}

func (e *Enum) Description() string {
	return e.description()
}

func (e *Enum) sealed() {}
