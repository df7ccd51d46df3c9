package store

// Metatype is the computed layout of a declared type: size, alignment,
// triviality, the field descriptors passed at definition time, and their
// byte offsets. Metatypes are produced exclusively by the store; once a
// definition has been assigned the layout never changes.
//
// For a sum type with two or more cases, Offsets has exactly two entries —
// slot 0 is the payload at the base address, slot 1 is the 16-bit tag —
// while Fields keeps one descriptor per case. The two views deliberately
// have different cardinalities; the type active in a value is Fields()[tag].
type Metatype struct {
	size      uintptr
	alignment uintptr
	fields    []Field
	offsets   []uintptr
	trivial   bool
	isDefined bool
}

// define assigns the layout. It is called at most once per metatype.
func (m *Metatype) define(size, alignment uintptr, trivial bool, fields []Field, offsets []uintptr) {
	m.size = size
	m.alignment = alignment
	m.trivial = trivial
	m.fields = fields
	m.offsets = offsets
	m.isDefined = true
}

// Defined reports whether a definition has been assigned. An undefined
// metatype may be interrogated only through this accessor.
func (m *Metatype) Defined() bool {
	return m.isDefined
}

// Size returns the byte size of a value in its natural, non-indirected
// form; 0 for zero-field composites.
func (m *Metatype) Size() uintptr {
	return m.size
}

// Alignment returns the power-of-two alignment; 1 for zero-field
// composites.
func (m *Metatype) Alignment() uintptr {
	return m.alignment
}

// IsTrivial reports whether values involve no out-of-line storage,
// transitively, so that copy is a bitwise move and destruction a no-op.
func (m *Metatype) IsTrivial() bool {
	return m.trivial
}

// Fields returns the field descriptors used at definition time, in order.
// The returned slice is a read-only view; callers must not mutate it.
func (m *Metatype) Fields() []Field {
	return m.fields
}

// Offsets returns the byte offset of each slot. The returned slice is a
// read-only view; callers must not mutate it.
func (m *Metatype) Offsets() []uintptr {
	return m.offsets
}
