package store

import "github.com/kyouko-taiga/xst/types"

// Field pairs a type reference with a flag marking its storage as
// out-of-line. An out-of-line field occupies a single pointer slot whose
// target is allocated lazily; this indirection is what lets recursive types
// keep a finite size.
type Field struct {
	typ       types.Ref
	outOfLine bool
}

// NewField creates a field of the given type. Pass outOfLine to store the
// value behind a pointer indirection.
func NewField(typ types.Ref, outOfLine bool) Field {
	return Field{typ: typ, outOfLine: outOfLine}
}

// Type returns the type of the field.
func (f Field) Type() types.Ref {
	return f.typ
}

// OutOfLine reports whether the field is stored out-of-line.
func (f Field) OutOfLine() bool {
	return f.outOfLine
}
