package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the invariant violation occurred
type Phase string

const (
	PhaseDeclare Phase = "declare" // header interning
	PhaseDefine  Phase = "define"  // metatype definition
	PhaseLayout  Phase = "layout"  // size/alignment/offset queries
	PhaseValue   Phase = "value"   // copy/deinitialize operations
	PhaseDump    Phase = "dump"    // textual value dumps
	PhaseAlloc   Phase = "alloc"   // aligned allocation
)

// Kind categorizes the violation
type Kind string

const (
	KindUnknownType   Kind = "unknown_type"   // handle with no store entry
	KindUndefinedType Kind = "undefined_type" // declared but not yet defined
	KindRedefinition  Kind = "redefinition"   // define called twice
	KindShapeMismatch Kind = "shape_mismatch" // host value size differs from primitive size
	KindIndexRange    Kind = "index_range"    // field index or enum tag out of range
	KindAllocation    Kind = "allocation"     // allocator could not satisfy a request
)

// Error is the invariant-violation failure surfaced by every operation of
// the type core. No operation attempts local recovery; failures propagate
// to the caller.
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string // description of the offending type
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Type != "" {
		b.WriteString(": ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Type sets the description of the offending type
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common violation patterns

// UnknownType creates an error for a handle the store has never seen
func UnknownType(phase Phase, typeDesc string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownType,
		Type:   typeDesc,
		Detail: "type is unknown",
	}
}

// UndefinedType creates an error for a declared-but-undefined handle
func UndefinedType(phase Phase, typeDesc string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUndefinedType,
		Type:   typeDesc,
		Detail: "type is not defined",
	}
}

// Redefinition creates an error for a second definition of the same handle
func Redefinition(typeDesc string) *Error {
	return &Error{
		Phase:  PhaseDefine,
		Kind:   KindRedefinition,
		Type:   typeDesc,
		Detail: "type is already defined",
	}
}

// ShapeMismatch creates an error for a primitive boundary copy whose host
// value size differs from the primitive's size
func ShapeMismatch(typeDesc string, want, got uintptr) *Error {
	return &Error{
		Phase:  PhaseValue,
		Kind:   KindShapeMismatch,
		Type:   typeDesc,
		Detail: fmt.Sprintf("value occupies %d bytes, type requires %d", got, want),
	}
}

// IndexOutOfRange creates an error for a field index or enum tag outside
// the declared count
func IndexOutOfRange(phase Phase, typeDesc string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIndexRange,
		Type:   typeDesc,
		Detail: fmt.Sprintf("index %d out of range (count %d)", index, length),
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(size, align uintptr) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}
