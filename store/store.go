package store

import (
	"go.uber.org/zap"

	"github.com/kyouko-taiga/xst"
	"github.com/kyouko-taiga/xst/errors"
	"github.com/kyouko-taiga/xst/mem"
	"github.com/kyouko-taiga/xst/types"
)

// Tag representation of sums with two or more cases: a trailing u16.
const (
	tagSize  uintptr = 2
	tagAlign uintptr = 2
)

// alignTo returns offset rounded up to the nearest multiple of align,
// which must be a power of two.
func alignTo(offset, align uintptr) uintptr {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// Store interns type headers and associates each with its metatype. For
// every equivalence class under header equality exactly one header instance
// is owned by the store; all outward references are borrowed.
//
// A Store is NOT safe for concurrent use.
type Store struct {
	alloc     xst.Allocator
	log       *zap.Logger
	buckets   map[uint64][]types.Ref
	metatypes map[types.Ref]*Metatype
	declared  []types.Ref
}

// Option configures a store at construction.
type Option func(*Store)

// WithAllocator replaces the default heap allocator used for out-of-line
// storage and temporary buffers.
func WithAllocator(a xst.Allocator) Option {
	return func(s *Store) { s.alloc = a }
}

// WithLogger installs a logger on the store. By default a store logs
// nowhere.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		alloc:     mem.Heap{},
		log:       zap.NewNop(),
		buckets:   make(map[uint64][]types.Ref),
		metatypes: make(map[types.Ref]*Metatype),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Declare returns the unique interned header equal to h. If no equal header
// is known, the store takes ownership of h, registers it with an undefined
// metatype, and returns it; otherwise the existing instance is returned and
// h is discarded. Declare is idempotent under equal input.
//
// Primitive headers are born defined: their layout is fixed by the host.
func (s *Store) Declare(h types.Ref) types.Ref {
	key := h.HashValue()
	for _, r := range s.buckets[key] {
		if r.EqualTo(h) {
			s.log.Debug("declared type",
				zap.String("type", r.Description()),
				zap.Bool("interned", true))
			return r
		}
	}

	m := &Metatype{}
	if p, ok := h.(*types.Primitive); ok {
		m.define(p.Size(), p.Alignment(), true, nil, nil)
	}

	s.buckets[key] = append(s.buckets[key], h)
	s.metatypes[h] = m
	s.declared = append(s.declared, h)

	s.log.Debug("declared type",
		zap.String("type", h.Description()),
		zap.Bool("interned", false))
	return h
}

// DeclarePrimitive returns the interned header of the given built-in type.
func (s *Store) DeclarePrimitive(tag types.PrimitiveTag) types.Ref {
	return s.Declare(types.NewPrimitive(tag))
}

// Types returns the interned headers in declaration order.
func (s *Store) Types() []types.Ref {
	out := make([]types.Ref, len(s.declared))
	copy(out, s.declared)
	return out
}

// Defined reports whether ref has been declared and defined in this store.
func (s *Store) Defined(ref types.Ref) bool {
	m, ok := s.metatypes[ref]
	return ok && m.Defined()
}

// definedMetatype returns ref's metatype, failing when ref is unknown or
// still undefined. The phase labels the failure with the operation that
// required the layout.
func (s *Store) definedMetatype(ref types.Ref, phase errors.Phase) (*Metatype, error) {
	m, ok := s.metatypes[ref]
	if !ok {
		return nil, errors.UnknownType(phase, ref.Description())
	}
	if !m.Defined() {
		return nil, errors.UndefinedType(phase, ref.Description())
	}
	return m, nil
}

// undefinedMetatype returns ref's metatype for definition, failing when
// ref is unknown or already defined.
func (s *Store) undefinedMetatype(ref types.Ref) (*Metatype, error) {
	m, ok := s.metatypes[ref]
	if !ok {
		return nil, errors.UnknownType(errors.PhaseDefine, ref.Description())
	}
	if m.Defined() {
		return nil, errors.Redefinition(ref.Description())
	}
	return m, nil
}

// Metatype returns the metatype of ref, which must have been declared and
// defined in this store.
func (s *Store) Metatype(ref types.Ref) (*Metatype, error) {
	return s.definedMetatype(ref, errors.PhaseLayout)
}

// DefineStruct assigns a product layout to ref: fields in declared order
// with natural alignment padding. Fields may reference declared types whose
// definition is still pending, but only behind an out-of-line indirection.
func (s *Store) DefineStruct(ref types.Ref, fields []Field) (*Metatype, error) {
	if _, ok := ref.(*types.Struct); !ok {
		return nil, errors.New(errors.PhaseDefine, errors.KindShapeMismatch).
			Type(ref.Description()).
			Detail("struct definition applied to a %s header", ref.Kind()).
			Build()
	}
	m, err := s.undefinedMetatype(ref)
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		m.define(0, 1, true, nil, nil)
		s.logDefinition(ref, m)
		return m, nil
	}

	offsets := make([]uintptr, len(fields))
	alignment := uintptr(1)
	for i, f := range fields {
		fa, err := s.FieldAlignment(f)
		if err != nil {
			return nil, err
		}
		if fa > alignment {
			alignment = fa
		}
		if i > 0 {
			prev, err := s.FieldSize(fields[i-1])
			if err != nil {
				return nil, err
			}
			offsets[i] = alignTo(offsets[i-1]+prev, fa)
		}
	}

	last, err := s.FieldSize(fields[len(fields)-1])
	if err != nil {
		return nil, err
	}
	size := offsets[len(fields)-1] + last

	trivial, err := s.allTrivial(fields)
	if err != nil {
		return nil, err
	}

	m.define(size, alignment, trivial, fields, offsets)
	s.logDefinition(ref, m)
	return m, nil
}

// DefineEnum assigns a sum layout to ref. With no cases the layout is
// empty; with one case it adopts that case's layout and has no tag; with
// two or more cases the payload sits at the base address and a 16-bit tag
// follows at the maximum case size rounded up to the tag's alignment.
func (s *Store) DefineEnum(ref types.Ref, fields []Field) (*Metatype, error) {
	if _, ok := ref.(*types.Enum); !ok {
		return nil, errors.New(errors.PhaseDefine, errors.KindShapeMismatch).
			Type(ref.Description()).
			Detail("enum definition applied to a %s header", ref.Kind()).
			Build()
	}
	m, err := s.undefinedMetatype(ref)
	if err != nil {
		return nil, err
	}

	switch len(fields) {
	case 0:
		m.define(0, 1, true, nil, nil)

	case 1:
		size, err := s.FieldSize(fields[0])
		if err != nil {
			return nil, err
		}
		alignment, err := s.FieldAlignment(fields[0])
		if err != nil {
			return nil, err
		}
		trivial, err := s.fieldTrivial(fields[0])
		if err != nil {
			return nil, err
		}
		m.define(size, alignment, trivial, fields, []uintptr{0})

	default:
		var maxSize uintptr
		alignment := tagAlign
		for _, f := range fields {
			fs, err := s.FieldSize(f)
			if err != nil {
				return nil, err
			}
			fa, err := s.FieldAlignment(f)
			if err != nil {
				return nil, err
			}
			if fs > maxSize {
				maxSize = fs
			}
			if fa > alignment {
				alignment = fa
			}
		}

		tagOffset := alignTo(maxSize, tagAlign)
		trivial, err := s.allTrivial(fields)
		if err != nil {
			return nil, err
		}
		m.define(tagOffset+tagSize, alignment, trivial, fields, []uintptr{0, tagOffset})
	}

	s.logDefinition(ref, m)
	return m, nil
}

func (s *Store) logDefinition(ref types.Ref, m *Metatype) {
	s.log.Debug("defined type",
		zap.String("type", ref.Description()),
		zap.Uint64("size", uint64(m.Size())),
		zap.Uint64("alignment", uint64(m.Alignment())),
		zap.Bool("trivial", m.IsTrivial()))
}

// Size returns the byte size of an instance of ref. Primitive sizes are
// fixed by the host; composite sizes require a definition.
func (s *Store) Size(ref types.Ref) (uintptr, error) {
	if p, ok := ref.(*types.Primitive); ok {
		return p.Size(), nil
	}
	m, err := s.definedMetatype(ref, errors.PhaseLayout)
	if err != nil {
		return 0, err
	}
	return m.Size(), nil
}

// Alignment returns the alignment of an instance of ref.
func (s *Store) Alignment(ref types.Ref) (uintptr, error) {
	if p, ok := ref.(*types.Primitive); ok {
		return p.Alignment(), nil
	}
	m, err := s.definedMetatype(ref, errors.PhaseLayout)
	if err != nil {
		return 0, err
	}
	return m.Alignment(), nil
}

// Stride returns the distance in bytes between consecutive instances of
// ref in contiguous memory: max(1, size rounded up to alignment).
func (s *Store) Stride(ref types.Ref) (uintptr, error) {
	size, err := s.Size(ref)
	if err != nil {
		return 0, err
	}
	alignment, err := s.Alignment(ref)
	if err != nil {
		return 0, err
	}
	x := alignTo(size, alignment)
	if x < 1 {
		return 1, nil
	}
	return x, nil
}

// IsTrivial reports whether instances of ref involve no out-of-line
// storage, transitively.
func (s *Store) IsTrivial(ref types.Ref) (bool, error) {
	if _, ok := ref.(*types.Primitive); ok {
		return true, nil
	}
	m, err := s.definedMetatype(ref, errors.PhaseLayout)
	if err != nil {
		return false, err
	}
	return m.IsTrivial(), nil
}

// FieldSize returns the size of a field's slot: one pointer word for an
// out-of-line field, the size of its type otherwise.
func (s *Store) FieldSize(f Field) (uintptr, error) {
	if f.OutOfLine() {
		return types.WordSize, nil
	}
	return s.Size(f.Type())
}

// FieldAlignment returns the alignment of a field's slot: pointer
// alignment for an out-of-line field, the alignment of its type otherwise.
func (s *Store) FieldAlignment(f Field) (uintptr, error) {
	if f.OutOfLine() {
		return types.WordSize, nil
	}
	return s.Alignment(f.Type())
}

// fieldTrivial reports whether f involves no out-of-line storage.
func (s *Store) fieldTrivial(f Field) (bool, error) {
	if f.OutOfLine() {
		return false, nil
	}
	return s.IsTrivial(f.Type())
}

// allTrivial reports whether none of the given fields involves out-of-line
// storage.
func (s *Store) allTrivial(fields []Field) (bool, error) {
	for _, f := range fields {
		t, err := s.fieldTrivial(f)
		if err != nil {
			return false, err
		}
		if !t {
			return false, nil
		}
	}
	return true, nil
}

// Offset returns the offset of the i-th slot of ref.
func (s *Store) Offset(ref types.Ref, i int) (uintptr, error) {
	m, err := s.definedMetatype(ref, errors.PhaseLayout)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= len(m.offsets) {
		return 0, errors.IndexOutOfRange(errors.PhaseLayout, ref.Description(), i, len(m.offsets))
	}
	return m.offsets[i], nil
}
