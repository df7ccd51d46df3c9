package store

import (
	"io"
	"strconv"
	"strings"
	"unsafe"

	"github.com/kyouko-taiga/xst"
	"github.com/kyouko-taiga/xst/errors"
	"github.com/kyouko-taiga/xst/mem"
	"github.com/kyouko-taiga/xst/types"
)

// memcopy moves n bytes from src to dst. The ranges must not overlap.
func memcopy(dst, src unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(dst), n), unsafe.Slice((*byte)(src), n))
}

// AddressOf returns base advanced by the offset of the i-th slot of m.
//
// If the slot's field is out-of-line it is read as a pointer slot; a nil
// slot forces a zero-initialized allocation of the field's type first. The
// returned address points at memory holding an instance of the field's
// type, whether stored directly or behind the indirection.
func (s *Store) AddressOf(m *Metatype, i int, base unsafe.Pointer) (unsafe.Pointer, error) {
	if i < 0 || i >= len(m.offsets) {
		return nil, errors.IndexOutOfRange(errors.PhaseValue, "", i, len(m.offsets))
	}
	return s.addressAt(m, i, m.fields[i], base)
}

// addressAt computes the address of slot i using f to decide indirection.
// The value protocol's sum operations address the payload slot with the
// active case's field, which may differ from fields[0].
func (s *Store) addressAt(m *Metatype, i int, f Field, base unsafe.Pointer) (unsafe.Pointer, error) {
	addr := unsafe.Add(base, m.offsets[i])
	if !f.OutOfLine() {
		return addr, nil
	}

	slot := (*unsafe.Pointer)(addr)
	if *slot == nil {
		size, err := s.Size(f.Type())
		if err != nil {
			return nil, err
		}
		alignment, err := s.Alignment(f.Type())
		if err != nil {
			return nil, err
		}
		p := s.alloc.Alloc(size, alignment, true)
		if p == nil && size != 0 {
			return nil, errors.AllocationFailed(size, alignment)
		}
		*slot = p
	}
	return *slot, nil
}

// tag reads the active case index of a sum value. Sums with fewer than two
// cases carry no tag; their only possible case is 0.
func (s *Store) tag(m *Metatype, base unsafe.Pointer) int {
	if len(m.offsets) < 2 {
		return 0
	}
	return int(*(*uint16)(unsafe.Add(base, m.offsets[1])))
}

// setTag writes the active case index of a sum value, when the layout has
// a tag slot.
func (s *Store) setTag(m *Metatype, base unsafe.Pointer, tag int) {
	if len(m.offsets) < 2 {
		return
	}
	*(*uint16)(unsafe.Add(base, m.offsets[1])) = uint16(tag)
}

// WithTemporaryAllocation calls action with the base address of a zeroed,
// properly aligned buffer with capacity for count instances of ref, laid
// out at Stride(ref) intervals. The buffer is released when action returns,
// on all paths; any value stored in it must be deinitialized before then.
// A request of zero bytes (a zero-size type with count 1, or a count of 0)
// invokes action with a nil base; for other counts the stride is at least
// 1, so a zero-size type still receives a buffer of count bytes.
func (s *Store) WithTemporaryAllocation(ref types.Ref, count int, action func(unsafe.Pointer) error) error {
	size, err := s.Size(ref)
	if err != nil {
		return err
	}
	alignment, err := s.Alignment(ref)
	if err != nil {
		return err
	}

	n := size
	if count != 1 {
		stride, err := s.Stride(ref)
		if err != nil {
			return err
		}
		n = stride * uintptr(count)
	}
	if n == 0 {
		return action(nil)
	}

	p := s.alloc.Alloc(n, alignment, true)
	if p == nil {
		return errors.AllocationFailed(n, alignment)
	}
	defer s.alloc.Free(p)
	return action(p)
}

// CopyInitialize initializes target to a copy of the instance of ref
// stored at source.
func (s *Store) CopyInitialize(ref types.Ref, target, source unsafe.Pointer) error {
	switch h := ref.(type) {
	case *types.Primitive:
		memcopy(target, source, h.Size())
		return nil
	case *types.Struct:
		return s.copyStruct(h, target, source)
	case *types.Enum:
		return s.copyEnum(h, target, source)
	default:
		return errors.UnknownType(errors.PhaseValue, ref.Description())
	}
}

func (s *Store) copyStruct(h *types.Struct, target, source unsafe.Pointer) error {
	m, err := s.definedMetatype(h, errors.PhaseValue)
	if err != nil {
		return err
	}

	if m.IsTrivial() {
		memcopy(target, source, m.Size())
		return nil
	}

	for i, f := range m.fields {
		t, err := s.addressAt(m, i, f, target)
		if err != nil {
			return err
		}
		src, err := s.addressAt(m, i, f, source)
		if err != nil {
			return err
		}
		if err := s.CopyInitialize(f.Type(), t, src); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) copyEnum(h *types.Enum, target, source unsafe.Pointer) error {
	m, err := s.definedMetatype(h, errors.PhaseValue)
	if err != nil {
		return err
	}

	if m.IsTrivial() {
		memcopy(target, source, m.Size())
		return nil
	}

	tag := s.tag(m, source)
	if tag >= len(m.fields) {
		return errors.IndexOutOfRange(errors.PhaseValue, h.Description(), tag, len(m.fields))
	}
	f := m.fields[tag]

	t, err := s.addressAt(m, 0, f, target)
	if err != nil {
		return err
	}
	src, err := s.addressAt(m, 0, f, source)
	if err != nil {
		return err
	}
	if err := s.CopyInitialize(f.Type(), t, src); err != nil {
		return err
	}

	s.setTag(m, target, tag)
	return nil
}

// CopyInitializeEnumCase initializes target to a fresh instance of the sum
// type ref whose active case is tag and whose payload is a copy of the
// value at source, which must be an instance of the case's type.
func (s *Store) CopyInitializeEnumCase(ref types.Ref, tag int, target, source unsafe.Pointer) error {
	h, ok := ref.(*types.Enum)
	if !ok {
		return errors.New(errors.PhaseValue, errors.KindShapeMismatch).
			Type(ref.Description()).
			Detail("case initialization applied to a %s header", ref.Kind()).
			Build()
	}
	m, err := s.definedMetatype(h, errors.PhaseValue)
	if err != nil {
		return err
	}
	if tag < 0 || tag >= len(m.fields) {
		return errors.IndexOutOfRange(errors.PhaseValue, h.Description(), tag, len(m.fields))
	}
	f := m.fields[tag]

	t, err := s.addressAt(m, 0, f, target)
	if err != nil {
		return err
	}
	if err := s.CopyInitialize(f.Type(), t, source); err != nil {
		return err
	}

	s.setTag(m, target, tag)
	return nil
}

// CopyInitializePrimitive initializes target with the host value, checking
// that the value's size matches the primitive's size.
func CopyInitializePrimitive[T any](s *Store, ref types.Ref, target unsafe.Pointer, value T) error {
	p, ok := ref.(*types.Primitive)
	if !ok {
		return errors.New(errors.PhaseValue, errors.KindShapeMismatch).
			Type(ref.Description()).
			Detail("primitive initialization applied to a %s header", ref.Kind()).
			Build()
	}
	if p.Size() != unsafe.Sizeof(value) {
		return errors.ShapeMismatch(p.Description(), p.Size(), unsafe.Sizeof(value))
	}
	return s.CopyInitialize(ref, target, unsafe.Pointer(&value))
}

// Deinitialize destroys the instance of ref stored at source, releasing
// every out-of-line allocation owned by the value and resetting the
// corresponding pointer slots to nil.
func (s *Store) Deinitialize(ref types.Ref, source unsafe.Pointer) error {
	switch h := ref.(type) {
	case *types.Primitive:
		return nil
	case *types.Struct:
		return s.deinitStruct(h, source)
	case *types.Enum:
		return s.deinitEnum(h, source)
	default:
		return errors.UnknownType(errors.PhaseValue, ref.Description())
	}
}

func (s *Store) deinitStruct(h *types.Struct, source unsafe.Pointer) error {
	m, err := s.definedMetatype(h, errors.PhaseValue)
	if err != nil {
		return err
	}
	if m.IsTrivial() {
		return nil
	}

	for i, f := range m.fields {
		addr, err := s.addressAt(m, i, f, source)
		if err != nil {
			return err
		}
		if err := s.DeinitializeField(f, addr); err != nil {
			return err
		}
		if f.OutOfLine() {
			*(*unsafe.Pointer)(unsafe.Add(source, m.offsets[i])) = nil
		}
	}
	return nil
}

func (s *Store) deinitEnum(h *types.Enum, source unsafe.Pointer) error {
	m, err := s.definedMetatype(h, errors.PhaseValue)
	if err != nil {
		return err
	}
	if m.IsTrivial() {
		return nil
	}

	tag := s.tag(m, source)
	if tag >= len(m.fields) {
		return errors.IndexOutOfRange(errors.PhaseValue, h.Description(), tag, len(m.fields))
	}
	f := m.fields[tag]

	addr, err := s.addressAt(m, 0, f, source)
	if err != nil {
		return err
	}
	if err := s.DeinitializeField(f, addr); err != nil {
		return err
	}
	if f.OutOfLine() {
		*(*unsafe.Pointer)(unsafe.Add(source, m.offsets[0])) = nil
	}
	return nil
}

// DeinitializeField destroys the value of f stored at source and, for an
// out-of-line field, releases the backing allocation afterwards.
func (s *Store) DeinitializeField(f Field, source unsafe.Pointer) error {
	if err := s.Deinitialize(f.Type(), source); err != nil {
		return err
	}
	if f.OutOfLine() {
		s.alloc.Free(source)
	}
	return nil
}

// DumpInstance writes a textual form of the instance of ref stored at
// source to w. Errors from the sink propagate unchanged.
func (s *Store) DumpInstance(w xst.Sink, ref types.Ref, source unsafe.Pointer) error {
	switch h := ref.(type) {
	case *types.Primitive:
		return s.dumpPrimitive(w, h, source)
	case *types.Struct:
		return s.dumpStruct(w, h, source)
	case *types.Enum:
		return s.dumpEnum(w, h, source)
	default:
		return errors.UnknownType(errors.PhaseDump, ref.Description())
	}
}

func (s *Store) dumpPrimitive(w xst.Sink, h *types.Primitive, source unsafe.Pointer) error {
	var out string
	switch h.Tag() {
	case types.Bool:
		if *(*byte)(source) != 0 {
			out = "true"
		} else {
			out = "false"
		}
	case types.Int32:
		out = strconv.FormatInt(int64(*(*int32)(source)), 10)
	case types.Int64:
		out = strconv.FormatInt(*(*int64)(source), 10)
	case types.Str:
		out = mem.GoString(*(*unsafe.Pointer)(source))
	}
	_, err := io.WriteString(w, out)
	return err
}

func (s *Store) dumpStruct(w xst.Sink, h *types.Struct, source unsafe.Pointer) error {
	m, err := s.definedMetatype(h, errors.PhaseDump)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, h.Description()); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "("); err != nil {
		return err
	}
	for i, f := range m.fields {
		if i > 0 {
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}
		addr, err := s.addressAt(m, i, f, source)
		if err != nil {
			return err
		}
		if err := s.DumpInstance(w, f.Type(), addr); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, ")")
	return err
}

func (s *Store) dumpEnum(w xst.Sink, h *types.Enum, source unsafe.Pointer) error {
	m, err := s.definedMetatype(h, errors.PhaseDump)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, h.Description()); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "("); err != nil {
		return err
	}
	if len(m.fields) > 0 {
		tag := s.tag(m, source)
		if tag >= len(m.fields) {
			return errors.IndexOutOfRange(errors.PhaseDump, h.Description(), tag, len(m.fields))
		}
		f := m.fields[tag]
		addr, err := s.addressAt(m, 0, f, source)
		if err != nil {
			return err
		}
		if err := s.DumpInstance(w, f.Type(), addr); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, ")")
	return err
}

// DescribeInstance returns the textual form of the instance of ref stored
// at source.
func (s *Store) DescribeInstance(ref types.Ref, source unsafe.Pointer) (string, error) {
	var b strings.Builder
	if err := s.DumpInstance(&b, ref, source); err != nil {
		return "", err
	}
	return b.String(), nil
}
