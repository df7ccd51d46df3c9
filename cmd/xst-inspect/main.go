// Command xst-inspect builds a small corpus of demo types in a type store
// and prints their computed layouts and sample value dumps. With -i it
// starts an interactive browser over the interned types.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"unsafe"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/kyouko-taiga/xst/store"
	"github.com/kyouko-taiga/xst/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	dumpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func main() {
	var (
		demo        = flag.String("demo", "all", "Demo corpus to build (pair, maybe, list, all)")
		plain       = flag.Bool("plain", false, "Disable styled output")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	s := store.New()
	entries, err := buildDemo(s, *demo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(s, entries); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	styled := !*plain && term.IsTerminal(int(os.Stdout.Fd()))
	for _, e := range entries {
		fmt.Print(e.render(styled))
	}
}

// entry is a fully described type: its layout and, when a sample value was
// built, its textual dump.
type entry struct {
	desc    string
	kind    types.Kind
	size    uintptr
	align   uintptr
	trivial bool
	rows    []fieldRow
	sample  string
}

type fieldRow struct {
	index     int
	desc      string
	outOfLine bool
	offset    uintptr
}

func (e entry) render(styled bool) string {
	style := func(st lipgloss.Style, s string) string {
		if styled {
			return st.Render(s)
		}
		return s
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", style(titleStyle, e.desc))
	fmt.Fprintf(&b, "  %s %s\n", style(labelStyle, "kind:     "), style(valueStyle, e.kind.String()))
	fmt.Fprintf(&b, "  %s %s\n", style(labelStyle, "size:     "), style(valueStyle, fmt.Sprintf("%d", e.size)))
	fmt.Fprintf(&b, "  %s %s\n", style(labelStyle, "alignment:"), style(valueStyle, fmt.Sprintf("%d", e.align)))
	fmt.Fprintf(&b, "  %s %s\n", style(labelStyle, "trivial:  "), style(valueStyle, fmt.Sprintf("%v", e.trivial)))

	for _, r := range e.rows {
		storage := "inline"
		if r.outOfLine {
			storage = "out-of-line"
		}
		fmt.Fprintf(&b, "  %s #%d %s (%s) at offset %s\n",
			style(labelStyle, "field"), r.index,
			style(valueStyle, r.desc), storage,
			style(valueStyle, fmt.Sprintf("%d", r.offset)))
	}
	if e.sample != "" {
		fmt.Fprintf(&b, "  %s %s\n", style(labelStyle, "sample:   "), style(dumpStyle, e.sample))
	}
	b.WriteByte('\n')
	return b.String()
}

// describe collects an entry for a defined type. Slot offsets are shown for
// structs; for sums the per-case rows share the payload offset and the tag
// slot is implicit.
func describe(s *store.Store, ref types.Ref, sample string) (entry, error) {
	m, err := s.Metatype(ref)
	if err != nil {
		return entry{}, err
	}

	e := entry{
		desc:    ref.Description(),
		kind:    ref.Kind(),
		size:    m.Size(),
		align:   m.Alignment(),
		trivial: m.IsTrivial(),
		sample:  sample,
	}
	offsets := m.Offsets()
	for i, f := range m.Fields() {
		slot := i
		if ref.Kind() == types.KindEnum {
			slot = 0 // every case lives in the payload slot
		}
		off := uintptr(0)
		if slot < len(offsets) {
			off = offsets[slot]
		}
		e.rows = append(e.rows, fieldRow{
			index:     i,
			desc:      f.Type().Description(),
			outOfLine: f.OutOfLine(),
			offset:    off,
		})
	}
	return e, nil
}

func buildDemo(s *store.Store, which string) ([]entry, error) {
	var entries []entry
	add := func(ref types.Ref, sample string) error {
		e, err := describe(s, ref, sample)
		if err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	}

	wantPair := which == "pair" || which == "all"
	wantMaybe := which == "maybe" || which == "all"
	wantList := which == "list" || which == "all"
	if !wantPair && !wantMaybe && !wantList {
		return nil, fmt.Errorf("unknown demo %q (want pair, maybe, list, or all)", which)
	}

	if wantPair {
		if err := buildPair(s, add); err != nil {
			return nil, err
		}
	}
	if wantMaybe {
		if err := buildMaybe(s, add); err != nil {
			return nil, err
		}
	}
	if wantList {
		if err := buildListDemo(s, add); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func buildPair(s *store.Store, add func(types.Ref, string) error) error {
	i64 := s.DeclarePrimitive(types.Int64)
	i32 := s.DeclarePrimitive(types.Int32)

	pair := s.Declare(types.NewStruct("Pair", i64, i32))
	m, err := s.DefineStruct(pair, []store.Field{
		store.NewField(i64, false),
		store.NewField(i32, false),
	})
	if err != nil {
		return err
	}

	var sample string
	err = s.WithTemporaryAllocation(pair, 1, func(p unsafe.Pointer) error {
		a, err := s.AddressOf(m, 0, p)
		if err != nil {
			return err
		}
		if err := store.CopyInitializePrimitive(s, i64, a, int64(42)); err != nil {
			return err
		}
		b, err := s.AddressOf(m, 1, p)
		if err != nil {
			return err
		}
		if err := store.CopyInitializePrimitive(s, i32, b, int32(7)); err != nil {
			return err
		}
		sample, err = s.DescribeInstance(pair, p)
		if err != nil {
			return err
		}
		return s.Deinitialize(pair, p)
	})
	if err != nil {
		return err
	}
	return add(pair, sample)
}

func buildMaybe(s *store.Store, add func(types.Ref, string) error) error {
	i32 := s.DeclarePrimitive(types.Int32)

	nothing := s.Declare(types.NewStruct("Nothing", i32))
	just := s.Declare(types.NewStruct("Just", i32))
	maybe := s.Declare(types.NewEnum("Maybe", i32))

	if _, err := s.DefineStruct(nothing, nil); err != nil {
		return err
	}
	if _, err := s.DefineStruct(just, []store.Field{store.NewField(i32, false)}); err != nil {
		return err
	}
	if _, err := s.DefineEnum(maybe, []store.Field{
		store.NewField(nothing, false),
		store.NewField(just, false),
	}); err != nil {
		return err
	}

	var sample string
	err := s.WithTemporaryAllocation(maybe, 1, func(q unsafe.Pointer) error {
		payload := int32(42)
		if err := s.CopyInitializeEnumCase(maybe, 1, q, unsafe.Pointer(&payload)); err != nil {
			return err
		}
		var err error
		sample, err = s.DescribeInstance(maybe, q)
		if err != nil {
			return err
		}
		return s.Deinitialize(maybe, q)
	})
	if err != nil {
		return err
	}

	if err := add(nothing, ""); err != nil {
		return err
	}
	if err := add(just, ""); err != nil {
		return err
	}
	return add(maybe, sample)
}

func buildListDemo(s *store.Store, add func(types.Ref, string) error) error {
	i64 := s.DeclarePrimitive(types.Int64)

	list := s.Declare(types.NewEnum("List", i64))
	cons := s.Declare(types.NewStruct("List.Cons", i64))
	empty := s.Declare(types.NewStruct("List.Empty", i64))

	mc, err := s.DefineStruct(cons, []store.Field{
		store.NewField(i64, false),
		store.NewField(list, true),
	})
	if err != nil {
		return err
	}
	if _, err := s.DefineStruct(empty, nil); err != nil {
		return err
	}
	if _, err := s.DefineEnum(list, []store.Field{
		store.NewField(cons, false),
		store.NewField(empty, false),
	}); err != nil {
		return err
	}

	var sample string
	err = s.WithTemporaryAllocation(cons, 1, func(p0 unsafe.Pointer) error {
		p1, err := s.AddressOf(mc, 0, p0)
		if err != nil {
			return err
		}
		if err := store.CopyInitializePrimitive(s, i64, p1, int64(42)); err != nil {
			return err
		}
		err = s.WithTemporaryAllocation(empty, 1, func(p2 unsafe.Pointer) error {
			p3, err := s.AddressOf(mc, 1, p0)
			if err != nil {
				return err
			}
			return s.CopyInitializeEnumCase(list, 1, p3, p2)
		})
		if err != nil {
			return err
		}
		sample, err = s.DescribeInstance(cons, p0)
		if err != nil {
			return err
		}
		return s.Deinitialize(cons, p0)
	})
	if err != nil {
		return err
	}

	if err := add(cons, sample); err != nil {
		return err
	}
	if err := add(empty, ""); err != nil {
		return err
	}
	return add(list, "")
}
