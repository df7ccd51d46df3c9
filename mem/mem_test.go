package mem

import (
	"testing"
	"unsafe"
)

func TestAllocAlignment(t *testing.T) {
	tests := []struct {
		name  string
		size  uintptr
		align uintptr
	}{
		{"byte", 1, 1},
		{"u16", 2, 2},
		{"u32", 4, 4},
		{"u64", 8, 8},
		{"wide", 64, 16},
		{"wider", 3, 32},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Alloc(tc.size, tc.align, false)
			if p == nil {
				t.Fatal("nil payload")
			}
			defer Free(p)
			if uintptr(p)%tc.align != 0 {
				t.Errorf("payload %#x not aligned to %d", uintptr(p), tc.align)
			}
		})
	}
}

func TestAllocZeroSize(t *testing.T) {
	if p := Alloc(0, 8, true); p != nil {
		t.Errorf("expected nil for zero size, got %#x", uintptr(p))
	}
}

func TestAllocZeroFill(t *testing.T) {
	p := Alloc(32, 8, true)
	defer Free(p)

	b := unsafe.Slice((*byte)(p), 32)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not zeroed: %#x", i, v)
		}
	}
}

func TestAllocWritable(t *testing.T) {
	p := Alloc(8, 8, true)
	defer Free(p)

	*(*uint64)(p) = 0xdeadbeefcafebabe
	if got := *(*uint64)(p); got != 0xdeadbeefcafebabe {
		t.Errorf("readback: %#x", got)
	}
}

func TestFreeNil(t *testing.T) {
	Free(nil) // must not panic
}

func TestFreeUnpins(t *testing.T) {
	p := Alloc(16, 8, false)
	base := uintptr(p) - *(*uintptr)(unsafe.Pointer(uintptr(p) - wordSize))

	liveMu.Lock()
	_, ok := live[base]
	liveMu.Unlock()
	if !ok {
		t.Fatal("allocation not pinned")
	}

	Free(p)

	liveMu.Lock()
	_, ok = live[base]
	liveMu.Unlock()
	if ok {
		t.Error("allocation still pinned after Free")
	}
}

func TestCStringRoundTrip(t *testing.T) {
	tests := []string{"", "x", "hello, world", "Süß"}

	for _, s := range tests {
		p := CString(s)
		if got := GoString(p); got != s {
			t.Errorf("round trip of %q: got %q", s, got)
		}
		Free(p)
	}
}

func TestGoStringNil(t *testing.T) {
	if got := GoString(nil); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestHeapImplementsAllocator(t *testing.T) {
	h := Heap{}
	p := h.Alloc(8, 8, true)
	if p == nil {
		t.Fatal("nil payload")
	}
	if uintptr(p)%8 != 0 {
		t.Errorf("payload %#x not aligned", uintptr(p))
	}
	h.Free(p)
}
