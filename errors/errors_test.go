package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "kind_only",
			err:  &Error{Phase: PhaseAlloc, Kind: KindAllocation},
			want: "[alloc] allocation",
		},
		{
			name: "with_type",
			err:  &Error{Phase: PhaseLayout, Kind: KindUndefinedType, Type: "List<Int64>"},
			want: "[layout] undefined_type: List<Int64>",
		},
		{
			name: "with_type_and_detail",
			err:  Redefinition("Pair<Int64, Int32>"),
			want: "[define] redefinition: Pair<Int64, Int32> - type is already defined",
		},
		{
			name: "detail_without_type",
			err:  AllocationFailed(64, 16),
			want: "[alloc] allocation: failed to allocate 64 bytes (align 16)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestErrorCause(t *testing.T) {
	cause := fmt.Errorf("sink closed")
	err := New(PhaseDump, KindUndefinedType).Type("Maybe<Int32>").Cause(cause).Build()

	if !strings.Contains(err.Error(), "caused by: sink closed") {
		t.Errorf("cause missing from %q", err.Error())
	}
	if stderrors.Unwrap(err) != cause {
		t.Error("Unwrap did not return cause")
	}
}

func TestErrorIs(t *testing.T) {
	err := Redefinition("Pair")

	if !stderrors.Is(err, &Error{Phase: PhaseDefine, Kind: KindRedefinition}) {
		t.Error("expected match on phase and kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseDefine, Kind: KindUnknownType}) {
		t.Error("unexpected match on different kind")
	}
	if stderrors.Is(err, fmt.Errorf("redefinition")) {
		t.Error("unexpected match on plain error")
	}
}

func TestBuilderDetailFormatting(t *testing.T) {
	err := New(PhaseValue, KindIndexRange).Detail("tag %d out of range", 5).Build()
	if err.Detail != "tag 5 out of range" {
		t.Errorf("got %q", err.Detail)
	}

	plain := New(PhaseValue, KindIndexRange).Detail("no args").Build()
	if plain.Detail != "no args" {
		t.Errorf("got %q", plain.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if e := UnknownType(PhaseLayout, "T"); e.Kind != KindUnknownType || e.Phase != PhaseLayout {
		t.Errorf("UnknownType: %+v", e)
	}
	if e := UndefinedType(PhaseValue, "T"); e.Kind != KindUndefinedType {
		t.Errorf("UndefinedType: %+v", e)
	}
	if e := ShapeMismatch("Int64", 8, 4); !strings.Contains(e.Detail, "4") || !strings.Contains(e.Detail, "8") {
		t.Errorf("ShapeMismatch detail: %q", e.Detail)
	}
	if e := IndexOutOfRange(PhaseValue, "Maybe<Int32>", 3, 2); !strings.Contains(e.Detail, "index 3") {
		t.Errorf("IndexOutOfRange detail: %q", e.Detail)
	}
}
