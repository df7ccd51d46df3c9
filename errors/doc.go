// Package errors provides the structured failure type used throughout the
// type core.
//
// Every invariant violation — an unknown handle, a layout query on an
// undefined type, a double definition, a primitive boundary size mismatch,
// an out-of-range field index or enum tag, an allocation failure — surfaces
// as a single *Error value carrying the phase in which it occurred, a
// machine-readable kind, and, when the failing operation knows it, the
// description of the offending type. Allocation failures carry no type.
//
// Errors render as:
//
//	[define] redefinition: Pair<Int64, Int32> - type is already defined
//	[layout] undefined_type: List<Int64> - type is not defined
//
// Use errors.Is with a prototype to match on phase and kind:
//
//	if errors.Is(err, &xsterrors.Error{Phase: xsterrors.PhaseDefine, Kind: xsterrors.KindRedefinition}) {
//	    ...
//	}
package errors
