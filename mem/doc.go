// Package mem implements the aligned heap allocator backing out-of-line
// value storage.
//
// Alloc returns payload pointers aligned to the requested power of two. The
// word immediately before each payload records the offset from the
// allocation base, so Free needs only the payload pointer:
//
//	base                payload
//	│  ┌────────┬──────┬─────────────────┐
//	└─▶│  slack │ off  │  payload bytes  │
//	   └────────┴──────┴─────────────────┘
//	              ▲ one word before payload
//
// Because payload pointers are stored as raw words inside value memory —
// which the Go collector does not scan — the package pins every outstanding
// allocation in an internal table until it is freed. Alloc and Free are
// safe for concurrent use; nothing else in the type core is.
//
// CString and GoString convert between Go strings and the NUL-terminated
// byte sequences that values of the str primitive point at.
package mem
