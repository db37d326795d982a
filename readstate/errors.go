package readstate

import "errors"

// Sentinel errors the read-state core originates.
var (
	// ErrUnsupportedCoordType is returned when a schema's coord type is
	// outside {i32, i64, f32, f64}. No state is mutated.
	ErrUnsupportedCoordType = errors.New("readstate: unsupported coordinate type")
	// ErrNoFragments is returned when an array has zero fragments.
	ErrNoFragments = errors.New("readstate: array has no fragments")
	// ErrFragmentFailed wraps a non-OK return from a fragment
	// collaborator call; this is fatal and the read-state is only safe
	// to discard afterward.
	ErrFragmentFailed = errors.New("readstate: fragment collaborator call failed")
	// ErrBufferCountMismatch is returned when the caller's buffer slice
	// does not have one slot per requested attribute. Variable-size
	// attributes, which would need a second (offsets) slot, are rejected
	// outright by ErrVarSizeUnsupported instead, so buffer counting never
	// has to account for them.
	ErrBufferCountMismatch = errors.New("readstate: buffer count does not match requested attribute count")
	// ErrVarSizeUnsupported is returned when a requested attribute is
	// variable-length; this module implements fixed-size attributes
	// only, and rejects construction rather than guessing a byte layout
	// for the rest.
	ErrVarSizeUnsupported = errors.New("readstate: variable-size attributes are not implemented")
)
