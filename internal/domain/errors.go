package domain

import "errors"

var (
	// ErrInvalidArgument marks malformed, non-finite or non-positive input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDuplicateCoordinate marks an insertion onto an occupied coordinate.
	ErrDuplicateCoordinate = errors.New("duplicate coordinate")
	// ErrNotFound marks a reference to a point that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoPath marks a destination that cannot be reached from the start.
	ErrNoPath = errors.New("no path")
	// ErrInvariant marks a broken mesh, e.g. a route whose endpoint is gone.
	// It is a programming error; callers must not retry.
	ErrInvariant = errors.New("network invariant violated")
)
