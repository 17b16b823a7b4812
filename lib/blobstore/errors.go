package blobstore

import "errors"

var (
	// ErrAlreadyEmbedded is returned when Embed is called on a store that
	// already placed its programs
	ErrAlreadyEmbedded = errors.New("programs already embedded")

	// ErrBadAlignment is returned when the configured alignment is not a
	// power of two
	ErrBadAlignment = errors.New("alignment must be a power of two")

	// ErrRangeOutOfBounds is returned when a range does not lie inside the
	// assembled segment
	ErrRangeOutOfBounds = errors.New("range outside embedded segment")
)
