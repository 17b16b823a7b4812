package image

import "errors"

var (
	// ErrNotFound is returned when a packed image is not found
	ErrNotFound = errors.New("image not found")

	// ErrAlreadyExists is returned when a packed image already exists
	ErrAlreadyExists = errors.New("image already exists")

	// ErrInvalidName is returned when an image name is invalid
	ErrInvalidName = errors.New("invalid image name")

	// ErrTruncated is returned when a packed image ends before the span its
	// directory declares
	ErrTruncated = errors.New("packed image truncated")
)
