package loader

import "errors"

var (
	// ErrUnknownProgram is returned when a program index was never
	// embedded; callers should refuse the load request rather than abort
	ErrUnknownProgram = errors.New("unknown program requested")

	// ErrImageMismatch is returned when the blob data does not cover the
	// span the directory declares
	ErrImageMismatch = errors.New("image data does not match directory")

	// ErrProgramTooLarge is returned when a program does not fit its
	// execution slot
	ErrProgramTooLarge = errors.New("program exceeds slot size")

	// ErrInvalidSlotSize is returned when a slot size is not positive
	ErrInvalidSlotSize = errors.New("invalid slot size")
)
