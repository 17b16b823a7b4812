package directory

import "errors"

var (
	// ErrInvalidLayout is returned when the boundary table does not match
	// the program count or is not ordered
	ErrInvalidLayout = errors.New("invalid directory layout")

	// ErrAlreadyBuilt is returned when Build is called on a directory that
	// was already built
	ErrAlreadyBuilt = errors.New("directory already built")

	// ErrIndexOutOfRange is returned when a program index is outside the
	// directory
	ErrIndexOutOfRange = errors.New("program index out of range")
)
