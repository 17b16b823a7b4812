package manifest

import "errors"

var (
	// ErrInvalidManifest is returned when the manifest fails validation
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrUnreadableProgram is returned when a program's bytes cannot be
	// read from its manifest path; this is a build-time failure and must
	// never surface at boot
	ErrUnreadableProgram = errors.New("program bytes unreadable")
)
