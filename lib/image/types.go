package image

import "time"

// Image describes one packed image on disk.
type Image struct {
	ID           string           // Build id assigned at pack time
	Name         string           // Image name (directory name under images/)
	ProgramCount int              // Number of embedded programs
	Programs     []ProgramInfo    // Per-program placement, index order
	TotalBytes   int64            // Size of the blob segment, padding included
	CreatedAt    time.Time
}

// ProgramInfo records where one program landed inside the image.
type ProgramInfo struct {
	Name      string
	Start     uint64
	End       uint64
	SizeBytes int64
}

// PackRequest describes a pack operation.
type PackRequest struct {
	// Name identifies the output image under the data directory.
	Name string

	// ManifestPath locates the build manifest; entry paths resolve
	// relative to its directory.
	ManifestPath string

	// Base is the address the blob segment is assumed to occupy at run
	// time. Zero is valid.
	Base uint64

	// Alignment is the per-program start alignment. Zero means byte-exact
	// contiguity.
	Alignment uint64
}
