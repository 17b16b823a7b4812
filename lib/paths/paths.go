// Package paths centralizes the on-disk layout of the imagepack data
// directory so that no other package hard-codes file locations.
package paths

import "path/filepath"

// Paths resolves locations under the data directory.
type Paths struct {
	dataDir string
}

// New creates a Paths rooted at dataDir.
func New(dataDir string) *Paths {
	return &Paths{dataDir: dataDir}
}

// DataDir returns the root data directory.
func (p *Paths) DataDir() string {
	return p.dataDir
}

// ImagesDir returns the directory holding all packed images.
func (p *Paths) ImagesDir() string {
	return filepath.Join(p.dataDir, "images")
}

// ImageDir returns the directory for a single packed image.
func (p *Paths) ImageDir(name string) string {
	return filepath.Join(p.ImagesDir(), name)
}

// Image returns the path to a packed image binary.
func (p *Paths) Image(name string) string {
	return filepath.Join(p.ImageDir(name), "image.bin")
}

// ImageMetadata returns the path to a packed image's metadata sidecar.
func (p *Paths) ImageMetadata(name string) string {
	return filepath.Join(p.ImageDir(name), "metadata.json")
}
