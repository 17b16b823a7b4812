package image

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/minikern/imagepack/lib/paths"
)

// imageMetadata is the metadata sidecar stored next to each packed image
type imageMetadata struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	ProgramCount int               `json:"program_count"`
	Programs     []programMetadata `json:"programs,omitempty"`
	TotalBytes   int64             `json:"total_bytes"`
	CreatedAt    time.Time         `json:"created_at"`
}

type programMetadata struct {
	Name      string `json:"name"`
	Start     uint64 `json:"start"`
	End       uint64 `json:"end"`
	SizeBytes int64  `json:"size_bytes"`
}

func (m *imageMetadata) toImage() *Image {
	img := &Image{
		ID:           m.ID,
		Name:         m.Name,
		ProgramCount: m.ProgramCount,
		TotalBytes:   m.TotalBytes,
		CreatedAt:    m.CreatedAt,
	}
	for _, p := range m.Programs {
		img.Programs = append(img.Programs, ProgramInfo(p))
	}
	return img
}

// writeMetadata writes the sidecar atomically: temp file then rename.
func writeMetadata(p *paths.Paths, name string, meta *imageMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	metaPath := p.ImageMetadata(name)
	tmp := metaPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := os.Rename(tmp, metaPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename metadata: %w", err)
	}
	return nil
}

func readMetadata(p *paths.Paths, name string) (*imageMetadata, error) {
	data, err := os.ReadFile(p.ImageMetadata(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var meta imageMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &meta, nil
}

func listMetadata(p *paths.Paths) ([]*imageMetadata, error) {
	entries, err := os.ReadDir(p.ImagesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read images dir: %w", err)
	}

	var metas []*imageMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := readMetadata(p, e.Name())
		if err != nil {
			// Skip half-written or foreign directories
			continue
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

// imageExists reports whether an image directory with metadata is present.
func imageExists(p *paths.Paths, name string) bool {
	_, err := os.Stat(p.ImageMetadata(name))
	return err == nil
}

func ensureImageDir(p *paths.Paths, name string) error {
	return os.MkdirAll(filepath.Dir(p.Image(name)), 0755)
}
