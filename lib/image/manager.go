// Package image implements the packed kernel image: the on-disk layout that
// carries the program count, the boundary table, and every embedded program's
// bytes, plus the pack pipeline that produces it from a build manifest.
package image

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/nrednav/cuid2"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/metric"

	"github.com/minikern/imagepack/lib/blobstore"
	"github.com/minikern/imagepack/lib/directory"
	"github.com/minikern/imagepack/lib/manifest"
	"github.com/minikern/imagepack/lib/paths"
)

// Manager handles packed image lifecycle operations
type Manager interface {
	// PackImage embeds every program named by the request's manifest and
	// writes the packed image plus its metadata sidecar
	PackImage(ctx context.Context, req PackRequest) (*Image, error)

	// GetImage returns a packed image's metadata by name
	GetImage(ctx context.Context, name string) (*Image, error)

	// ListImages returns metadata for all packed images
	ListImages(ctx context.Context) ([]*Image, error)

	// OpenImage decodes a packed image for run-time consumption
	OpenImage(ctx context.Context, name string) (*PackedImage, error)
}

type manager struct {
	paths   *paths.Paths
	logger  *slog.Logger
	metrics *Metrics
}

var imageNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// NewManager creates a new image manager. meter may be nil to disable
// metrics.
func NewManager(p *paths.Paths, logger *slog.Logger, meter metric.Meter) (Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	m := &manager{
		paths:  p,
		logger: logger,
	}

	if meter != nil {
		metrics, err := NewMetrics(meter)
		if err != nil {
			return nil, fmt.Errorf("create metrics: %w", err)
		}
		m.metrics = metrics
	}

	return m, nil
}

func (m *manager) PackImage(ctx context.Context, req PackRequest) (*Image, error) {
	start := time.Now()
	img, err := m.packImage(ctx, req)
	if m.metrics != nil {
		status := "success"
		programs := 0
		var bytes int64
		if err != nil {
			status = "error"
		} else {
			programs = img.ProgramCount
			bytes = img.TotalBytes
		}
		m.metrics.RecordPack(ctx, status, programs, bytes, time.Since(start))
	}
	return img, err
}

func (m *manager) packImage(ctx context.Context, req PackRequest) (*Image, error) {
	if !imageNamePattern.MatchString(req.Name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, req.Name)
	}
	if imageExists(m.paths, req.Name) {
		return nil, ErrAlreadyExists
	}

	m.logger.Info("packing image", "name", req.Name, "manifest", req.ManifestPath)

	// 1. Load and resolve the build manifest; order defines program index
	man, err := manifest.Load(req.ManifestPath)
	if err != nil {
		return nil, err
	}
	programs, err := man.Resolve(ctx, manifestDir(req.ManifestPath))
	if err != nil {
		return nil, err
	}

	// 2. Place program bytes into the blob segment
	store, err := blobstore.New(blobstore.Config{Base: req.Base, Alignment: req.Alignment})
	if err != nil {
		return nil, err
	}
	ranges, err := store.Embed(ctx, lo.Map(programs, func(p manifest.Program, _ int) []byte {
		return p.Bytes
	}))
	if err != nil {
		return nil, fmt.Errorf("embed programs: %w", err)
	}

	// 3. Derive the boundary table from the placements. With alignment
	// padding, a program's directory range extends to the next aligned
	// start, so its tail reads as zero filler.
	boundaries := make([]uint64, len(ranges)+1)
	boundaries[0] = req.Base
	for i, r := range ranges {
		boundaries[i] = r.Start
		boundaries[i+1] = r.End
	}

	dir := &directory.Directory{}
	if err := dir.Build(len(programs), boundaries); err != nil {
		return nil, err
	}

	// 4. Write the packed image
	if err := ensureImageDir(m.paths, req.Name); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	imagePath := m.paths.Image(req.Name)
	f, err := os.Create(imagePath)
	if err != nil {
		return nil, fmt.Errorf("create image file: %w", err)
	}
	if err := Encode(f, boundaries, store.Bytes()); err != nil {
		f.Close()
		os.Remove(imagePath)
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(imagePath)
		return nil, fmt.Errorf("close image file: %w", err)
	}

	// 5. Write the metadata sidecar
	meta := &imageMetadata{
		ID:           cuid2.Generate(),
		Name:         req.Name,
		ProgramCount: len(programs),
		Programs: lo.Map(programs, func(p manifest.Program, i int) programMetadata {
			return programMetadata{
				Name:      p.Name,
				Start:     ranges[i].Start,
				End:       ranges[i].End,
				SizeBytes: int64(len(p.Bytes)),
			}
		}),
		TotalBytes: int64(len(store.Bytes())),
		CreatedAt:  time.Now().UTC(),
	}
	if err := writeMetadata(m.paths, req.Name, meta); err != nil {
		os.Remove(imagePath)
		return nil, err
	}

	m.logger.Info("image packed",
		"name", req.Name, "id", meta.ID,
		"programs", meta.ProgramCount, "bytes", meta.TotalBytes)
	return meta.toImage(), nil
}

// manifestDir returns the directory program paths resolve against.
func manifestDir(manifestPath string) string {
	return filepath.Dir(manifestPath)
}

func (m *manager) GetImage(ctx context.Context, name string) (*Image, error) {
	meta, err := readMetadata(m.paths, name)
	if err != nil {
		return nil, err
	}
	return meta.toImage(), nil
}

func (m *manager) ListImages(ctx context.Context) ([]*Image, error) {
	metas, err := listMetadata(m.paths)
	if err != nil {
		return nil, err
	}
	return lo.Map(metas, func(meta *imageMetadata, _ int) *Image {
		return meta.toImage()
	}), nil
}

func (m *manager) OpenImage(ctx context.Context, name string) (*PackedImage, error) {
	f, err := os.Open(m.paths.Image(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	return Decode(f)
}
