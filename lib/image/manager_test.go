package image

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/stretchr/testify/require"

	"github.com/minikern/imagepack/lib/manifest"
	"github.com/minikern/imagepack/lib/paths"
)

// writeFixture writes a manifest plus program binaries and returns the
// manifest path.
func writeFixture(t *testing.T, sizes []int) string {
	t.Helper()
	dir := t.TempDir()

	var man manifest.Manifest
	for i, n := range sizes {
		name := fmt.Sprintf("app_%d", i)
		path := name + ".bin"
		data := bytes.Repeat([]byte{byte(i + 1)}, n)
		require.NoError(t, os.WriteFile(filepath.Join(dir, path), data, 0644))
		man.Programs = append(man.Programs, manifest.Entry{Name: name, Path: path})
	}

	data, err := yaml.Marshal(&man)
	require.NoError(t, err)
	manifestPath := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(manifestPath, data, 0644))
	return manifestPath
}

func newTestManager(t *testing.T) (Manager, *paths.Paths) {
	t.Helper()
	p := paths.New(t.TempDir())
	mgr, err := NewManager(p, nil, nil)
	require.NoError(t, err)
	return mgr, p
}

func TestPackImage(t *testing.T) {
	mgr, p := newTestManager(t)
	ctx := context.Background()

	base := uint64(0x80400000)
	img, err := mgr.PackImage(ctx, PackRequest{
		Name:         "kernel-apps",
		ManifestPath: writeFixture(t, []int{10, 0, 4}),
		Base:         base,
	})
	require.NoError(t, err)
	require.NotEmpty(t, img.ID)
	require.Equal(t, 3, img.ProgramCount)
	require.Equal(t, int64(14), img.TotalBytes)

	// No inter-program padding: boundaries are byte-exact
	require.Equal(t, base, img.Programs[0].Start)
	require.Equal(t, base+10, img.Programs[0].End)
	require.Equal(t, base+10, img.Programs[1].Start)
	require.Equal(t, base+10, img.Programs[1].End)
	require.Equal(t, base+10, img.Programs[2].Start)
	require.Equal(t, base+14, img.Programs[2].End)

	// Image and sidecar exist on disk
	_, err = os.Stat(p.Image("kernel-apps"))
	require.NoError(t, err)
	_, err = os.Stat(p.ImageMetadata("kernel-apps"))
	require.NoError(t, err)
}

func TestPackImageUnalignedBase(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	_, err := mgr.PackImage(ctx, PackRequest{
		Name:         "apps",
		ManifestPath: writeFixture(t, []int{4}),
		Base:         1,
		Alignment:    8,
	})
	require.NoError(t, err)

	packed, err := mgr.OpenImage(ctx, "apps")
	require.NoError(t, err)
	require.Equal(t, uint64(1), packed.Base())

	// Slicing program 0 by its directory range yields the program's own
	// bytes, not leading padding
	r, err := packed.Directory.RangeOf(0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), r.Start)
	require.Equal(t, bytes.Repeat([]byte{1}, 4),
		packed.Data[r.Start-packed.Base():r.End-packed.Base()])
}

func TestPackImageDuplicate(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	manifestPath := writeFixture(t, []int{1})

	_, err := mgr.PackImage(ctx, PackRequest{Name: "apps", ManifestPath: manifestPath})
	require.NoError(t, err)

	_, err = mgr.PackImage(ctx, PackRequest{Name: "apps", ManifestPath: manifestPath})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestPackImageInvalidName(t *testing.T) {
	mgr, _ := newTestManager(t)

	_, err := mgr.PackImage(context.Background(), PackRequest{
		Name:         "../escape",
		ManifestPath: writeFixture(t, nil),
	})
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestPackImageUnreadableProgram(t *testing.T) {
	mgr, p := newTestManager(t)

	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(manifestPath,
		[]byte("programs:\n  - name: ghost\n    path: ghost.bin\n"), 0644))

	_, err := mgr.PackImage(context.Background(), PackRequest{
		Name:         "apps",
		ManifestPath: manifestPath,
	})
	require.ErrorIs(t, err, manifest.ErrUnreadableProgram)

	// A failed pack leaves no image behind
	_, err = os.Stat(p.Image("apps"))
	require.True(t, os.IsNotExist(err))
}

func TestPackAndOpenThirteenPrograms(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	sizes := []int{32, 64, 16, 8, 128, 4, 4, 256, 1, 512, 40, 24, 96}
	require.Len(t, sizes, 13)

	var total uint64
	for _, n := range sizes {
		total += uint64(n)
	}

	img, err := mgr.PackImage(ctx, PackRequest{
		Name:         "batch",
		ManifestPath: writeFixture(t, sizes),
	})
	require.NoError(t, err)
	require.Equal(t, 13, img.ProgramCount)

	packed, err := mgr.OpenImage(ctx, "batch")
	require.NoError(t, err)

	dir := packed.Directory
	require.Equal(t, 13, dir.Count())

	var prev uint64
	var last uint64
	for r := range dir.All() {
		require.GreaterOrEqual(t, r.Start, prev)
		require.Less(t, r.Start, r.End) // all sizes are non-zero here
		prev = r.End
		last = r.End
	}
	require.Equal(t, total, last-packed.Base())
	require.Equal(t, total, uint64(len(packed.Data)))
}

func TestGetAndListImages(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	_, err := mgr.GetImage(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	imgs, err := mgr.ListImages(ctx)
	require.NoError(t, err)
	require.Empty(t, imgs)

	_, err = mgr.PackImage(ctx, PackRequest{Name: "one", ManifestPath: writeFixture(t, []int{5})})
	require.NoError(t, err)
	_, err = mgr.PackImage(ctx, PackRequest{Name: "two", ManifestPath: writeFixture(t, []int{7})})
	require.NoError(t, err)

	got, err := mgr.GetImage(ctx, "one")
	require.NoError(t, err)
	require.Equal(t, "one", got.Name)
	require.Equal(t, int64(5), got.TotalBytes)

	imgs, err = mgr.ListImages(ctx)
	require.NoError(t, err)
	require.Len(t, imgs, 2)
}

func TestOpenImageMissing(t *testing.T) {
	mgr, _ := newTestManager(t)

	_, err := mgr.OpenImage(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
