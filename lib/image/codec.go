package image

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/minikern/imagepack/lib/directory"
)

// Packed image layout, all cells little-endian uint64 (the table is read as
// native usize cells on a little-endian 64-bit target):
//
//	count
//	boundary[0] .. boundary[count]
//	blob bytes, index order, starting at boundary[0]
//
// Count comes first so a reader can size its directory before reading the
// rest. Boundaries are non-decreasing; blob data follows in the same order
// as the directory entries.

const cell = 8

// maxPrograms bounds the count cell so a corrupt image cannot drive a huge
// boundary-table allocation before the read fails.
const maxPrograms = 1 << 20

// PackedImage is a decoded image: its directory plus the raw blob segment.
type PackedImage struct {
	Directory *directory.Directory

	// Data holds the blob segment. Data[0] corresponds to address Base().
	Data []byte
}

// Base returns the address of the first byte of Data.
func (p *PackedImage) Base() uint64 {
	return p.Directory.Span().Start
}

// Encode writes the packed image layout: count, count+1 boundaries, then the
// blob segment.
func Encode(w io.Writer, boundaries []uint64, segment []byte) error {
	if len(boundaries) == 0 {
		return fmt.Errorf("encode image: need at least one boundary")
	}

	header := make([]byte, cell*(1+len(boundaries)))
	binary.LittleEndian.PutUint64(header, uint64(len(boundaries)-1))
	for i, b := range boundaries {
		binary.LittleEndian.PutUint64(header[cell*(1+i):], b)
	}

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write image header: %w", err)
	}
	if _, err := w.Write(segment); err != nil {
		return fmt.Errorf("write image segment: %w", err)
	}
	return nil
}

// Decode reads a packed image: the count cell first, then the boundary
// table, then exactly the blob span the directory declares. Layout
// violations surface as directory.ErrInvalidLayout; a short blob segment as
// ErrTruncated.
func Decode(r io.Reader) (*PackedImage, error) {
	var countCell [cell]byte
	if _, err := io.ReadFull(r, countCell[:]); err != nil {
		return nil, fmt.Errorf("read image count: %w", err)
	}
	count := binary.LittleEndian.Uint64(countCell[:])
	if count > maxPrograms {
		return nil, fmt.Errorf("%w: implausible count %d", directory.ErrInvalidLayout, count)
	}

	table := make([]byte, cell*(int(count)+1))
	if _, err := io.ReadFull(r, table); err != nil {
		return nil, fmt.Errorf("read boundary table: %w", err)
	}
	boundaries := make([]uint64, count+1)
	for i := range boundaries {
		boundaries[i] = binary.LittleEndian.Uint64(table[cell*i:])
	}

	dir := &directory.Directory{}
	if err := dir.Build(int(count), boundaries); err != nil {
		return nil, err
	}

	data := make([]byte, dir.Span().Size())
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	return &PackedImage{Directory: dir, Data: data}, nil
}
