// Package directory implements the run-time index over embedded program
// images: the program count plus the ordered boundary addresses that delimit
// each program's bytes inside the packed kernel image.
package directory

import (
	"fmt"
	"iter"
)

// Range is the half-open address interval [Start, End) occupied by one
// embedded program. Start == End for a zero-length program.
type Range struct {
	Start uint64
	End   uint64
}

// Size returns the number of bytes covered by the range.
func (r Range) Size() uint64 {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%#x, %#x)", r.Start, r.End)
}

// Directory is the boot-time-queryable index over embedded programs. The
// zero value is uninitialized; Build transitions it to built exactly once,
// after which it is immutable and safe for concurrent readers.
type Directory struct {
	built      bool
	boundaries []uint64
}

// Build installs the boundary table. boundaries must hold count+1
// non-decreasing addresses: boundaries[i] is the start of program i and
// boundaries[i+1] its exclusive end. The table is copied, so the caller's
// slice cannot mutate the directory afterward.
//
// Build may be called once. A second call returns ErrAlreadyBuilt and leaves
// the installed table untouched, since consumers may already hold ranges
// from the first build.
func (d *Directory) Build(count int, boundaries []uint64) error {
	if d.built {
		return ErrAlreadyBuilt
	}
	if count < 0 {
		return fmt.Errorf("%w: negative count %d", ErrInvalidLayout, count)
	}
	if len(boundaries) != count+1 {
		return fmt.Errorf("%w: count %d requires %d boundaries, got %d",
			ErrInvalidLayout, count, count+1, len(boundaries))
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] < boundaries[i-1] {
			return fmt.Errorf("%w: boundary %d (%#x) below boundary %d (%#x)",
				ErrInvalidLayout, i, boundaries[i], i-1, boundaries[i-1])
		}
	}
	d.boundaries = append([]uint64(nil), boundaries...)
	d.built = true
	return nil
}

// Count returns the number of embedded programs. An unbuilt directory has
// count 0.
func (d *Directory) Count() int {
	if !d.built {
		return 0
	}
	return len(d.boundaries) - 1
}

// RangeOf returns the address range of program i. An index outside
// [0, Count()) means the caller asked for a program that was never embedded;
// it returns ErrIndexOutOfRange and must be treated as a programming error.
func (d *Directory) RangeOf(i int) (Range, error) {
	if i < 0 || i >= d.Count() {
		return Range{}, fmt.Errorf("%w: index %d, count %d", ErrIndexOutOfRange, i, d.Count())
	}
	return Range{Start: d.boundaries[i], End: d.boundaries[i+1]}, nil
}

// All returns an iterator over every program range in index order. The
// sequence is finite and restartable: each invocation replays the same
// ranges.
func (d *Directory) All() iter.Seq[Range] {
	return func(yield func(Range) bool) {
		for i := 0; i < d.Count(); i++ {
			if !yield(Range{Start: d.boundaries[i], End: d.boundaries[i+1]}) {
				return
			}
		}
	}
}

// Span returns the range covered by the whole blob region, from the first
// program's start to the last program's end. Zero for an unbuilt directory.
func (d *Directory) Span() Range {
	if !d.built {
		return Range{}
	}
	return Range{Start: d.boundaries[0], End: d.boundaries[len(d.boundaries)-1]}
}
