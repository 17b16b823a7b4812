package directory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildAndCount(t *testing.T) {
	d := &Directory{}
	require.Equal(t, 0, d.Count())

	err := d.Build(3, []uint64{100, 110, 110, 114})
	require.NoError(t, err)
	require.Equal(t, 3, d.Count())

	r, err := d.RangeOf(0)
	require.NoError(t, err)
	require.Equal(t, Range{Start: 100, End: 110}, r)

	// Zero-length program
	r, err = d.RangeOf(1)
	require.NoError(t, err)
	require.Equal(t, Range{Start: 110, End: 110}, r)
	require.Equal(t, uint64(0), r.Size())

	r, err = d.RangeOf(2)
	require.NoError(t, err)
	require.Equal(t, Range{Start: 110, End: 114}, r)
}

func TestBuildEmpty(t *testing.T) {
	d := &Directory{}
	require.NoError(t, d.Build(0, []uint64{0x80400000}))
	require.Equal(t, 0, d.Count())
	require.Equal(t, uint64(0), d.Span().Size())

	_, err := d.RangeOf(0)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestBuildInvalidLayout(t *testing.T) {
	d := &Directory{}
	err := d.Build(2, []uint64{0, 10})
	require.ErrorIs(t, err, ErrInvalidLayout)

	err = d.Build(2, []uint64{0, 20, 10})
	require.ErrorIs(t, err, ErrInvalidLayout)

	err = d.Build(-1, nil)
	require.ErrorIs(t, err, ErrInvalidLayout)

	// Failed builds leave the directory uninitialized
	require.Equal(t, 0, d.Count())
}

func TestRebuildFails(t *testing.T) {
	d := &Directory{}
	require.NoError(t, d.Build(1, []uint64{0, 8}))

	err := d.Build(2, []uint64{0, 4, 8})
	require.ErrorIs(t, err, ErrAlreadyBuilt)

	// First build's contents survive the failed second call
	require.Equal(t, 1, d.Count())
	r, err := d.RangeOf(0)
	require.NoError(t, err)
	require.Equal(t, Range{Start: 0, End: 8}, r)
}

func TestBoundariesCopied(t *testing.T) {
	boundaries := []uint64{0, 10, 20}
	d := &Directory{}
	require.NoError(t, d.Build(2, boundaries))

	boundaries[1] = 999
	r, err := d.RangeOf(0)
	require.NoError(t, err)
	require.Equal(t, uint64(10), r.End)
}

func TestRangeOfOutOfRange(t *testing.T) {
	d := &Directory{}
	require.NoError(t, d.Build(2, []uint64{0, 5, 9}))

	_, err := d.RangeOf(-1)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = d.RangeOf(2)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestAllMatchesRangeOf(t *testing.T) {
	d := &Directory{}
	require.NoError(t, d.Build(3, []uint64{100, 110, 110, 114}))

	collect := func() []Range {
		var out []Range
		for r := range d.All() {
			out = append(out, r)
		}
		return out
	}

	first := collect()
	require.Len(t, first, 3)
	for i, r := range first {
		want, err := d.RangeOf(i)
		require.NoError(t, err)
		require.Equal(t, want, r)
	}

	// Restartable: a second walk yields the identical sequence
	require.Equal(t, first, collect())
}

func TestAllEarlyStop(t *testing.T) {
	d := &Directory{}
	require.NoError(t, d.Build(3, []uint64{0, 1, 2, 3}))

	var seen int
	for range d.All() {
		seen++
		break
	}
	require.Equal(t, 1, seen)
}
